// Scheduler implementations for rxcore
// 调度器抽象与实时调度器
package rxcore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore/internal/log"
)

// ============================================================================
// 调度器接口
// ============================================================================

// Scheduler 在指定时间或延迟之后执行动作。
// 在动作执行前释放返回的 Disposable 会阻止其执行；执行后释放是空操作。
type Scheduler interface {
	// Now 调度器的当前时间
	Now() time.Time
	// ScheduleAt 在绝对时间 due 执行动作
	ScheduleAt(due time.Time, action func()) Disposable
	// Schedule 在相对延迟 delay 之后执行动作
	Schedule(delay time.Duration, action func()) Disposable
}

// ScheduleNow 尽快执行动作
func ScheduleNow(scheduler Scheduler, action func()) Disposable {
	return scheduler.Schedule(0, action)
}

// ============================================================================
// 实时调度器
// ============================================================================

const (
	taskPending int32 = iota
	taskRunning
	taskCancelled
)

// RealTimeScheduler 使用墙上时钟，每个动作在独立的 goroutine 中等待并执行
type RealTimeScheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewRealTimeScheduler 创建实时调度器
func NewRealTimeScheduler() *RealTimeScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &RealTimeScheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Now 返回墙上时钟时间
func (s *RealTimeScheduler) Now() time.Time {
	return time.Now()
}

// ScheduleAt 在绝对时间执行动作，过去的时间立即执行
func (s *RealTimeScheduler) ScheduleAt(due time.Time, action func()) Disposable {
	return s.Schedule(time.Until(due), action)
}

// Schedule 延迟执行动作
func (s *RealTimeScheduler) Schedule(delay time.Duration, action func()) Disposable {
	if delay < 0 {
		delay = 0
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return EmptyDisposable()
	}
	s.wg.Add(1)
	s.mu.RUnlock()

	var state atomic.Int32
	ctx, cancel := context.WithCancel(s.ctx)

	go func() {
		defer s.wg.Done()
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !state.CompareAndSwap(taskPending, taskRunning) {
			return
		}
		s.run(action)
	}()

	return NewDisposable(func() {
		state.CompareAndSwap(taskPending, taskCancelled)
		cancel()
	})
}

func (s *RealTimeScheduler) run(action func()) {
	defer func() {
		if r := recover(); r != nil {
			logger := s.logger()
			logger.Error().
				Str(log.FieldEvent, "action_panic").
				Str("panic", fmt.Sprint(r)).
				Msg("scheduled action panicked")
		}
	}()
	action()
}

// logger 每次调用时解析，之后的 ConfigureLogging 或 SetLogger 对已创建的调度器同样生效
func (s *RealTimeScheduler) logger() zerolog.Logger {
	return log.WithComponent("scheduler").With().Str(log.FieldScheduler, "realtime").Logger()
}

// Close 取消所有未执行的动作并等待其 goroutine 退出
func (s *RealTimeScheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// ============================================================================
// 默认调度器
// ============================================================================

// DefaultScheduler 未指定调度器时使用的进程级调度器
var DefaultScheduler Scheduler = NewRealTimeScheduler()
