// Timed TakeUntil operator for rxcore
// 时间触发的 TakeUntil：在绝对时间到达时关闭门控
package rxcore

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore/internal/log"
)

type takeUntilTimeObservable[T any] struct {
	source    Observable[T]
	due       time.Time
	scheduler Scheduler
	logger    zerolog.Logger
}

// TakeUntilTime 转发 source 的值，直到调度器时间到达 due 时下游收到 OnCompleted。
// 未指定调度器时使用 DefaultScheduler；WithScheduler(nil) 与 nil source 返回
// ErrInvalidArgument。已经过去的 due 按调度器规则尽快触发。
func TakeUntilTime[T any](source Observable[T], due time.Time, opts ...Option) (Observable[T], error) {
	if source == nil {
		return nil, invalidArgument("source")
	}
	config := newConfig(opts)
	if isNilScheduler(config.Scheduler) {
		return nil, invalidArgument("scheduler")
	}
	return &takeUntilTimeObservable[T]{
		source:    source,
		due:       due,
		scheduler: config.Scheduler,
		logger:    config.logger("take_until_time"),
	}, nil
}

// Subscribe 先调度截止动作，再订阅源
func (o *takeUntilTimeObservable[T]) Subscribe(observer Observer[T]) Disposable {
	g := &takeUntilTimeGate[T]{
		downstream: observer,
		sourceSub:  NewSingleAssignmentDisposable(),
		cutoff:     NewSingleAssignmentDisposable(),
		logger:     o.logger,
	}

	g.cutoff.Set(o.scheduler.ScheduleAt(o.due, g.tick))
	if g.ser.isDone() {
		return g
	}
	g.sourceSub.Set(o.source.Subscribe(g))

	return g
}

type takeUntilTimeGate[T any] struct {
	downstream Observer[T]
	ser        halfSerializer[T]
	sourceSub  *SingleAssignmentDisposable
	cutoff     *SingleAssignmentDisposable
	logger     zerolog.Logger
}

func (g *takeUntilTimeGate[T]) tick() {
	g.finish("deadline", nil)
}

func (g *takeUntilTimeGate[T]) OnNext(value T) {
	g.ser.onNext(g.downstream, value)
}

func (g *takeUntilTimeGate[T]) OnError(err error) {
	g.finish("source_error", err)
}

func (g *takeUntilTimeGate[T]) OnCompleted() {
	g.finish("source_completed", nil)
}

func (g *takeUntilTimeGate[T]) finish(cause string, err error) {
	g.Dispose()
	if g.ser.terminate(g.downstream, err) {
		g.logger.Debug().
			Str(log.FieldOperator, "take_until_time").
			Str(log.FieldCause, cause).
			Bool("error", err != nil).
			Msg("gate closed")
	}
}

// Dispose 释放源订阅并取消尚未触发的截止动作
func (g *takeUntilTimeGate[T]) Dispose() {
	g.sourceSub.Dispose()
	g.cutoff.Dispose()
}

// IsDisposed 检查是否已释放
func (g *takeUntilTimeGate[T]) IsDisposed() bool {
	return g.sourceSub.IsDisposed() && g.cutoff.IsDisposed()
}
