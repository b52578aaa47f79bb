// Virtual time scheduler for rxcore
// 虚拟时间调度器：确定性的逻辑时钟与按 (到期时间, 插入序号) 排序的动作队列
package rxcore

import (
	"container/heap"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore/internal/log"
)

// ============================================================================
// 虚拟时间
// ============================================================================

// 虚拟时钟的一个 tick 对应 time.Time 上的一纳秒，以 Unix 纪元为零点
var virtualEpoch = time.Unix(0, 0).UTC()

// TickTime 将 tick 转换为 time.Time
func TickTime(tick int64) time.Time {
	return virtualEpoch.Add(time.Duration(tick))
}

// TimeTick 将 time.Time 转换为 tick；超出范围的时间饱和到 int64 边界，
// 因此 time.Time{} 这类远古时间得到一个很小的负数
func TimeTick(t time.Time) int64 {
	return int64(t.Sub(virtualEpoch))
}

// SchedulerState 虚拟调度器的运行状态
type SchedulerState int

const (
	// StateCreated 尚未运行
	StateCreated SchedulerState = iota
	// StateRunning 正在排空队列
	StateRunning
	// StateStopped 一次运行已结束
	StateStopped
)

func (s SchedulerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("SchedulerState(%d)", int(s))
	}
}

// ============================================================================
// 动作队列
// ============================================================================

// scheduledItem 调度的动作。取消只标记，不从队列移除。
type scheduledItem struct {
	due       int64
	seq       uint64
	action    func()
	cancelled bool
}

type actionQueue []*scheduledItem

func (q actionQueue) Len() int { return len(q) }

func (q actionQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q actionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *actionQueue) Push(x any) { *q = append(*q, x.(*scheduledItem)) }

func (q *actionQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}

// ============================================================================
// 虚拟时间调度器
// ============================================================================

// VirtualTimeScheduler 确定性的虚拟时间调度器。
// 不早于当前时间的到期时间被推迟到 clock+1，相同到期时间按调度顺序执行。
type VirtualTimeScheduler struct {
	mu     sync.Mutex
	clock  int64
	seq    uint64
	queue  actionQueue
	state  SchedulerState
	stop   bool
	logger zerolog.Logger
}

// NewVirtualTimeScheduler 创建时钟位于 initial 的虚拟调度器
func NewVirtualTimeScheduler(initial int64) *VirtualTimeScheduler {
	return &VirtualTimeScheduler{
		clock:  initial,
		logger: log.WithComponent("scheduler").With().Str(log.FieldScheduler, "virtual").Logger(),
	}
}

// Clock 当前 tick
func (s *VirtualTimeScheduler) Clock() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Now 当前虚拟时间
func (s *VirtualTimeScheduler) Now() time.Time {
	return TickTime(s.Clock())
}

// State 当前运行状态
func (s *VirtualTimeScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending 队列中尚未取消的动作数量
func (s *VirtualTimeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range s.queue {
		if !it.cancelled {
			n++
		}
	}
	return n
}

// ScheduleAt 在绝对虚拟时间执行动作
func (s *VirtualTimeScheduler) ScheduleAt(due time.Time, action func()) Disposable {
	return s.ScheduleAtTick(TimeTick(due), action)
}

// Schedule 在相对延迟之后执行动作
func (s *VirtualTimeScheduler) Schedule(delay time.Duration, action func()) Disposable {
	s.mu.Lock()
	due := addTicks(s.clock, int64(delay))
	s.mu.Unlock()
	return s.ScheduleAtTick(due, action)
}

// ScheduleAtTick 在绝对 tick 执行动作
func (s *VirtualTimeScheduler) ScheduleAtTick(due int64, action func()) Disposable {
	s.mu.Lock()
	if due <= s.clock {
		s.logger.Debug().
			Int64(log.FieldDueTick, due).
			Int64(log.FieldClamped, s.clock+1).
			Msg("due time not after clock, clamped")
		due = s.clock + 1
	}
	s.seq++
	it := &scheduledItem{due: due, seq: s.seq, action: action}
	heap.Push(&s.queue, it)
	s.mu.Unlock()

	return NewDisposable(func() {
		s.mu.Lock()
		it.cancelled = true
		it.action = nil
		s.mu.Unlock()
	})
}

// Start 排空队列直到为空或调用 Stop
func (s *VirtualTimeScheduler) Start() error {
	return s.run(math.MaxInt64, false)
}

// AdvanceTo 执行所有到期时间不晚于 tick 的动作，并将时钟推进到 tick
func (s *VirtualTimeScheduler) AdvanceTo(tick int64) error {
	return s.run(tick, true)
}

// AdvanceBy 将时钟推进 delta 个 tick
func (s *VirtualTimeScheduler) AdvanceBy(delta int64) error {
	return s.AdvanceTo(addTicks(s.Clock(), delta))
}

// Stop 请求当前运行在本动作结束后停止
func (s *VirtualTimeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop = true
	if s.state != StateRunning {
		s.setState(StateStopped)
	}
}

func (s *VirtualTimeScheduler) run(limit int64, setClock bool) error {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return ErrSchedulerRunning
	}
	if limit < s.clock {
		clock := s.clock
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot move clock back from %d to %d", ErrInvalidArgument, clock, limit)
	}
	s.stop = false
	s.setState(StateRunning)
	s.mu.Unlock()

	drained := false
	defer func() {
		s.mu.Lock()
		if drained && setClock && !s.stop && limit > s.clock {
			s.clock = limit
		}
		s.setState(StateStopped)
		s.mu.Unlock()
	}()

	for {
		action, ok := s.next(limit)
		if !ok {
			break
		}
		if action != nil {
			action()
		}
	}
	drained = true
	return nil
}

// next 弹出下一个到期动作并推进时钟；已取消的动作返回 nil
func (s *VirtualTimeScheduler) next(limit int64) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop || len(s.queue) == 0 || s.queue[0].due > limit {
		return nil, false
	}
	it := heap.Pop(&s.queue).(*scheduledItem)
	if it.due > s.clock {
		s.clock = it.due
	}
	if it.cancelled {
		return nil, true
	}
	action := it.action
	it.action = nil
	return action, true
}

// setState 调用方持有 s.mu
func (s *VirtualTimeScheduler) setState(state SchedulerState) {
	if s.state == state {
		return
	}
	s.logger.Debug().
		Stringer(log.FieldOldState, s.state).
		Stringer(log.FieldNewState, state).
		Int64(log.FieldTick, s.clock).
		Msg("virtual scheduler state changed")
	s.state = state
}

func addTicks(base, delta int64) int64 {
	if delta > 0 && base > math.MaxInt64-delta {
		return math.MaxInt64
	}
	if delta < 0 && base < math.MinInt64-delta {
		return math.MinInt64
	}
	return base + delta
}
