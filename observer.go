// Observer implementations for rxcore
// 观察者：回调观察者、终止状态守卫与半序列化器
package rxcore

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore/internal/log"
)

// ============================================================================
// 观察者接口
// ============================================================================

// Observer 接收一个订阅的通知。对同一实例的调用是串行的，
// OnError 与 OnCompleted 互斥且最多调用一次，之后不再有任何调用。
type Observer[T any] interface {
	OnNext(value T)
	OnError(err error)
	OnCompleted()
}

// callbackObserver 由回调函数组成的观察者，nil 回调被忽略
type callbackObserver[T any] struct {
	onNext      func(T)
	onError     func(error)
	onCompleted func()
}

// NewObserver 使用回调函数创建观察者
func NewObserver[T any](onNext func(T), onError func(error), onCompleted func()) Observer[T] {
	return &callbackObserver[T]{onNext: onNext, onError: onError, onCompleted: onCompleted}
}

func (o *callbackObserver[T]) OnNext(value T) {
	if o.onNext != nil {
		o.onNext(value)
	}
}

func (o *callbackObserver[T]) OnError(err error) {
	if o.onError != nil {
		o.onError(err)
	}
}

func (o *callbackObserver[T]) OnCompleted() {
	if o.onCompleted != nil {
		o.onCompleted()
	}
}

// ============================================================================
// 终止状态守卫
// ============================================================================

const (
	sinkActive int32 = iota
	sinkTerminated
	sinkDisposed
)

// safeObserver 在观察者边界上执行终止规则：终止或释放之后的调用被丢弃而不是抛出。
// 终止时释放上游订阅。
type safeObserver[T any] struct {
	downstream Observer[T]
	upstream   *SingleAssignmentDisposable
	state      atomic.Int32
	logger     zerolog.Logger
}

// AsSafeObserver 包装观察者，使其忽略终止通知之后的调用
func AsSafeObserver[T any](observer Observer[T]) Observer[T] {
	if so, ok := observer.(*safeObserver[T]); ok {
		return so
	}
	return newSafeObserver(observer)
}

func newSafeObserver[T any](observer Observer[T]) *safeObserver[T] {
	return &safeObserver[T]{
		downstream: observer,
		upstream:   NewSingleAssignmentDisposable(),
		logger:     log.WithComponent("observer"),
	}
}

func (s *safeObserver[T]) OnNext(value T) {
	if s.state.Load() != sinkActive {
		s.dropped(KindNext)
		return
	}
	s.downstream.OnNext(value)
}

func (s *safeObserver[T]) OnError(err error) {
	if !s.state.CompareAndSwap(sinkActive, sinkTerminated) {
		s.dropped(KindError)
		return
	}
	defer s.upstream.Dispose()
	s.downstream.OnError(err)
}

func (s *safeObserver[T]) OnCompleted() {
	if !s.state.CompareAndSwap(sinkActive, sinkTerminated) {
		s.dropped(KindCompleted)
		return
	}
	defer s.upstream.Dispose()
	s.downstream.OnCompleted()
}

func (s *safeObserver[T]) dropped(kind Kind) {
	cause := "terminated"
	if s.state.Load() == sinkDisposed {
		cause = "disposed"
	}
	s.logger.Debug().
		Str(log.FieldEvent, "notification_dropped").
		Stringer(log.FieldKind, kind).
		Str(log.FieldCause, cause).
		Msg("notification after stop ignored")
}

// Dispose 停止转发并释放上游订阅
func (s *safeObserver[T]) Dispose() {
	s.state.CompareAndSwap(sinkActive, sinkDisposed)
	s.upstream.Dispose()
}

// IsDisposed 检查是否已释放
func (s *safeObserver[T]) IsDisposed() bool {
	return s.upstream.IsDisposed()
}

// ============================================================================
// 半序列化器
// ============================================================================

// halfSerializer 串行化来自两个独立源的下游调用：OnNext 只来自主源，
// 终止通知可以来自任一方。终止通知最多转发一次，之后不再转发任何 OnNext。
// 重入时（下游 OnNext 内同步触发终止），终止通知在 OnNext 返回后转发。
type halfSerializer[T any] struct {
	wip  atomic.Int32
	done atomic.Bool
	err  error
}

func (h *halfSerializer[T]) onNext(downstream Observer[T], value T) {
	if !h.wip.CompareAndSwap(0, 1) {
		return
	}
	downstream.OnNext(value)
	if h.wip.Add(-1) != 0 {
		h.emitTerminal(downstream)
	}
}

// terminate 保留终止权，成功时返回 true
func (h *halfSerializer[T]) terminate(downstream Observer[T], err error) bool {
	if !h.done.CompareAndSwap(false, true) {
		return false
	}
	h.err = err
	if h.wip.Add(1) == 1 {
		h.emitTerminal(downstream)
	}
	return true
}

func (h *halfSerializer[T]) isDone() bool {
	return h.done.Load()
}

func (h *halfSerializer[T]) emitTerminal(downstream Observer[T]) {
	if h.err != nil {
		downstream.OnError(h.err)
		return
	}
	downstream.OnCompleted()
}
