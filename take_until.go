// TakeUntil operator for rxcore
// TakeUntil 操作符：转发源序列直到触发序列发出任何通知
package rxcore

import (
	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore/internal/log"
)

// ============================================================================
// 值触发的门控
// ============================================================================

type takeUntilObservable[T, U any] struct {
	source  Observable[T]
	trigger Observable[U]
	config  *Config
}

// TakeUntil 转发 source 的值，直到 trigger 发出值、完成或出错。
// trigger 发出值或完成时下游收到 OnCompleted，trigger 出错时下游收到该错误。
// source 或 trigger 为 nil 时返回 ErrInvalidArgument。
//
// trigger 先于 source 被订阅：订阅期间同步关闭门控的 trigger 会使 source
// 根本不被订阅，下游只收到终止通知。
func TakeUntil[T, U any](source Observable[T], trigger Observable[U], opts ...Option) (Observable[T], error) {
	if source == nil {
		return nil, invalidArgument("source")
	}
	if trigger == nil {
		return nil, invalidArgument("trigger")
	}
	return &takeUntilObservable[T, U]{
		source:  source,
		trigger: trigger,
		config:  newConfig(opts),
	}, nil
}

// Subscribe 订阅观察者
func (o *takeUntilObservable[T, U]) Subscribe(observer Observer[T]) Disposable {
	g := &takeUntilGate[T]{
		downstream: observer,
		sourceSub:  NewSingleAssignmentDisposable(),
		triggerSub: NewSingleAssignmentDisposable(),
		logger:     o.config.logger("take_until"),
	}

	g.triggerSub.Set(o.trigger.Subscribe(&takeUntilTrigger[T, U]{gate: g}))
	if g.ser.isDone() {
		return g
	}
	g.sourceSub.Set(o.source.Subscribe(&takeUntilSource[T]{gate: g}))

	return g
}

// takeUntilGate 一次订阅的状态：两个上游订阅和串行化的下游
type takeUntilGate[T any] struct {
	downstream Observer[T]
	ser        halfSerializer[T]
	sourceSub  *SingleAssignmentDisposable
	triggerSub *SingleAssignmentDisposable
	logger     zerolog.Logger
}

// finish 先释放两个上游订阅，再向下游发出终止通知
func (g *takeUntilGate[T]) finish(cause string, err error) {
	g.Dispose()
	if g.ser.terminate(g.downstream, err) {
		g.logger.Debug().
			Str(log.FieldOperator, "take_until").
			Str(log.FieldCause, cause).
			Bool("error", err != nil).
			Msg("gate closed")
	}
}

// Dispose 释放两个上游订阅
func (g *takeUntilGate[T]) Dispose() {
	g.sourceSub.Dispose()
	g.triggerSub.Dispose()
}

// IsDisposed 检查是否已释放
func (g *takeUntilGate[T]) IsDisposed() bool {
	return g.sourceSub.IsDisposed() && g.triggerSub.IsDisposed()
}

type takeUntilSource[T any] struct {
	gate *takeUntilGate[T]
}

func (s *takeUntilSource[T]) OnNext(value T) {
	s.gate.ser.onNext(s.gate.downstream, value)
}

func (s *takeUntilSource[T]) OnError(err error) {
	s.gate.finish("source_error", err)
}

func (s *takeUntilSource[T]) OnCompleted() {
	s.gate.finish("source_completed", nil)
}

type takeUntilTrigger[T, U any] struct {
	gate *takeUntilGate[T]
}

func (t *takeUntilTrigger[T, U]) OnNext(U) {
	t.gate.finish("trigger_next", nil)
}

func (t *takeUntilTrigger[T, U]) OnError(err error) {
	t.gate.finish("trigger_error", err)
}

func (t *takeUntilTrigger[T, U]) OnCompleted() {
	t.gate.finish("trigger_completed", nil)
}
