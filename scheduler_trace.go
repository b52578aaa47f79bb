// Traced scheduler for rxcore
// 带 OpenTelemetry 追踪的调度器包装器
package rxcore

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/xinjiayu/rxcore"

// tracedScheduler 每个实际执行的动作产生一个 span，被取消的动作不产生 span
type tracedScheduler struct {
	scheduler Scheduler
	tracer    trace.Tracer
}

// NewTracedScheduler 创建带追踪的调度器；tracer 为 nil 时使用全局 TracerProvider
func NewTracedScheduler(scheduler Scheduler, tracer trace.Tracer) Scheduler {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &tracedScheduler{scheduler: scheduler, tracer: tracer}
}

func (s *tracedScheduler) Now() time.Time {
	return s.scheduler.Now()
}

func (s *tracedScheduler) ScheduleAt(due time.Time, action func()) Disposable {
	return s.scheduler.ScheduleAt(due, s.wrap(due, action))
}

func (s *tracedScheduler) Schedule(delay time.Duration, action func()) Disposable {
	return s.scheduler.Schedule(delay, s.wrap(s.scheduler.Now().Add(delay), action))
}

func (s *tracedScheduler) wrap(due time.Time, action func()) func() {
	return func() {
		now := s.scheduler.Now()
		_, span := s.tracer.Start(context.Background(), "rxcore.scheduler.action",
			trace.WithTimestamp(time.Now()),
			trace.WithAttributes(
				attribute.Int64("rxcore.due_unix_nano", due.UnixNano()),
				attribute.Int64("rxcore.lag_ns", int64(now.Sub(due))),
			),
		)

		defer func() {
			if r := recover(); r != nil {
				span.SetStatus(codes.Error, "action panicked")
				span.RecordError(fmt.Errorf("panic: %v", r))
				span.End()
				panic(r)
			}
			span.End()
		}()

		action()
	}
}
