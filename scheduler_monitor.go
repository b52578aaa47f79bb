// Monitored scheduler for rxcore
// 带 Prometheus 监控的调度器包装器
package rxcore

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================================
// 调度器性能监控
// ============================================================================

// SchedulerMetrics 调度器性能指标
type SchedulerMetrics struct {
	Scheduled prometheus.Counter
	Completed prometheus.Counter
	Failed    prometheus.Counter
	Cancelled prometheus.Counter
	// Lag 动作实际执行时间与到期时间之差（按调度器自身时钟）
	Lag prometheus.Histogram
}

// NewSchedulerMetrics 创建指标并注册到 reg；reg 为 nil 时不注册
func NewSchedulerMetrics(reg prometheus.Registerer, name string) *SchedulerMetrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"scheduler": name}

	return &SchedulerMetrics{
		Scheduled: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rxcore_scheduler_actions_scheduled_total",
			Help:        "Total number of actions handed to the scheduler",
			ConstLabels: labels,
		}),
		Completed: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rxcore_scheduler_actions_completed_total",
			Help:        "Total number of scheduled actions that ran to completion",
			ConstLabels: labels,
		}),
		Failed: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rxcore_scheduler_actions_failed_total",
			Help:        "Total number of scheduled actions that panicked",
			ConstLabels: labels,
		}),
		Cancelled: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rxcore_scheduler_actions_cancelled_total",
			Help:        "Total number of scheduled actions disposed before running",
			ConstLabels: labels,
		}),
		Lag: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "rxcore_scheduler_action_lag_seconds",
			Help:        "Delay between an action's due time and its execution",
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 10),
			ConstLabels: labels,
		}),
	}
}

// monitoredScheduler 带监控的调度器包装器
type monitoredScheduler struct {
	scheduler Scheduler
	metrics   *SchedulerMetrics
}

// NewMonitoredScheduler 创建带监控的调度器
func NewMonitoredScheduler(scheduler Scheduler, metrics *SchedulerMetrics) Scheduler {
	if metrics == nil {
		metrics = NewSchedulerMetrics(nil, "unnamed")
	}
	return &monitoredScheduler{scheduler: scheduler, metrics: metrics}
}

func (s *monitoredScheduler) Now() time.Time {
	return s.scheduler.Now()
}

// ScheduleAt 调度任务并记录指标
func (s *monitoredScheduler) ScheduleAt(due time.Time, action func()) Disposable {
	wrapped, started := s.wrap(due, action)
	return s.track(s.scheduler.ScheduleAt(due, wrapped), started)
}

// Schedule 延迟调度任务并记录指标
func (s *monitoredScheduler) Schedule(delay time.Duration, action func()) Disposable {
	wrapped, started := s.wrap(s.scheduler.Now().Add(delay), action)
	return s.track(s.scheduler.Schedule(delay, wrapped), started)
}

func (s *monitoredScheduler) wrap(due time.Time, action func()) (func(), *atomic.Bool) {
	s.metrics.Scheduled.Inc()
	started := new(atomic.Bool)

	return func() {
		started.Store(true)
		if lag := s.scheduler.Now().Sub(due); lag > 0 {
			s.metrics.Lag.Observe(lag.Seconds())
		} else {
			s.metrics.Lag.Observe(0)
		}

		defer func() {
			if r := recover(); r != nil {
				s.metrics.Failed.Inc()
				panic(r)
			}
			s.metrics.Completed.Inc()
		}()

		action()
	}, started
}

func (s *monitoredScheduler) track(inner Disposable, started *atomic.Bool) Disposable {
	return NewDisposable(func() {
		if !started.Load() {
			s.metrics.Cancelled.Inc()
		}
		inner.Dispose()
	})
}
