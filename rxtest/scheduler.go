// Package rxtest is a deterministic harness for scenarios driven by virtual
// time: hot and cold producers replay scripted notifications, a recording
// observer captures what reached it and when, and every producer logs the
// subscription intervals it served.
// rxtest 是虚拟时间驱动的确定性测试工具：冷热生产者重放脚本化通知，
// 记录观察者捕获到达的通知与时间，每个生产者记录其服务过的订阅区间。
package rxtest

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/xinjiayu/rxcore"
)

// 场景运行约定：创建、订阅、释放时间
const (
	Created    int64 = 100
	Subscribed int64 = 200
	Disposed   int64 = 1000
)

// Producer 带订阅记录的测试生产者
type Producer interface {
	ID() uuid.UUID
	Subscriptions() []Subscription
}

// TestScheduler 从 tick 0 开始的虚拟时间调度器，记录在其上创建的生产者
type TestScheduler struct {
	*rxcore.VirtualTimeScheduler

	mu        sync.Mutex
	producers []Producer
}

func NewTestScheduler() *TestScheduler {
	return &TestScheduler{VirtualTimeScheduler: rxcore.NewVirtualTimeScheduler(0)}
}

func (s *TestScheduler) register(p Producer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.producers = append(s.producers, p)
}

// SubscriptionLog 返回在 s 上创建的每个生产者记录的订阅区间
func (s *TestScheduler) SubscriptionLog() map[uuid.UUID][]Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[uuid.UUID][]Subscription, len(s.producers))
	for _, p := range s.producers {
		out[p.ID()] = p.Subscriptions()
	}
	return out
}

// Start 使用默认的 Created/Subscribed/Disposed 时间运行场景
func Start[T any](s *TestScheduler, factory func() rxcore.Observable[T]) *TestObserver[T] {
	return StartWithTimes(s, Created, Subscribed, Disposed, factory)
}

// StartWithTimes 在 created 调用 factory，在 subscribed 订阅返回的序列，
// 在 disposed 释放该订阅。时钟推进到 disposed，调度器处于停止状态。
//
// 调度器已在运行（即在调度动作中调用）时 panic。
func StartWithTimes[T any](s *TestScheduler, created, subscribed, disposed int64, factory func() rxcore.Observable[T]) *TestObserver[T] {
	var (
		source       rxcore.Observable[T]
		subscription rxcore.Disposable
	)
	observer := CreateObserver[T](s)

	s.ScheduleAtTick(created, func() {
		source = factory()
	})
	s.ScheduleAtTick(subscribed, func() {
		if source != nil {
			subscription = source.Subscribe(observer)
		}
	})
	s.ScheduleAtTick(disposed, func() {
		if subscription != nil {
			subscription.Dispose()
		}
	})

	if err := s.AdvanceTo(disposed); err != nil {
		panic(fmt.Sprintf("rxtest: start scenario: %v", err))
	}
	return observer
}
