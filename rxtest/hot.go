// Hot test producer for rxtest
// 热生产者：按绝对虚拟时间播放脚本，与是否有订阅者无关
package rxtest

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore"
	"github.com/xinjiayu/rxcore/internal/log"
)

// HotObservable 按调度器的绝对时钟播放消息，不论是否有订阅者。
// 晚到的订阅者收不到之前的消息。
type HotObservable[T any] struct {
	scheduler *TestScheduler
	id        uuid.UUID
	messages  []Recorded[T]
	logger    zerolog.Logger

	mu            sync.Mutex
	observers     []*hotSubscriber[T]
	subscriptions []Subscription
}

type hotSubscriber[T any] struct {
	observer rxcore.Observer[T]
	active   bool
}

// CreateHotObservable 在 s 上按每条消息的绝对时间调度播放
func CreateHotObservable[T any](s *TestScheduler, messages ...Recorded[T]) *HotObservable[T] {
	h := &HotObservable[T]{
		scheduler: s,
		id:        uuid.New(),
		messages:  append([]Recorded[T](nil), messages...),
	}
	h.logger = log.WithComponent("rxtest").With().
		Str(log.FieldProducer, h.id.String()).
		Str("temperature", "hot").
		Logger()

	for _, m := range h.messages {
		n := m.Notification
		s.ScheduleAtTick(m.Time, func() {
			h.emit(n)
		})
	}
	s.register(h)
	return h
}

func (h *HotObservable[T]) emit(n rxcore.Notification[T]) {
	h.mu.Lock()
	observers := append([]*hotSubscriber[T](nil), h.observers...)
	h.mu.Unlock()

	for _, sub := range observers {
		h.mu.Lock()
		active := sub.active
		h.mu.Unlock()
		if active {
			n.Accept(sub.observer)
		}
	}
}

// Subscribe 注册观察者并记录订阅区间
func (h *HotObservable[T]) Subscribe(observer rxcore.Observer[T]) rxcore.Disposable {
	now := h.scheduler.Clock()
	sub := &hotSubscriber[T]{observer: observer, active: true}

	h.mu.Lock()
	h.observers = append(h.observers, sub)
	h.subscriptions = append(h.subscriptions, Subscribe(now))
	index := len(h.subscriptions) - 1
	h.mu.Unlock()

	h.logger.Debug().Int64(log.FieldTick, now).Msg("subscribed")

	return rxcore.NewDisposable(func() {
		end := h.scheduler.Clock()
		h.mu.Lock()
		sub.active = false
		for i, o := range h.observers {
			if o == sub {
				h.observers = append(h.observers[:i], h.observers[i+1:]...)
				break
			}
		}
		h.subscriptions[index].Unsubscribe = end
		h.mu.Unlock()

		h.logger.Debug().Int64(log.FieldTick, end).Msg("unsubscribed")
	})
}

func (h *HotObservable[T]) ID() uuid.UUID { return h.id }

// Messages 返回脚本中的通知
func (h *HotObservable[T]) Messages() []Recorded[T] {
	return append([]Recorded[T](nil), h.messages...)
}

// Subscriptions 返回目前记录的订阅区间
func (h *HotObservable[T]) Subscriptions() []Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Subscription(nil), h.subscriptions...)
}
