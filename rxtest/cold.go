// Cold test producer for rxtest
// 冷生产者：每个订阅者从自己的订阅时间起重放脚本
package rxtest

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore"
	"github.com/xinjiayu/rxcore/internal/log"
)

// ColdObservable 为每个订阅者重放消息，消息时间是相对该订阅者订阅时间的偏移
type ColdObservable[T any] struct {
	scheduler *TestScheduler
	id        uuid.UUID
	messages  []Recorded[T]
	logger    zerolog.Logger

	mu            sync.Mutex
	subscriptions []Subscription
}

// CreateColdObservable 创建按订阅者重新定基的生产者
func CreateColdObservable[T any](s *TestScheduler, messages ...Recorded[T]) *ColdObservable[T] {
	c := &ColdObservable[T]{
		scheduler: s,
		id:        uuid.New(),
		messages:  append([]Recorded[T](nil), messages...),
	}
	c.logger = log.WithComponent("rxtest").With().
		Str(log.FieldProducer, c.id.String()).
		Str("temperature", "cold").
		Logger()
	s.register(c)
	return c
}

// Subscribe 以当前时间为基准调度全部消息，释放时取消尚未投递的消息
func (c *ColdObservable[T]) Subscribe(observer rxcore.Observer[T]) rxcore.Disposable {
	now := c.scheduler.Clock()

	c.mu.Lock()
	c.subscriptions = append(c.subscriptions, Subscribe(now))
	index := len(c.subscriptions) - 1
	c.mu.Unlock()

	c.logger.Debug().Int64(log.FieldTick, now).Msg("subscribed")

	pending := rxcore.NewCompositeDisposable()
	for _, m := range c.messages {
		n := m.Notification
		pending.Add(c.scheduler.ScheduleAtTick(now+m.Time, func() {
			n.Accept(observer)
		}))
	}

	return rxcore.NewDisposable(func() {
		end := c.scheduler.Clock()
		c.mu.Lock()
		c.subscriptions[index].Unsubscribe = end
		c.mu.Unlock()
		pending.Dispose()

		c.logger.Debug().Int64(log.FieldTick, end).Msg("unsubscribed")
	})
}

func (c *ColdObservable[T]) ID() uuid.UUID { return c.id }

// Messages 返回脚本中的通知
func (c *ColdObservable[T]) Messages() []Recorded[T] {
	return append([]Recorded[T](nil), c.messages...)
}

// Subscriptions 返回目前记录的订阅区间
func (c *ColdObservable[T]) Subscriptions() []Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Subscription(nil), c.subscriptions...)
}
