// Recording observer for rxtest
// 记录观察者：按到达时的虚拟时间记录每个通知
package rxtest

import (
	"sync"

	"github.com/xinjiayu/rxcore"
)

// TestObserver 记录每个通知及其到达时的虚拟时间
type TestObserver[T any] struct {
	scheduler *TestScheduler

	mu       sync.Mutex
	messages []Recorded[T]
}

// CreateObserver 创建使用 s 的时钟打时间戳的观察者
func CreateObserver[T any](s *TestScheduler) *TestObserver[T] {
	return &TestObserver[T]{scheduler: s}
}

func (o *TestObserver[T]) record(n rxcore.Notification[T]) {
	now := o.scheduler.Clock()
	o.mu.Lock()
	o.messages = append(o.messages, Recorded[T]{Time: now, Notification: n})
	o.mu.Unlock()
}

func (o *TestObserver[T]) OnNext(value T) { o.record(rxcore.NextNotification(value)) }

func (o *TestObserver[T]) OnError(err error) { o.record(rxcore.ErrorNotification[T](err)) }

func (o *TestObserver[T]) OnCompleted() { o.record(rxcore.CompletedNotification[T]()) }

// Messages 返回已记录通知的副本
func (o *TestObserver[T]) Messages() []Recorded[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Recorded[T](nil), o.messages...)
}
