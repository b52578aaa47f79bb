// Recorded notifications and subscription intervals
// 记录的通知与订阅区间
package rxtest

import (
	"fmt"
	"math"

	"github.com/xinjiayu/rxcore"
)

// Infinite 尚未释放的订阅的结束时间
const Infinite int64 = math.MaxInt64

// Recorded 在某个虚拟时间投递或计划投递的通知
type Recorded[T any] struct {
	Time         int64
	Notification rxcore.Notification[T]
}

func (r Recorded[T]) String() string {
	return fmt.Sprintf("%v@%d", r.Notification, r.Time)
}

// OnNext 在 time 的 Next 通知
func OnNext[T any](time int64, value T) Recorded[T] {
	return Recorded[T]{Time: time, Notification: rxcore.NextNotification(value)}
}

// OnError 在 time 的 Error 通知
func OnError[T any](time int64, err error) Recorded[T] {
	return Recorded[T]{Time: time, Notification: rxcore.ErrorNotification[T](err)}
}

// OnCompleted 在 time 的 Completed 通知
func OnCompleted[T any](time int64) Recorded[T] {
	return Recorded[T]{Time: time, Notification: rxcore.CompletedNotification[T]()}
}

// Subscription 订阅区间 [Subscribe, Unsubscribe)
type Subscription struct {
	Subscribe   int64
	Unsubscribe int64
}

// Subscribe 创建订阅区间；省略 end 表示从未释放
func Subscribe(start int64, end ...int64) Subscription {
	s := Subscription{Subscribe: start, Unsubscribe: Infinite}
	if len(end) > 0 {
		s.Unsubscribe = end[0]
	}
	return s
}

func (s Subscription) String() string {
	if s.Unsubscribe == Infinite {
		return fmt.Sprintf("(%d, Infinite)", s.Subscribe)
	}
	return fmt.Sprintf("(%d, %d)", s.Subscribe, s.Unsubscribe)
}
