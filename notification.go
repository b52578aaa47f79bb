// Notification types for rxcore
// 通知类型：Next、Error、Completed 的标签联合
package rxcore

import (
	"errors"
	"fmt"
	"reflect"
)

// ============================================================================
// 通知类型
// ============================================================================

// Kind 通知的种类
type Kind int

const (
	// KindNext 携带一个值，非终止
	KindNext Kind = iota
	// KindError 携带一个错误，终止
	KindError
	// KindCompleted 完成信号，终止
	KindCompleted
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "OnNext"
	case KindError:
		return "OnError"
	case KindCompleted:
		return "OnCompleted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Notification 序列中的一个事件
type Notification[T any] struct {
	kind  Kind
	value T
	err   error
}

// NextNotification 创建 Next 通知
func NextNotification[T any](value T) Notification[T] {
	return Notification[T]{kind: KindNext, value: value}
}

// ErrorNotification 创建 Error 通知
func ErrorNotification[T any](err error) Notification[T] {
	return Notification[T]{kind: KindError, err: err}
}

// CompletedNotification 创建 Completed 通知
func CompletedNotification[T any]() Notification[T] {
	return Notification[T]{kind: KindCompleted}
}

// Kind 返回通知种类
func (n Notification[T]) Kind() Kind { return n.kind }

// Value 返回 Next 通知携带的值；其他种类返回零值
func (n Notification[T]) Value() T { return n.value }

// Err 返回 Error 通知携带的错误；其他种类返回 nil
func (n Notification[T]) Err() error { return n.err }

// IsTerminal Error 与 Completed 为终止通知
func (n Notification[T]) IsTerminal() bool {
	return n.kind == KindError || n.kind == KindCompleted
}

// Accept 将通知分发给观察者对应的方法
func (n Notification[T]) Accept(observer Observer[T]) {
	switch n.kind {
	case KindNext:
		observer.OnNext(n.value)
	case KindError:
		observer.OnError(n.err)
	case KindCompleted:
		observer.OnCompleted()
	}
}

// Equal 比较两个通知。值使用 reflect.DeepEqual，错误按同一性或 errors.Is 比较。
// go-cmp 会自动使用该方法。
func (n Notification[T]) Equal(other Notification[T]) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindNext:
		return reflect.DeepEqual(n.value, other.value)
	case KindError:
		return n.err == other.err || errors.Is(n.err, other.err) || errors.Is(other.err, n.err)
	default:
		return true
	}
}

func (n Notification[T]) String() string {
	switch n.kind {
	case KindNext:
		return fmt.Sprintf("OnNext(%v)", n.value)
	case KindError:
		return fmt.Sprintf("OnError(%v)", n.err)
	default:
		return n.kind.String() + "()"
	}
}
