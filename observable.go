// Observable implementation for rxcore
// Observable 接口与基于函数的实现
package rxcore

// ============================================================================
// Observable 核心接口
// ============================================================================

// Observable 可观察序列。Subscribe 返回的 Disposable 释放后不再向 observer 投递通知。
type Observable[T any] interface {
	Subscribe(observer Observer[T]) Disposable
}

// createObservable 由订阅函数定义的 Observable
type createObservable[T any] struct {
	subscribe func(observer Observer[T]) Disposable
}

// Create 从订阅函数创建 Observable。传给 subscribe 的观察者会忽略终止之后和
// 订阅释放之后的调用；终止时释放 subscribe 返回的资源。
func Create[T any](subscribe func(observer Observer[T]) Disposable) Observable[T] {
	return &createObservable[T]{subscribe: subscribe}
}

// Subscribe 订阅观察者
func (o *createObservable[T]) Subscribe(observer Observer[T]) Disposable {
	sink := newSafeObserver(observer)

	upstream := o.subscribe(sink)
	if upstream == nil {
		upstream = EmptyDisposable()
	}
	sink.upstream.Set(upstream)

	return sink
}

// ============================================================================
// 基础工厂函数
// ============================================================================

// Return 订阅时同步发射一个值后完成
func Return[T any](value T) Observable[T] {
	return Just(value)
}

// Just 订阅时同步发射给定的值后完成
func Just[T any](values ...T) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		for _, value := range values {
			observer.OnNext(value)
		}
		observer.OnCompleted()
		return nil
	})
}

// Empty 创建一个立即完成的 Observable
func Empty[T any]() Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		observer.OnCompleted()
		return nil
	})
}

// Never 创建一个永不发射任何通知的 Observable
func Never[T any]() Observable[T] {
	return Create(func(Observer[T]) Disposable {
		return nil
	})
}

// Throw 创建一个立即发射错误的 Observable
func Throw[T any](err error) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		observer.OnError(err)
		return nil
	})
}

// ============================================================================
// 副作用操作符
// ============================================================================

// DoOnNext 在每个值转发前执行副作用操作
func DoOnNext[T any](source Observable[T], action func(T)) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		return source.Subscribe(NewObserver(
			func(value T) {
				if action != nil {
					action(value)
				}
				observer.OnNext(value)
			},
			observer.OnError,
			observer.OnCompleted,
		))
	})
}
