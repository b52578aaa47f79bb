// Disposable implementations for rxcore
// 可释放资源：基础、组合、单次赋值
package rxcore

import (
	"sync"
	"sync/atomic"
)

// ============================================================================
// 生命周期管理
// ============================================================================

// Disposable 可释放资源的接口。Dispose 必须幂等且可并发调用。
type Disposable interface {
	// Dispose 释放资源
	Dispose()
	// IsDisposed 检查是否已释放
	IsDisposed() bool
}

// baseDisposable 基础可释放资源实现，动作最多执行一次。
// 并发的 Dispose 调用都会等待动作执行完毕后返回。
type baseDisposable struct {
	once     sync.Once
	disposed atomic.Bool
	action   func()
}

// NewDisposable 创建在首次 Dispose 时执行 action 的资源
func NewDisposable(action func()) Disposable {
	return &baseDisposable{action: action}
}

// EmptyDisposable 返回一个无动作的资源
func EmptyDisposable() Disposable {
	return &baseDisposable{}
}

// Dispose 释放资源
func (d *baseDisposable) Dispose() {
	d.once.Do(func() {
		d.disposed.Store(true)
		if d.action != nil {
			d.action()
		}
	})
}

// IsDisposed 检查是否已释放
func (d *baseDisposable) IsDisposed() bool {
	return d.disposed.Load()
}

// ============================================================================
// 组合式资源管理器
// ============================================================================

// DisposableKey 组合资源中子资源的稳定句柄
type DisposableKey uint64

// CompositeDisposable 组合式资源管理器，子资源以整数句柄索引
type CompositeDisposable struct {
	once      sync.Once
	mu        sync.Mutex
	disposed  bool
	nextKey   DisposableKey
	resources map[DisposableKey]Disposable
}

// NewCompositeDisposable 创建组合式资源管理器
func NewCompositeDisposable(disposables ...Disposable) *CompositeDisposable {
	cd := &CompositeDisposable{
		resources: make(map[DisposableKey]Disposable, len(disposables)),
	}
	for _, d := range disposables {
		cd.Add(d)
	}
	return cd
}

// Add 添加子资源并返回其句柄。组合资源已释放时，子资源立即被释放，返回 0。
func (cd *CompositeDisposable) Add(disposable Disposable) DisposableKey {
	if disposable == nil {
		return 0
	}

	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		disposable.Dispose()
		return 0
	}
	cd.nextKey++
	key := cd.nextKey
	cd.resources[key] = disposable
	cd.mu.Unlock()

	return key
}

// Remove 移除并释放句柄对应的子资源
func (cd *CompositeDisposable) Remove(key DisposableKey) bool {
	d, ok := cd.take(key)
	if ok {
		d.Dispose()
	}
	return ok
}

// Delete 移除子资源但不释放它
func (cd *CompositeDisposable) Delete(key DisposableKey) bool {
	_, ok := cd.take(key)
	return ok
}

func (cd *CompositeDisposable) take(key DisposableKey) (Disposable, bool) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	d, ok := cd.resources[key]
	if ok {
		delete(cd.resources, key)
	}
	return d, ok
}

// Len 当前持有的子资源数量
func (cd *CompositeDisposable) Len() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return len(cd.resources)
}

// Dispose 释放所有子资源。并发调用者都会等到全部子资源释放完成后才返回。
func (cd *CompositeDisposable) Dispose() {
	cd.once.Do(func() {
		cd.mu.Lock()
		cd.disposed = true
		resources := cd.resources
		cd.resources = nil
		cd.mu.Unlock()

		for _, resource := range resources {
			resource.Dispose()
		}
	})
}

// IsDisposed 检查是否已释放
func (cd *CompositeDisposable) IsDisposed() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.disposed
}

// ============================================================================
// 单次赋值资源
// ============================================================================

// SingleAssignmentDisposable 只能赋值一次的资源占位符。
// 先释放后赋值时，赋入的资源会被立即释放。
type SingleAssignmentDisposable struct {
	once     sync.Once
	mu       sync.Mutex
	current  Disposable
	assigned bool
	disposed bool
}

// NewSingleAssignmentDisposable 创建单次赋值资源
func NewSingleAssignmentDisposable() *SingleAssignmentDisposable {
	return &SingleAssignmentDisposable{}
}

// Set 赋值底层资源。重复赋值会 panic，这是调用方的编程错误。
func (s *SingleAssignmentDisposable) Set(d Disposable) {
	s.mu.Lock()
	if s.assigned {
		s.mu.Unlock()
		panic("rxcore: SingleAssignmentDisposable already assigned")
	}
	s.assigned = true
	if !s.disposed {
		s.current = d
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if d != nil {
		d.Dispose()
	}
}

// Dispose 释放底层资源。并发调用者都会等到底层资源释放完成后才返回。
func (s *SingleAssignmentDisposable) Dispose() {
	s.once.Do(func() {
		s.mu.Lock()
		s.disposed = true
		d := s.current
		s.current = nil
		s.mu.Unlock()

		if d != nil {
			d.Dispose()
		}
	})
}

// IsDisposed 检查是否已释放
func (s *SingleAssignmentDisposable) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
