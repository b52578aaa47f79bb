// Package rxcore provides the core contract of push-based event sequences:
// notifications, observers, disposables and schedulers, together with the
// TakeUntil gate operators built on top of them.
// rxcore 提供推送式事件序列的核心契约：通知、观察者、可释放资源与调度器，
// 以及基于它们构建的 TakeUntil 门控操作符。
//
// Delivery to one Observer is always serialized and at most one terminal
// notification (Error or Completed) is delivered per subscription.
//
// Deterministic, time-dependent behavior is verified with the virtual-time
// scheduler; see the rxtest package for the scenario harness.
package rxcore
