// Sequence assertions for rxtest
// 序列断言：基于 go-cmp 的差异报告
package rxtest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// DiffMessages 返回两个记录序列的可读差异，相等时返回 ""。
// 错误按同一性或 errors.Is 比较。
func DiffMessages[T any](want, got []Recorded[T]) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// DiffSubscriptions 返回两个订阅区间列表的差异，相等时返回 ""
func DiffSubscriptions(want, got []Subscription) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// AssertMessages got 与 want 不一致时报告测试错误
func AssertMessages[T any](t testing.TB, got []Recorded[T], want ...Recorded[T]) bool {
	t.Helper()
	if diff := DiffMessages(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
		return false
	}
	return true
}

// AssertSubscriptions got 与 want 不一致时报告测试错误
func AssertSubscriptions(t testing.TB, got []Subscription, want ...Subscription) bool {
	t.Helper()
	if diff := DiffSubscriptions(want, got); diff != "" {
		t.Errorf("subscriptions mismatch (-want +got):\n%s", diff)
		return false
	}
	return true
}
