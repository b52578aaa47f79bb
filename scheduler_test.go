package rxcore_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xinjiayu/rxcore"
)

func TestRealTimeScheduler_RunsAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := rxcore.NewRealTimeScheduler()
	defer s.Close()

	start := time.Now()
	done := make(chan time.Time, 1)
	s.Schedule(20*time.Millisecond, func() { done <- time.Now() })

	select {
	case at := <-done:
		assert.GreaterOrEqual(t, at.Sub(start), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("action never ran")
	}
}

func TestRealTimeScheduler_PastDueRunsImmediately(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := rxcore.NewRealTimeScheduler()
	defer s.Close()

	done := make(chan struct{})
	rxcore.ScheduleNow(s, func() {})
	s.ScheduleAt(time.Now().Add(-time.Hour), func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("past-due action never ran")
	}
}

func TestRealTimeScheduler_CancelBeforeFire(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := rxcore.NewRealTimeScheduler()
	defer s.Close()

	var fired atomic.Bool
	d := s.Schedule(30*time.Millisecond, func() { fired.Store(true) })
	d.Dispose()

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestRealTimeScheduler_CloseCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := rxcore.NewRealTimeScheduler()

	var fired atomic.Int32
	for i := 0; i < 10; i++ {
		s.Schedule(time.Hour, func() { fired.Add(1) })
	}
	s.Close()
	s.Close()

	d := s.Schedule(0, func() { fired.Add(1) })
	require.NotNil(t, d)
	assert.Zero(t, fired.Load())
}

func TestRealTimeScheduler_RecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := rxcore.NewRealTimeScheduler()
	defer s.Close()

	done := make(chan struct{})
	s.Schedule(0, func() { panic("boom") })
	s.Schedule(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler stopped after a panicking action")
	}
}
