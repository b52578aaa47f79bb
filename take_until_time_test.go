package rxcore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xinjiayu/rxcore"
	"github.com/xinjiayu/rxcore/rxtest"
)

func mustTakeUntilTime[T any](t *testing.T, source rxcore.Observable[T], due int64, s rxcore.Scheduler) rxcore.Observable[T] {
	t.Helper()
	o, err := rxcore.TakeUntilTime(source, rxcore.TickTime(due), rxcore.WithScheduler(s))
	require.NoError(t, err)
	return o
}

func TestTakeUntilTime_ArgumentChecking(t *testing.T) {
	_, err := rxcore.TakeUntilTime[int](nil, time.Now())
	assert.ErrorIs(t, err, rxcore.ErrInvalidArgument)

	_, err = rxcore.TakeUntilTime[int](nil, time.Now(), rxcore.WithScheduler(rxcore.DefaultScheduler))
	assert.ErrorIs(t, err, rxcore.ErrInvalidArgument)

	_, err = rxcore.TakeUntilTime(rxcore.Return(42), time.Now(), rxcore.WithScheduler(nil))
	assert.ErrorIs(t, err, rxcore.ErrInvalidArgument)

	_, err = rxcore.TakeUntilTime(rxcore.Return(42), time.Now(), rxcore.WithScheduler((*rxcore.VirtualTimeScheduler)(nil)))
	assert.ErrorIs(t, err, rxcore.ErrInvalidArgument)

	_, err = rxcore.TakeUntilTime(rxcore.Return(42), time.Now(), rxcore.WithScheduler((*rxcore.RealTimeScheduler)(nil)))
	assert.ErrorIs(t, err, rxcore.ErrInvalidArgument)

	_, err = rxcore.TakeUntilTime(rxcore.Return(42), time.Now())
	assert.NoError(t, err)
}

func TestTakeUntilTime_Zero(t *testing.T) {
	s := rxtest.NewTestScheduler()

	xs := rxtest.CreateHotObservable(s,
		rxtest.OnNext(210, 1),
		rxtest.OnNext(220, 2),
		rxtest.OnCompleted[int](230),
	)

	res := rxtest.Start(s, func() rxcore.Observable[int] {
		o, err := rxcore.TakeUntilTime[int](xs, time.Time{}, rxcore.WithScheduler(s))
		require.NoError(t, err)
		return o
	})

	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnCompleted[int](201),
	)
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 201))
}

func TestTakeUntilTime_Some(t *testing.T) {
	s := rxtest.NewTestScheduler()

	xs := rxtest.CreateHotObservable(s,
		rxtest.OnNext(210, 1),
		rxtest.OnNext(220, 2),
		rxtest.OnNext(230, 3),
		rxtest.OnCompleted[int](240),
	)

	res := rxtest.Start(s, func() rxcore.Observable[int] { return mustTakeUntilTime[int](t, xs, 225, s) })

	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnNext(210, 1),
		rxtest.OnNext(220, 2),
		rxtest.OnCompleted[int](225),
	)
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 225))
}

func TestTakeUntilTime_Late(t *testing.T) {
	s := rxtest.NewTestScheduler()

	xs := rxtest.CreateHotObservable(s,
		rxtest.OnNext(210, 1),
		rxtest.OnNext(220, 2),
		rxtest.OnCompleted[int](230),
	)

	res := rxtest.Start(s, func() rxcore.Observable[int] { return mustTakeUntilTime[int](t, xs, 250, s) })

	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnNext(210, 1),
		rxtest.OnNext(220, 2),
		rxtest.OnCompleted[int](230),
	)
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 230))
}

func TestTakeUntilTime_Error(t *testing.T) {
	s := rxtest.NewTestScheduler()

	xs := rxtest.CreateHotObservable(s,
		rxtest.OnError[int](210, errBoom),
	)

	res := rxtest.Start(s, func() rxcore.Observable[int] { return mustTakeUntilTime[int](t, xs, 250, s) })

	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnError[int](210, errBoom),
	)
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 210))
}

func TestTakeUntilTime_SourceErrorCancelsCutoff(t *testing.T) {
	s := rxtest.NewTestScheduler()

	xs := rxtest.CreateHotObservable(s,
		rxtest.OnError[int](210, errBoom),
	)
	gate := mustTakeUntilTime[int](t, xs, 250, s)
	res := rxtest.CreateObserver[int](s)

	s.ScheduleAtTick(200, func() { gate.Subscribe(res) })
	require.NoError(t, s.AdvanceTo(215))

	assert.Zero(t, s.Pending())

	require.NoError(t, s.AdvanceTo(1000))
	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnError[int](210, errBoom),
	)
}

func TestTakeUntilTime_Never(t *testing.T) {
	s := rxtest.NewTestScheduler()

	xs := rxtest.CreateHotObservable[int](s)

	res := rxtest.Start(s, func() rxcore.Observable[int] { return mustTakeUntilTime[int](t, xs, 250, s) })

	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnCompleted[int](250),
	)
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 250))
}

func TestTakeUntilTime_Twice(t *testing.T) {
	tests := []struct {
		name         string
		inner, outer int64
	}{
		{name: "later deadline inside", inner: 255, outer: 235},
		{name: "earlier deadline inside", inner: 235, outer: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rxtest.NewTestScheduler()

			xs := rxtest.CreateHotObservable(s,
				rxtest.OnNext(210, 1),
				rxtest.OnNext(220, 2),
				rxtest.OnNext(230, 3),
				rxtest.OnNext(240, 4),
				rxtest.OnNext(250, 5),
				rxtest.OnNext(260, 6),
				rxtest.OnCompleted[int](270),
			)

			res := rxtest.Start(s, func() rxcore.Observable[int] {
				inner := mustTakeUntilTime[int](t, xs, tt.inner, s)
				return mustTakeUntilTime(t, inner, tt.outer, s)
			})

			rxtest.AssertMessages(t, res.Messages(),
				rxtest.OnNext(210, 1),
				rxtest.OnNext(220, 2),
				rxtest.OnNext(230, 3),
				rxtest.OnCompleted[int](235),
			)
			rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 235))
			assert.Zero(t, s.Pending())
		})
	}
}

func TestTakeUntilTime_ColdSourceRebased(t *testing.T) {
	s := rxtest.NewTestScheduler()

	xs := rxtest.CreateColdObservable(s,
		rxtest.OnNext(10, 1),
		rxtest.OnNext(20, 2),
		rxtest.OnNext(30, 3),
	)

	res := rxtest.Start(s, func() rxcore.Observable[int] { return mustTakeUntilTime[int](t, xs, 225, s) })

	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnNext(210, 1),
		rxtest.OnNext(220, 2),
		rxtest.OnCompleted[int](225),
	)
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 225))
}

func TestTakeUntilTime_Default(t *testing.T) {
	o, err := rxcore.TakeUntilTime(rxcore.Just(0, 1, 2, 3, 4, 5, 6, 7, 8, 9), time.Now().Add(time.Minute))
	require.NoError(t, err)

	var got []int
	done := make(chan struct{})
	o.Subscribe(rxcore.NewObserver(
		func(v int) { got = append(got, v) },
		func(err error) { t.Errorf("unexpected error: %v", err) },
		func() { close(done) },
	))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestTakeUntilTime_RealTimeDeadline(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sched := rxcore.NewRealTimeScheduler()
	defer sched.Close()

	o, err := rxcore.TakeUntilTime(rxcore.Never[int](), sched.Now().Add(20*time.Millisecond), rxcore.WithScheduler(sched))
	require.NoError(t, err)

	done := make(chan struct{})
	sub := o.Subscribe(rxcore.NewObserver[int](nil, nil, func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("deadline never fired")
	}
	assert.True(t, sub.IsDisposed())
}
