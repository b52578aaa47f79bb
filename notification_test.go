package rxcore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xinjiayu/rxcore"
)

func TestNotification_Kinds(t *testing.T) {
	next := rxcore.NextNotification(7)
	assert.Equal(t, rxcore.KindNext, next.Kind())
	assert.Equal(t, 7, next.Value())
	assert.False(t, next.IsTerminal())
	assert.Equal(t, "OnNext(7)", next.String())

	failed := rxcore.ErrorNotification[int](errBoom)
	assert.Equal(t, rxcore.KindError, failed.Kind())
	assert.Equal(t, errBoom, failed.Err())
	assert.True(t, failed.IsTerminal())

	done := rxcore.CompletedNotification[int]()
	assert.Equal(t, rxcore.KindCompleted, done.Kind())
	assert.True(t, done.IsTerminal())
	assert.Equal(t, "OnCompleted()", done.String())
}

func TestNotification_Equal(t *testing.T) {
	wrapped := fmt.Errorf("wrapped: %w", errBoom)

	assert.True(t, rxcore.NextNotification([]int{1, 2}).Equal(rxcore.NextNotification([]int{1, 2})))
	assert.False(t, rxcore.NextNotification(1).Equal(rxcore.NextNotification(2)))
	assert.True(t, rxcore.ErrorNotification[int](errBoom).Equal(rxcore.ErrorNotification[int](wrapped)))
	assert.False(t, rxcore.ErrorNotification[int](errBoom).Equal(rxcore.ErrorNotification[int](errors.New("boom"))))
	assert.False(t, rxcore.CompletedNotification[int]().Equal(rxcore.NextNotification(0)))
}

func TestNotification_Accept(t *testing.T) {
	var got []string
	observer := rxcore.NewObserver(
		func(v string) { got = append(got, "next:"+v) },
		func(err error) { got = append(got, "error:"+err.Error()) },
		func() { got = append(got, "completed") },
	)

	rxcore.NextNotification("a").Accept(observer)
	rxcore.ErrorNotification[string](errBoom).Accept(observer)
	rxcore.CompletedNotification[string]().Accept(observer)

	assert.Equal(t, []string{"next:a", "error:boom", "completed"}, got)
}
