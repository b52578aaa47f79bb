package rxcore_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/xinjiayu/rxcore"
)

// notifyWriter buffers log output and signals the first write.
type notifyWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	once    sync.Once
	written chan struct{}
}

func (w *notifyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.buf.Write(p)
	w.once.Do(func() { close(w.written) })
	return n, err
}

func (w *notifyWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestSetLogger_ReachesExistingRealTimeScheduler(t *testing.T) {
	s := rxcore.NewRealTimeScheduler()
	defer s.Close()

	w := &notifyWriter{written: make(chan struct{})}
	prev := rxcore.SetLogger(zerolog.New(w))
	t.Cleanup(func() { rxcore.SetLogger(prev) })

	s.Schedule(0, func() { panic("boom") })

	select {
	case <-w.written:
	case <-time.After(time.Second):
		t.Fatal("panic was never logged")
	}
	s.Close()

	assert.Contains(t, w.String(), "scheduled action panicked")
	assert.Contains(t, w.String(), `"scheduler":"realtime"`)
}
