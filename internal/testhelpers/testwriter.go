package testhelpers

import (
	"io"
	"strings"
	"sync"
	"testing"
)

// Writer implements io.Writer by forwarding to t.Log so that logs are shown only for failing tests.
type Writer struct {
	t    *testing.T
	mu   sync.Mutex
	done bool
}

// NewWriter creates a Writer that writes to t.Log until the test finishes.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{t: t, mu: sync.Mutex{}, done: false}
	t.Cleanup(func() {
		w.mu.Lock()
		w.done = true
		w.mu.Unlock()
	})
	return w
}

// Write implements io.Writer. Writes after the test has completed are dropped because t.Log would panic.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return len(p), nil
	}
	// Trailing newlines would double-space the test output.
	if output := strings.TrimSuffix(string(p), "\n"); output != "" {
		w.t.Log(output)
	}
	return len(p), nil
}
