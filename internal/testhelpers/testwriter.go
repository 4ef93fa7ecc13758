package testhelpers

import (
	"io"
	"strings"
	"sync"
	"testing"
)

// Writer forwards log lines to t.Log so they only show up for failing or verbose tests.
type Writer struct {
	t    *testing.T
	mu   sync.Mutex
	done bool
}

// NewWriter returns a Writer bound to t. Writes after the test has finished are dropped; a recipe fetch that outlives
// its test must not fail the run.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{t: t}
	t.Cleanup(func() {
		w.mu.Lock()
		w.done = true
		w.mu.Unlock()
	})
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return len(p), nil
	}
	for line := range strings.SplitSeq(strings.TrimSuffix(string(p), "\n"), "\n") {
		if line != "" {
			w.t.Log(line)
		}
	}
	return len(p), nil
}
