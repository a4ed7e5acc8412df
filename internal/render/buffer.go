package render

import (
	"strings"
	"sync"

	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

// Buffer is an append-only list of output lines, safe for concurrent use.
type Buffer struct {
	mu    sync.RWMutex
	lines []string
}

// Append adds lines to the end of the buffer.
func (b *Buffer) Append(lines ...string) {
	b.mu.Lock()
	b.lines = append(b.lines, lines...)
	b.mu.Unlock()
}

// Len returns the number of lines written.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Lines returns a copy of every line.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.lines...)
}

// String joins the lines with newlines.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Observer returns a replay observer that appends the newest revealed event
// of each frame. A wrapped loop writes the first event again, as a live
// terminal would.
func (t *Text) Observer(buf *Buffer) replay.Observer {
	return func(f replay.Frame) {
		if len(f.Events) == 0 {
			return
		}
		buf.Append(t.Line(f.Events[len(f.Events)-1]))
	}
}
