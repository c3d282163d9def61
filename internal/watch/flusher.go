package watch

import (
	"fmt"
	"io"
	"strings"
)

// Flusher buffers collected direct-download links and appends them to the
// output sink, one per line, in insertion order.
type Flusher struct {
	sink  io.Writer
	links []string
}

func NewFlusher(sink io.Writer) *Flusher {
	return &Flusher{sink: sink}
}

// Append adds one link to the buffer.
func (f *Flusher) Append(link string) {
	f.links = append(f.links, link)
}

// Pending returns the number of buffered links.
func (f *Flusher) Pending() int {
	return len(f.links)
}

// Flush writes all buffered links as newline-terminated lines and clears the
// buffer. An empty buffer writes nothing. On a write error the buffer is
// kept so the links are not lost before the next flush.
func (f *Flusher) Flush() error {
	if len(f.links) == 0 {
		return nil
	}

	if _, err := io.WriteString(f.sink, strings.Join(f.links, "\n")+"\n"); err != nil {
		return fmt.Errorf("writing collected links: %w", err)
	}

	f.links = nil

	return nil
}
