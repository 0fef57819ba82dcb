// ABOUTME: In-memory capture sink for tests
// ABOUTME: Records every write and can inject per-write errors
package output

import (
	"fmt"
	"sync"

	"github.com/voxpipe/voxpipe-go/internal/audio"
)

// Capture is a Sink that records every frame written to it. Tests use it to
// assert frame boundaries and byte ordering without a real device. An
// optional WriteErr function can fail individual writes.
type Capture struct {
	mu       sync.Mutex
	frames   [][]byte
	attempts int
	opened   bool
	closed   bool

	// WriteErr, if set, is consulted before each write with the zero-based
	// attempt index; a non-nil return fails that write.
	WriteErr func(n int) error
}

// NewCapture creates an empty capture sink.
func NewCapture() *Capture {
	return &Capture{}
}

// Open marks the sink opened.
func (c *Capture) Open(cfg audio.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opened && !c.closed {
		return fmt.Errorf("capture sink already open")
	}
	c.opened = true
	c.closed = false
	return nil
}

// Write records one frame.
func (c *Capture) Write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened || c.closed {
		return fmt.Errorf("capture sink not open")
	}
	attempt := c.attempts
	c.attempts++
	if c.WriteErr != nil {
		if err := c.WriteErr(attempt); err != nil {
			return err
		}
	}
	copied := make([]byte, len(frame))
	copy(copied, frame)
	c.frames = append(c.frames, copied)
	return nil
}

// Close marks the sink closed.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Frames returns a copy of all frames written so far.
func (c *Capture) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames := make([][]byte, len(c.frames))
	copy(frames, c.frames)
	return frames
}

// Bytes returns all written bytes concatenated in write order.
func (c *Capture) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []byte
	for _, f := range c.frames {
		out = append(out, f...)
	}
	return out
}

// Closed reports whether Close has been called.
func (c *Capture) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
