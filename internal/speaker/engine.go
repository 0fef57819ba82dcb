// ABOUTME: Playback engine buffering audio fragments into device frames
// ABOUTME: Owns the pending queue, the playback loop, and the output sink
package speaker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/voxpipe/voxpipe-go/internal/audio"
	"github.com/voxpipe/voxpipe-go/internal/output"
)

// ErrAlreadyStarted is returned by Start when the engine is already running.
// An engine supports a single start/stop cycle.
var ErrAlreadyStarted = errors.New("speaker: engine already started")

// Engine buffers arbitrarily-sized audio fragments into fixed-size frames
// and writes them to an output sink from a dedicated playback goroutine.
//
// Fragments are played in the exact order enqueued. When no fragment arrives
// within the idle-flush timeout, any leftover partial frame is written
// immediately, bounding the latency of trailing audio shorter than one frame.
type Engine struct {
	cfg   audio.Config
	sink  output.Sink
	queue *fragmentQueue

	onWriteError func(error)
	logger       *log.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	quit    chan struct{}
	done    chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithWriteErrorHandler replaces the default log-and-continue policy for
// sink write failures. The handler runs on the playback goroutine; the loop
// keeps processing subsequent fragments regardless.
func WithWriteErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onWriteError = fn }
}

// New creates an engine writing to sink with the given stream configuration.
func New(cfg audio.Config, sink output.Sink, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		sink:   sink,
		queue:  newFragmentQueue(),
		logger: log.WithPrefix("speaker"),
	}
	e.onWriteError = func(err error) {
		e.logger.Error("sink write failed", "err", err)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start opens the sink and begins the playback loop.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("speaker: %w", err)
	}
	if err := e.sink.Open(e.cfg); err != nil {
		return fmt.Errorf("speaker: open sink: %w", err)
	}

	e.quit = make(chan struct{})
	e.done = make(chan struct{})
	e.started = true

	go e.run()

	e.logger.Debug("playback started",
		"rate", e.cfg.SampleRate, "channels", e.cfg.Channels, "frame", e.cfg.FrameSize)

	return nil
}

// Enqueue appends a fragment to the pending queue. It never blocks and is
// safe to call concurrently with the playback loop. Sink errors are never
// surfaced here; they go to the write-error handler.
func (e *Engine) Enqueue(fragment []byte) {
	e.queue.enqueue(fragment)
}

// Stop signals the playback loop to exit, waits for it to finish, closes the
// sink, and discards any unplayed fragments. Safe to call if Start never
// succeeded, and safe to call more than once.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.stopped {
		e.stopped = true
		return nil
	}
	e.stopped = true

	close(e.quit)
	<-e.done

	e.queue.reset()

	if err := e.sink.Close(); err != nil {
		return fmt.Errorf("speaker: close sink: %w", err)
	}

	e.logger.Debug("playback stopped")
	return nil
}

// run is the playback loop. It alone touches the accumulation buffer, whose
// length stays below one frame between iterations.
func (e *Engine) run() {
	defer close(e.done)

	buf := make([]byte, 0, e.cfg.FrameSize*2)

	for {
		select {
		case <-e.quit:
			return
		default:
		}

		fragment, ok := e.queue.dequeue(e.cfg.IdleFlush)
		if !ok {
			// Idle: flush a leftover partial frame so trailing audio is
			// never held longer than one timeout period.
			if len(buf) > 0 {
				e.write(buf)
				buf = buf[:0]
			}
			continue
		}

		buf = append(buf, fragment...)
		off := 0
		for len(buf)-off >= e.cfg.FrameSize {
			e.write(buf[off : off+e.cfg.FrameSize])
			off += e.cfg.FrameSize
		}
		buf = append(buf[:0], buf[off:]...)
	}
}

func (e *Engine) write(frame []byte) {
	if err := e.sink.Write(frame); err != nil {
		e.onWriteError(err)
	}
}
