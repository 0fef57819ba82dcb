// ABOUTME: Audio output sink interface definition
// ABOUTME: Common contract for playback device backends
package output

import "github.com/voxpipe/voxpipe-go/internal/audio"

// Sink represents an audio output device. It accepts PCM frames and blocks
// until each one has been handed to the device for playback. Exactly one
// goroutine writes to a Sink; Open and Close are called by the owning
// engine's lifecycle methods only.
type Sink interface {
	// Open initializes the device for the given stream configuration.
	Open(cfg audio.Config) error

	// Write delivers one frame of PCM bytes, blocking until accepted.
	// Frames are normally cfg.FrameSize bytes; the final write of an
	// utterance may be shorter.
	Write(frame []byte) error

	// Close stops playback and releases the device.
	Close() error
}
