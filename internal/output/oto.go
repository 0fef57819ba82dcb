// ABOUTME: Oto-based audio output sink
// ABOUTME: Streams PCM through an io.Pipe into a persistent oto player
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"github.com/voxpipe/voxpipe-go/internal/audio"
)

// Oto plays PCM through the oto library. Writes go into a pipe feeding a
// persistent player, which gives blocking-write semantics for arbitrary
// frame sizes. Oto always plays on the system default device; a configured
// device index is ignored with a warning.
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	ready      bool
}

// NewOto creates an oto-backed sink.
func NewOto() *Oto {
	return &Oto{}
}

// Open initializes the output device.
func (o *Oto) Open(cfg audio.Config) error {
	if o.otoCtx != nil {
		return fmt.Errorf("oto context already open")
	}
	if cfg.DeviceIndex != audio.DefaultDevice {
		log.Warn("oto backend cannot select an output device, using default",
			"requested", cfg.DeviceIndex)
	}

	format, err := otoFormat(cfg.Format)
	if err != nil {
		return err
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true

	log.Debug("audio output initialized",
		"rate", cfg.SampleRate, "channels", cfg.Channels, "format", cfg.Format)

	return nil
}

// Write delivers one frame to the player, blocking until the pipe accepts it.
func (o *Oto) Write(frame []byte) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}
	if _, err := o.pipeWriter.Write(frame); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}
	return nil
}

// Close releases the player and suspends the oto context. Oto allows only
// one context per process, so the context is suspended rather than destroyed.
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.otoCtx = nil
	}
	o.ready = false
	return nil
}

func otoFormat(f audio.Format) (oto.Format, error) {
	switch f {
	case audio.FormatU8:
		return oto.FormatUnsignedInt8, nil
	case audio.FormatS16LE:
		return oto.FormatSignedInt16LE, nil
	case audio.FormatF32LE:
		return oto.FormatFloat32LE, nil
	default:
		return 0, fmt.Errorf("unsupported sample format %v", f)
	}
}
