// ABOUTME: PCM stream configuration shared across the pipeline
// ABOUTME: Defines sample formats, defaults, and validation
package audio

import (
	"fmt"
	"time"
)

// Format identifies the PCM sample encoding of the stream.
type Format int

const (
	// FormatU8 is unsigned 8-bit PCM.
	FormatU8 Format = iota
	// FormatS16LE is signed 16-bit little-endian PCM.
	FormatS16LE
	// FormatF32LE is 32-bit little-endian float PCM.
	FormatF32LE
)

// BytesPerSample returns the byte width of one sample in this format.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatU8:
		return 1
	case FormatF32LE:
		return 4
	default:
		return 2
	}
}

func (f Format) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16LE:
		return "s16le"
	case FormatF32LE:
		return "f32le"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// DefaultDevice selects the system default output device.
const DefaultDevice = -1

// Config describes the PCM stream and how it is delivered to the output
// device. One Config is fixed per session; the format is negotiated with the
// synthesis service at connect time and is not renegotiable mid-stream.
type Config struct {
	// SampleRate in Hz.
	SampleRate int

	// Channels is the channel count (1 = mono).
	Channels int

	// Format is the sample encoding.
	Format Format

	// FrameSize is the number of bytes per device write.
	FrameSize int

	// DeviceIndex selects the output device, or DefaultDevice.
	DeviceIndex int

	// IdleFlush is how long the playback loop waits for new audio before
	// flushing a leftover partial frame to the device.
	IdleFlush time.Duration
}

// DefaultConfig returns the stream settings negotiated with the synthesis
// service by default: 48kHz mono signed 16-bit, 4096-byte frames, 50ms idle
// flush on the system default device.
func DefaultConfig() Config {
	return Config{
		SampleRate:  48000,
		Channels:    1,
		Format:      FormatS16LE,
		FrameSize:   4096,
		DeviceIndex: DefaultDevice,
		IdleFlush:   50 * time.Millisecond,
	}
}

// SampleStride returns the byte width of one multi-channel sample.
func (c Config) SampleStride() int {
	return c.Format.BytesPerSample() * c.Channels
}

// Validate checks that the configuration is playable.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("invalid channel count %d", c.Channels)
	}
	if c.FrameSize <= 0 {
		return fmt.Errorf("invalid frame size %d", c.FrameSize)
	}
	if c.FrameSize%c.SampleStride() != 0 {
		return fmt.Errorf("frame size %d is not a multiple of the sample stride %d",
			c.FrameSize, c.SampleStride())
	}
	if c.IdleFlush <= 0 {
		return fmt.Errorf("invalid idle flush timeout %v", c.IdleFlush)
	}
	return nil
}
