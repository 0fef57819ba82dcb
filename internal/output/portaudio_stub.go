//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"

	"github.com/voxpipe/voxpipe-go/internal/audio"
)

// PortAudio output sink (stub).
type PortAudio struct{}

// NewPortAudio creates a PortAudio-backed sink (stub).
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open initializes PortAudio.
func (p *PortAudio) Open(cfg audio.Config) error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Write delivers one frame.
func (p *PortAudio) Write(frame []byte) error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Close releases resources.
func (p *PortAudio) Close() error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Devices lists the available output devices.
func Devices() ([]Device, error) {
	return nil, fmt.Errorf("device enumeration requires PortAudio (build with -tags portaudio)")
}
