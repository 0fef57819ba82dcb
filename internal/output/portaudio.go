//go:build portaudio

// ABOUTME: PortAudio output sink with device selection
// ABOUTME: Blocking fixed-frame writes, short frames padded with silence
package output

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/voxpipe/voxpipe-go/internal/audio"
)

// PortAudio plays PCM through PortAudio's blocking stream API. Unlike the
// oto backend it honors the configured output device index. The stream is
// opened with a fixed frames-per-buffer, so a short final frame is padded
// with silence up to one device write.
type PortAudio struct {
	stream *portaudio.Stream
	buffer []int16
}

// NewPortAudio creates a PortAudio-backed sink.
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open initializes PortAudio and opens the output stream.
func (p *PortAudio) Open(cfg audio.Config) error {
	if cfg.Format != audio.FormatS16LE {
		return fmt.Errorf("portaudio backend supports s16le only, got %v", cfg.Format)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	framesPerBuffer := cfg.FrameSize / cfg.SampleStride()
	p.buffer = make([]int16, framesPerBuffer*cfg.Channels)

	var stream *portaudio.Stream
	var err error
	if cfg.DeviceIndex == audio.DefaultDevice {
		stream, err = portaudio.OpenDefaultStream(
			0, cfg.Channels, float64(cfg.SampleRate), framesPerBuffer, p.buffer)
	} else {
		var dev *portaudio.DeviceInfo
		dev, err = deviceByIndex(cfg.DeviceIndex)
		if err == nil {
			params := portaudio.LowLatencyParameters(nil, dev)
			params.Output.Channels = cfg.Channels
			params.SampleRate = float64(cfg.SampleRate)
			params.FramesPerBuffer = framesPerBuffer
			stream, err = portaudio.OpenStream(params, p.buffer)
		}
	}
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	return stream.Start()
}

// Write delivers one frame, zero-filling the device buffer when the frame is
// shorter than one full device write.
func (p *PortAudio) Write(frame []byte) error {
	if p.stream == nil {
		return fmt.Errorf("output not opened")
	}

	samples := audio.BytesToInt16(frame)
	n := copy(p.buffer, samples)
	for i := n; i < len(p.buffer); i++ {
		p.buffer[i] = 0
	}

	if err := p.stream.Write(); err != nil {
		return fmt.Errorf("stream write failed: %w", err)
	}
	return nil
}

// Close stops the stream and terminates PortAudio.
func (p *PortAudio) Close() error {
	if p.stream != nil {
		if err := p.stream.Stop(); err != nil {
			return err
		}
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}
	return portaudio.Terminate()
}

func deviceByIndex(index int) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	if index < 0 || index >= len(devices) {
		return nil, fmt.Errorf("output device index %d out of range (%d devices)", index, len(devices))
	}
	if devices[index].MaxOutputChannels == 0 {
		return nil, fmt.Errorf("device %d (%s) has no output channels", index, devices[index].Name)
	}
	return devices[index], nil
}

// Devices lists the available output devices as index/name pairs.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	var devices []Device
	for i, info := range infos {
		if info.MaxOutputChannels > 0 {
			devices = append(devices, Device{Index: i, Name: info.Name})
		}
	}
	return devices, nil
}
