// ABOUTME: Recording export of accumulated PCM fragments
// ABOUTME: Concatenates a session's audio and writes a 16-bit WAV file
package record

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/voxpipe/voxpipe-go/internal/audio"
)

// Exporter persists the audio accumulated over one session. It is invoked
// exactly once, at session finalization.
type Exporter interface {
	Export(fragments [][]byte) error
}

// WAVExporter writes the session's audio as a 16-bit linear PCM WAV file.
type WAVExporter struct {
	// Path is the destination file. When empty, a unique name is generated
	// in the working directory.
	Path string

	sampleRate int
	channels   int
	logger     *log.Logger
}

// NewWAVExporter creates an exporter for the given stream configuration.
func NewWAVExporter(path string, cfg audio.Config) *WAVExporter {
	return &WAVExporter{
		Path:       path,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		logger:     log.WithPrefix("record"),
	}
}

// Export concatenates the fragments and writes the WAV file. An empty
// session writes nothing.
func (w *WAVExporter) Export(fragments [][]byte) error {
	var total int
	for _, f := range fragments {
		total += len(f)
	}
	if total == 0 {
		w.logger.Debug("no audio received, skipping export")
		return nil
	}

	pcm := make([]byte, 0, total)
	for _, f := range fragments {
		pcm = append(pcm, f...)
	}

	samples := audio.BytesToInt16(pcm)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	path := w.Path
	if path == "" {
		path = fmt.Sprintf("speech-%s.wav", uuid.New().String())
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}

	enc := wav.NewEncoder(file, w.sampleRate, 16, w.channels, 1)
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: w.channels,
			SampleRate:  w.sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		file.Close()
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close wav encoder: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close recording file: %w", err)
	}

	w.logger.Info("recording saved", "path", path, "bytes", total)
	return nil
}
