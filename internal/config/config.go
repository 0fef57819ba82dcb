// ABOUTME: Environment-backed application configuration
// ABOUTME: Loads .env then parses env vars into a typed struct
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/voxpipe/voxpipe-go/internal/audio"
)

// Config carries everything the pipeline and CLI need. All values come from
// the environment (a .env file is honored when present); there is no shared
// global state — callers pass the derived audio.Config to both the playback
// engine and the exporter at construction.
type Config struct {
	// Synthesis service.
	SynthAPIKey string `env:"DEEPGRAM_API_KEY"`
	SynthURL    string `env:"VOXPIPE_SYNTH_URL" envDefault:"wss://api.deepgram.com/v1/speak"`
	VoiceModel  string `env:"VOXPIPE_VOICE_MODEL" envDefault:"aura-helios-en"`
	Encoding    string `env:"VOXPIPE_ENCODING" envDefault:"linear16"`

	// Audio stream.
	SampleRate  int           `env:"VOXPIPE_SAMPLE_RATE" envDefault:"48000"`
	Channels    int           `env:"VOXPIPE_CHANNELS" envDefault:"1"`
	FrameSize   int           `env:"VOXPIPE_FRAME_SIZE" envDefault:"4096"`
	IdleFlush   time.Duration `env:"VOXPIPE_IDLE_FLUSH" envDefault:"50ms"`
	DeviceIndex int           `env:"VOXPIPE_OUTPUT_DEVICE" envDefault:"-1"`

	// Recording export.
	RecordingPath string `env:"VOXPIPE_RECORDING" envDefault:"output.wav"`

	// Assistant.
	AssistantAPIKey string `env:"ANTHROPIC_API_KEY"`
	AssistantModel  string `env:"VOXPIPE_ASSISTANT_MODEL" envDefault:"claude-3-5-haiku-latest"`
	AssistantName   string `env:"VOXPIPE_ASSISTANT_NAME" envDefault:"Vox"`
}

// Load reads the environment into a Config. A missing synthesis credential
// is an error; the assistant credential is checked where the assistant is
// actually used.
func Load() (Config, error) {
	// Optional; absence of a .env file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.SynthAPIKey == "" {
		return Config{}, errors.New("DEEPGRAM_API_KEY is not set")
	}

	return cfg, nil
}

// SynthEndpoint returns the websocket URL with the negotiated model,
// encoding, and sample rate attached.
func (c Config) SynthEndpoint() string {
	q := url.Values{}
	q.Set("model", c.VoiceModel)
	q.Set("encoding", c.Encoding)
	q.Set("sample_rate", fmt.Sprintf("%d", c.SampleRate))
	return c.SynthURL + "?" + q.Encode()
}

// Audio derives the stream configuration shared by the playback engine and
// the recording exporter.
func (c Config) Audio() audio.Config {
	return audio.Config{
		SampleRate:  c.SampleRate,
		Channels:    c.Channels,
		Format:      audio.FormatS16LE,
		FrameSize:   c.FrameSize,
		DeviceIndex: c.DeviceIndex,
		IdleFlush:   c.IdleFlush,
	}
}
