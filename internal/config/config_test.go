// ABOUTME: Tests for environment configuration loading
// ABOUTME: Defaults, overrides, endpoint construction, missing credentials
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxpipe/voxpipe-go/internal/audio"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dg-test", cfg.SynthAPIKey)
	assert.Equal(t, "aura-helios-en", cfg.VoiceModel)
	assert.Equal(t, "linear16", cfg.Encoding)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, 1, cfg.Channels)
	assert.Equal(t, 4096, cfg.FrameSize)
	assert.Equal(t, 50*time.Millisecond, cfg.IdleFlush)
	assert.Equal(t, audio.DefaultDevice, cfg.DeviceIndex)
	assert.Equal(t, "output.wav", cfg.RecordingPath)
}

func TestLoadMissingSynthKey(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPGRAM_API_KEY")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg-test")
	t.Setenv("VOXPIPE_SAMPLE_RATE", "24000")
	t.Setenv("VOXPIPE_FRAME_SIZE", "2048")
	t.Setenv("VOXPIPE_IDLE_FLUSH", "80ms")
	t.Setenv("VOXPIPE_OUTPUT_DEVICE", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24000, cfg.SampleRate)
	assert.Equal(t, 2048, cfg.FrameSize)
	assert.Equal(t, 80*time.Millisecond, cfg.IdleFlush)
	assert.Equal(t, 3, cfg.DeviceIndex)
}

func TestSynthEndpoint(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg-test")

	cfg, err := Load()
	require.NoError(t, err)

	endpoint := cfg.SynthEndpoint()
	assert.Contains(t, endpoint, "wss://api.deepgram.com/v1/speak?")
	assert.Contains(t, endpoint, "model=aura-helios-en")
	assert.Contains(t, endpoint, "encoding=linear16")
	assert.Contains(t, endpoint, "sample_rate=48000")
}

func TestAudioDerivation(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg-test")

	cfg, err := Load()
	require.NoError(t, err)

	audioCfg := cfg.Audio()
	require.NoError(t, audioCfg.Validate())
	assert.Equal(t, audio.FormatS16LE, audioCfg.Format)
	assert.Equal(t, cfg.SampleRate, audioCfg.SampleRate)
	assert.Equal(t, cfg.FrameSize, audioCfg.FrameSize)
	assert.Equal(t, cfg.IdleFlush, audioCfg.IdleFlush)
}
