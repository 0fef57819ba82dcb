// ABOUTME: Tests for wire message encoding and status parsing
// ABOUTME: Asserts exact JSON shapes the service expects
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlFrameEncoding(t *testing.T) {
	tests := []struct {
		name string
		msg  Control
		want string
	}{
		{"speak", Speak("Hello"), `{"type":"Speak","text":"Hello"}`},
		{"flush omits text", Flush(), `{"type":"Flush"}`},
		{"close omits text", Close(), `{"type":"Close"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestParseStatus(t *testing.T) {
	s := ParseStatus([]byte(`{"type":"Flushed","sequence_id":3}`))
	assert.Equal(t, "Flushed", s.Type)
	assert.JSONEq(t, `{"type":"Flushed","sequence_id":3}`, string(s.Raw))
}

func TestParseStatusMalformed(t *testing.T) {
	s := ParseStatus([]byte("not json"))
	assert.Empty(t, s.Type, "malformed status frames are informational, not errors")
	assert.Equal(t, "not json", string(s.Raw))
}
