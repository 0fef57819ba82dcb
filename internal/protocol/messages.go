// ABOUTME: Wire message definitions for the synthesis service
// ABOUTME: Outbound JSON control frames and inbound status frames
package protocol

import "encoding/json"

// Control frame types sent to the synthesis service.
const (
	TypeSpeak = "Speak"
	TypeFlush = "Flush"
	TypeClose = "Close"
)

// Control is an outbound control frame. The service receives control frames
// as JSON text messages; audio comes back as raw binary frames with no
// envelope.
type Control struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Speak requests synthesis of text.
func Speak(text string) Control {
	return Control{Type: TypeSpeak, Text: text}
}

// Flush requests immediate emission of any buffered audio for prior Speak
// commands instead of waiting to batch further text.
func Flush() Control {
	return Control{Type: TypeFlush}
}

// Close requests a graceful session end.
func Close() Control {
	return Control{Type: TypeClose}
}

// Status is an inbound informational frame. The service defines its own
// status vocabulary, so only the type is modeled; the raw payload is kept
// for logging.
type Status struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// ParseStatus decodes an inbound text frame best-effort. Malformed frames
// yield a Status with an empty type rather than an error; status frames are
// informational only and never affect buffering state.
func ParseStatus(data []byte) Status {
	var s Status
	_ = json.Unmarshal(data, &s)
	s.Raw = append(json.RawMessage(nil), data...)
	return s
}
