// ABOUTME: Output backend selection and device descriptions
// ABOUTME: Default backend is oto; PortAudio behind a build tag
package output

// Device describes one output device for enumeration.
type Device struct {
	Index int
	Name  string
}

// Default returns the preferred sink for this build. Device selection by
// index requires the portaudio backend; the oto backend plays on the system
// default device.
func Default(deviceIndex int) Sink {
	if deviceIndex >= 0 {
		return NewPortAudio()
	}
	return NewOto()
}
