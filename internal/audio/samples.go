// ABOUTME: PCM sample packing helpers
// ABOUTME: Converts between raw little-endian bytes and int16 samples
package audio

import "encoding/binary"

// BytesToInt16 unpacks little-endian signed 16-bit PCM bytes into samples.
// A trailing odd byte is ignored.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// Int16ToBytes packs signed 16-bit PCM samples into little-endian bytes.
func Int16ToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}
