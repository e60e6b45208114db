// Package audio inspects uploaded audio before it is sent to the speech
// recognition service.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotWAV        = errors.New("not a RIFF/WAVE file")
	ErrNotPCM        = errors.New("audio is not PCM encoded")
	ErrMissingChunks = errors.New("wav header is missing fmt or data chunk")
)

// Info describes a parsed WAV header.
type Info struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataBytes     int
}

// Duration estimates the audio length from the header fields.
func (i Info) Duration() time.Duration {
	bytesPerSecond := i.SampleRate * i.Channels * i.BitsPerSample / 8
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(i.DataBytes) / float64(bytesPerSecond) * float64(time.Second))
}

// Inspect parses a RIFF/WAVE header and validates that the payload is PCM.
// It reads only the header chunks, never the audio samples.
func Inspect(data []byte) (Info, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Info{}, ErrNotWAV
	}

	var info Info
	haveFmt := false
	haveData := false

	// Walk the chunk list: each chunk is a 4-byte id, a little-endian
	// 4-byte size, then the payload (padded to an even length).
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 || body+16 > len(data) {
				return Info{}, fmt.Errorf("fmt chunk truncated at %d bytes", chunkSize)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return Info{}, fmt.Errorf("%w: format tag %d", ErrNotPCM, audioFormat)
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			info.DataBytes = chunkSize
			haveData = true
		}

		if haveFmt && haveData {
			return info, nil
		}
		if chunkSize%2 != 0 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	return Info{}, ErrMissingChunks
}
