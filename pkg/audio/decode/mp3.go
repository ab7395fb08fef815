// ABOUTME: MP3 file reader
// ABOUTME: Decodes MP3 to float32 and loops at end of file
package decode

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Reader reads an MP3 file as interleaved stereo float32
type MP3Reader struct {
	file    *os.File
	decoder *mp3.Decoder
	buf     []byte
}

// NewMP3 opens an MP3 file
func NewMP3(path string) (*MP3Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	log.Printf("Loaded MP3: %s (sample rate: %d Hz)", title(path), decoder.SampleRate())

	return &MP3Reader{
		file:    f,
		decoder: decoder,
	}, nil
}

func (r *MP3Reader) Read(samples []float32) (int, error) {
	// go-mp3 always produces 16-bit little-endian stereo
	need := len(samples) * 2
	if cap(r.buf) < need {
		r.buf = make([]byte, need)
	}
	buf := r.buf[:need]

	n, err := io.ReadFull(r.decoder, buf)
	eof := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
	if err != nil && !eof {
		return 0, fmt.Errorf("mp3 decode error: %w", err)
	}

	count := decodeInt16LE(samples, buf[:n])

	if eof {
		if _, seekErr := r.file.Seek(0, io.SeekStart); seekErr != nil {
			return count, fmt.Errorf("failed to seek to start: %w", seekErr)
		}
		decoder, decErr := mp3.NewDecoder(r.file)
		if decErr != nil {
			return count, fmt.Errorf("failed to restart decoder: %w", decErr)
		}
		r.decoder = decoder
	}

	return count, nil
}

func (r *MP3Reader) SampleRate() int { return r.decoder.SampleRate() }
func (r *MP3Reader) Channels() int   { return 2 }
func (r *MP3Reader) Close() error {
	return r.file.Close()
}

// decodeInt16LE converts 16-bit little-endian PCM bytes to float32
func decodeInt16LE(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/2)
	for i := 0; i < n; i++ {
		v := int16(uint16(src[2*i]) | uint16(src[2*i+1])<<8)
		dst[i] = audio.SampleFromInt16(v)
	}
	return n
}
