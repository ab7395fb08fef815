// ABOUTME: FLAC file reader
// ABOUTME: Decodes FLAC frames to float32 and loops at end of file
package decode

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACReader reads a FLAC file as interleaved float32
type FLACReader struct {
	file       *os.File
	stream     *flac.Stream
	sampleRate int
	channels   int
	bitDepth   int

	// decoded samples of the current frame not yet returned
	pending []float32
	cursor  int
}

// NewFLAC opens a FLAC file
func NewFLAC(path string) (*FLACReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	r := &FLACReader{
		file:       f,
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}

	log.Printf("Loaded FLAC: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		title(path), r.sampleRate, r.channels, r.bitDepth)

	return r, nil
}

func (r *FLACReader) Read(samples []float32) (int, error) {
	read := 0
	restarted := false

	for read < len(samples) {
		if r.cursor < len(r.pending) {
			n := copy(samples[read:], r.pending[r.cursor:])
			r.cursor += n
			read += n
			continue
		}

		frame, err := r.stream.ParseNext()
		if errors.Is(err, io.EOF) {
			// an empty file would otherwise loop forever
			if restarted {
				return read, fmt.Errorf("FLAC stream has no audio frames")
			}
			if err := r.restart(); err != nil {
				return read, err
			}
			restarted = true
			continue
		}
		if err != nil {
			return read, fmt.Errorf("flac decode error: %w", err)
		}

		channels := make([][]int32, len(frame.Subframes))
		for ch, sub := range frame.Subframes {
			channels[ch] = sub.Samples
		}
		r.pending = interleave(r.pending[:0], channels, int(frame.BlockSize), r.bitDepth)
		r.cursor = 0
		restarted = false
	}

	return read, nil
}

func (r *FLACReader) restart() error {
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to start: %w", err)
	}
	stream, err := flac.New(r.file)
	if err != nil {
		return fmt.Errorf("failed to restart stream: %w", err)
	}
	r.stream = stream
	return nil
}

func (r *FLACReader) SampleRate() int { return r.sampleRate }
func (r *FLACReader) Channels() int   { return r.channels }
func (r *FLACReader) Close() error {
	return r.file.Close()
}

// interleave appends blockSize frames of per-channel integer samples to dst as float32
func interleave(dst []float32, channels [][]int32, blockSize, bitDepth int) []float32 {
	for i := 0; i < blockSize; i++ {
		for ch := range channels {
			var v int32
			if i < len(channels[ch]) {
				v = channels[ch][i]
			}
			dst = append(dst, audio.SampleFromInt(v, bitDepth))
		}
	}
	return dst
}
