// ABOUTME: Audio file capture source
// ABOUTME: Loops an MP3 or FLAC file, resampled and channel-mapped to the stream format
package input

import (
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/resample"
)

// readFrames is how many source frames are decoded per refill
const readFrames = 1024

// File plays a decoded audio file as if it were a microphone
type File struct {
	mu    sync.Mutex
	path  string
	open  func(string) (decode.Reader, error)
	pacer *pacer

	reader    decode.Reader
	resampler *resample.Resampler
	srcCh     int
	dstCh     int

	readBuf   []float32
	resampled []float32
	pending   []float32 // resampled source-channel frames not yet delivered
}

// NewFile creates a file source for path
func NewFile(path string) *File {
	return &File{path: path, open: decode.Open}
}

// Open decodes the file and starts delivering periods
func (f *File) Open(format audio.Format, onData audio.CaptureFunc, onError audio.ErrorFunc) error {
	if err := checkOpen(format, onData); err != nil {
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "configure", Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pacer != nil {
		return fmt.Errorf("file source already open")
	}

	reader, err := f.open(f.path)
	if err != nil {
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "open file", Err: err}
	}

	if err := f.prepare(reader, format); err != nil {
		reader.Close()
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "configure", Err: err}
	}

	f.pacer = startPacer(format, f.fill, onData, onError)

	log.Printf("Audio input initialized: %s (file %s, %dHz/%dch)",
		format, f.path, reader.SampleRate(), reader.Channels())
	return nil
}

func (f *File) prepare(reader decode.Reader, format audio.Format) error {
	rs, err := resample.New(reader.SampleRate(), format.SampleRate, reader.Channels())
	if err != nil {
		return err
	}

	f.reader = reader
	f.resampler = rs
	f.srcCh = reader.Channels()
	f.dstCh = format.Channels
	f.readBuf = make([]float32, readFrames*f.srcCh)
	f.resampled = make([]float32, rs.MaxOutput(len(f.readBuf)))
	f.pending = f.pending[:0]
	return nil
}

// fill delivers one period, decoding more of the file as needed
func (f *File) fill(buf []float32) error {
	frames := len(buf) / f.dstCh

	for len(f.pending)/f.srcCh < frames {
		n, err := f.reader.Read(f.readBuf)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("audio file produced no samples")
		}
		m := f.resampler.Resample(f.readBuf[:n], f.resampled)
		f.pending = append(f.pending, f.resampled[:m]...)
	}

	mapChannels(buf[:frames*f.dstCh], f.pending[:frames*f.srcCh], f.srcCh, f.dstCh)

	rest := copy(f.pending, f.pending[frames*f.srcCh:])
	f.pending = f.pending[:rest]
	return nil
}

// mapChannels copies frames from src to dst, repeating the last source
// channel when dst has more channels and dropping extras when it has fewer
func mapChannels(dst, src []float32, srcCh, dstCh int) {
	frames := len(dst) / dstCh
	for i := 0; i < frames; i++ {
		for c := 0; c < dstCh; c++ {
			dst[i*dstCh+c] = src[i*srcCh+min(c, srcCh-1)]
		}
	}
}

// Close stops delivery and closes the file
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pacer.halt()
	f.pacer = nil

	if f.reader != nil {
		err := f.reader.Close()
		f.reader = nil
		return err
	}
	return nil
}
