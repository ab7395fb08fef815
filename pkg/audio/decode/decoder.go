// ABOUTME: Reader interface and file type dispatch
// ABOUTME: Opens an MP3 or FLAC reader based on the file extension
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader produces interleaved float32 samples from an audio file
type Reader interface {
	// Read fills samples and returns the number written
	Read(samples []float32) (int, error)

	// SampleRate returns the native rate of the file
	SampleRate() int

	// Channels returns the native channel count of the file
	Channels() int

	// Close releases the underlying file
	Close() error
}

// Open creates a looping reader for path, selected by extension
func Open(path string) (Reader, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		return NewMP3(path)
	case ".flac":
		return NewFLAC(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .flac)", ext)
	}
}

func title(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
