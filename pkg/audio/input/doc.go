// ABOUTME: Audio input package for capture sources
// ABOUTME: Provides Input interface with microphone, file and tone sources
// Package input provides capture sources that push interleaved float32
// periods to a callback.
//
// The malgo backend captures from the default microphone. The file and tone
// backends run on a ticker at the stream's period so the effect chain can be
// exercised without capture hardware.
package input
