// ABOUTME: Audio output package for callback-driven playback
// ABOUTME: Provides Output interface with malgo, oto and PortAudio backends
// Package output provides audio playback backends.
//
// Every backend pulls audio by invoking a render callback once per device
// period: malgo from the miniaudio data callback, oto from its player's
// reader, PortAudio (build tag portaudio) from its stream callback.
//
// Example:
//
//	out, err := output.New(output.BackendMalgo)
//	err = out.Open(format, sess.Render, sess.ReportError)
//	defer out.Close()
package output
