// ABOUTME: Linear resampler for interleaved float32 audio
// ABOUTME: Carries the last input frame so consecutive blocks join without clicks
package resample

import "fmt"

// Resampler converts interleaved float32 audio between sample rates using
// linear interpolation
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	step       float64 // input frames advanced per output frame
	position   float64 // 0 is the carried frame, 1 the first frame of the next block
	lastFrame  []float32
}

// New creates a resampler
func New(inputRate, outputRate, channels int) (*Resampler, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("invalid resample rates: %d -> %d", inputRate, outputRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		step:       float64(inputRate) / float64(outputRate),
		lastFrame:  make([]float32, channels),
	}, nil
}

// Resample converts all of input into output and returns the number of
// samples written. output should hold at least MaxOutput(len(input)) samples;
// frames that do not fit are skipped.
func (r *Resampler) Resample(input, output []float32) int {
	ch := r.channels
	inputFrames := len(input) / ch
	if inputFrames == 0 {
		return 0
	}
	outputFrames := len(output) / ch

	outIdx := 0
	for outIdx < outputFrames {
		idx := int(r.position)
		if idx >= inputFrames {
			break
		}
		frac := float32(r.position - float64(idx))

		for c := 0; c < ch; c++ {
			var a float32
			if idx == 0 {
				a = r.lastFrame[c]
			} else {
				a = input[(idx-1)*ch+c]
			}
			b := input[idx*ch+c]
			output[outIdx*ch+c] = a + (b-a)*frac
		}

		outIdx++
		r.position += r.step
	}

	// skip anything that did not fit so the next block stays in time
	for int(r.position) < inputFrames {
		r.position += r.step
	}
	r.position -= float64(inputFrames)
	copy(r.lastFrame, input[(inputFrames-1)*ch:inputFrames*ch])

	return outIdx * ch
}

// MaxOutput returns the largest number of samples Resample can produce from inputSamples
func (r *Resampler) MaxOutput(inputSamples int) int {
	frames := inputSamples / r.channels
	return (int(float64(frames)/r.step) + 2) * r.channels
}

// Ratio returns output rate over input rate
func (r *Resampler) Ratio() float64 {
	return float64(r.outputRate) / float64(r.inputRate)
}

// Reset clears the carried frame and position
func (r *Resampler) Reset() {
	r.position = 0
	clear(r.lastFrame)
}
