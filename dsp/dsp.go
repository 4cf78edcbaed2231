// Package dsp implements the DSP primitives (component B of
// SPEC_FULL.md): the ADSR envelope state machine, the two-pole resonant
// filter, the circular delay line, distortion and wavefold math, and a
// small noise generator. Grounded primarily on the teacher's
// audio/voice.go (TonalVoice.processEnvelope) and audio/generator.go
// (applyEnvelope, the one-pole filter inside generateBass).
package dsp

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/noisegraph/core"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ADSRState is one of the five states of the envelope state machine.
type ADSRState int

const (
	ADSROff ADSRState = iota
	ADSRAttack
	ADSRDecay
	ADSRSustain
	ADSRRelease
)

// ADSR is a four/five-state envelope generator driven by a gate signal
// and attack/decay/sustain/release parameters supplied fresh every call,
// per SPEC_FULL.md section 4.B. A gate fall moves the envelope into
// ADSRRelease from attack as well as from decay and sustain.
type ADSR struct {
	state     ADSRState
	prevGate  float64
	entryTime float64
	startVal  float64
	value     float64
}

// NewADSR returns an envelope at rest in the off state.
func NewADSR() *ADSR {
	return &ADSR{}
}

// Update advances the envelope by one sample at playback time t, given
// the current gate level and ADSR time/level parameters (attack/decay/
// release in seconds, sustain as a level in [0,1]), and returns the
// envelope's output value.
func (e *ADSR) Update(t, gate, attackTime, decayTime, sustainLevel, releaseTime float64) float64 {
	rising := gate > 0 && e.prevGate <= 0
	falling := gate <= 0 && e.prevGate > 0
	e.prevGate = gate

	switch e.state {
	case ADSROff:
		if rising {
			e.state = ADSRAttack
			e.entryTime = t
			e.startVal = 0
		}
	case ADSRAttack:
		if falling {
			e.state = ADSRRelease
			e.entryTime = t
			e.startVal = e.value
		}
	case ADSRDecay:
		if falling {
			e.state = ADSRRelease
			e.entryTime = t
			e.startVal = e.value
		}
	case ADSRSustain:
		if falling {
			e.state = ADSRRelease
			e.entryTime = t
			e.startVal = sustainLevel
		}
	case ADSRRelease:
		if rising {
			e.state = ADSRAttack
			e.entryTime = t
			e.startVal = e.value
		}
	default:
		panic("noisegraph/dsp: unreachable ADSR state")
	}

	switch e.state {
	case ADSROff:
		e.value = 0
	case ADSRAttack:
		elapsed := t - e.entryTime
		if attackTime <= 0 || elapsed >= attackTime {
			e.value = 1
			e.state = ADSRDecay
			e.entryTime = t
		} else {
			e.value = e.startVal + (1-e.startVal)*(elapsed/attackTime)
		}
	case ADSRDecay:
		elapsed := t - e.entryTime
		if decayTime <= 0 || elapsed >= decayTime {
			e.value = sustainLevel
			e.state = ADSRSustain
		} else {
			e.value = 1 - (1-sustainLevel)*(elapsed/decayTime)
		}
	case ADSRSustain:
		e.value = sustainLevel
	case ADSRRelease:
		elapsed := t - e.entryTime
		if releaseTime <= 0 || elapsed >= releaseTime {
			e.value = 0
			e.state = ADSROff
		} else {
			e.value = e.startVal * (1 - elapsed/releaseTime)
		}
	default:
		panic("noisegraph/dsp: unreachable ADSR state")
	}

	return e.value
}

// State exposes the current envelope phase, mainly for tests.
func (e *ADSR) State() ADSRState {
	return e.state
}

// TwoPoleFilter is a two-integrator resonant low-pass filter, per
// SPEC_FULL.md section 4.B.
type TwoPoleFilter struct {
	s0, s1 float64
}

// NewTwoPoleFilter returns a filter with both integrators at rest.
func NewTwoPoleFilter() *TwoPoleFilter {
	return &TwoPoleFilter{}
}

// Update filters one input sample given cutoff in [0,1] and a resonance
// amount >= 0; a cutoff above 1 is silently clamped to 1 and a negative
// resonance to 0 (a negative cutoff is not clamped). A NaN input is
// a numeric hazard and panics rather than corrupting filter state.
func (f *TwoPoleFilter) Update(input, cutoff, reso float64) float64 {
	if math.IsNaN(input) {
		panic("noisegraph/dsp: NaN input to filter")
	}
	if cutoff > 1 {
		cutoff = 1
	}
	if reso < 0 {
		reso = 0
	}

	c := math.Pow(0.5, (1-cutoff)/0.125)
	r := math.Pow(0.5, (reso+0.125)/0.125)

	f.s0 = (1-r*c)*f.s0 - c*f.s1 + c*input
	f.s1 = (1-r*c)*f.s1 + c*f.s0
	return f.s1
}

// DelayLine is a circular buffer shared by a writer node and a reader
// node, per SPEC_FULL.md section 4.B — the split exists so the compiler
// can place write and read on distinct graph nodes.
type DelayLine struct {
	buf        []float64
	sampleRate int
	writeIdx   int
	readIdx    int
}

// NewDelayLine allocates a buffer sized MaxDelaySeconds*sampleRate.
func NewDelayLine(sampleRate int) *DelayLine {
	return &DelayLine{
		buf:        make([]float64, core.MaxDelaySeconds*sampleRate),
		sampleRate: sampleRate,
	}
}

// Write advances the write index, stores sample, and recomputes the
// read index from delayTime (seconds), clamped into the buffer's range.
func (d *DelayLine) Write(sample, delayTime float64) {
	n := len(d.buf)
	d.writeIdx = (d.writeIdx + 1) % n
	d.buf[d.writeIdx] = sample

	delaySamples := clampInt(int(float64(d.sampleRate)*delayTime), 0, n-1)
	d.readIdx = ((d.writeIdx-delaySamples)%n + n) % n
}

// Read returns the sample at the current read index.
func (d *DelayLine) Read() float64 {
	return d.buf[d.readIdx]
}

// Distort applies soft clipping, per SPEC_FULL.md section 4.B. amount is
// clamped into [0,1] silently.
func Distort(x, amount float64) float64 {
	amount = clamp(amount, 0, 1)
	a := amount - 0.01
	k := 2 * a / (1 - a)
	return (1 + k) * x / (1 + k*math.Abs(x))
}

// Fold applies wavefolding distortion, identity at rate == 0 before the
// internal += 1 bias is applied, per SPEC_FULL.md section 4.B.
func Fold(x, rate float64) float64 {
	if rate < 0 {
		rate = 0
	}
	if rate == 0 {
		return x
	}
	rate += 1
	v := 0.25*(x*rate) + 0.25
	return 4 * (math.Abs(v-math.Round(v)) - 0.25)
}

// Noise is a uniform noise generator with an optional one-pole shaping
// mode, grounded on audio/voice.go's drum-noise bursts
// (rand.Float64()*2-1) and supplemented per SPEC_FULL.md section 4.C to
// support a "metallic" mode mirroring generateHihat/generateSnare's
// band-shaped noise. Off by default: plain white noise never touches the
// shaping state, so property 1's default-range test is unaffected.
type Noise struct {
	shaped float64
}

// NewNoise returns a noise generator with shaping state at rest.
func NewNoise() *Noise {
	return &Noise{}
}

// Sample returns one uniform sample in [minVal, maxVal]. mode selects
// "white" (default) or "metallic" shaping.
func (n *Noise) Sample(minVal, maxVal float64, mode string) float64 {
	raw := rand.Float64()*2 - 1
	if mode == "metallic" {
		n.shaped += 0.35 * (raw - n.shaped)
		raw = n.shaped
	}
	return minVal + (raw+1)/2*(maxVal-minVal)
}
