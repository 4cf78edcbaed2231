package dsp

import (
	"math"
	"testing"
)

func TestADSRReachesSustainAndReleases(t *testing.T) {
	e := NewADSR()
	const attack, decay, sustain, release = 0.1, 0.2, 0.5, 0.3
	const step = 1.0 / 44100

	var v float64
	t0 := 0.0
	for s := 0; s < int((attack+decay+1)/step); s++ {
		v = e.Update(t0, 1, attack, decay, sustain, release)
		t0 += step
	}
	if v < sustain-0.01 || v > sustain+0.01 {
		t.Fatalf("expected value near sustain %.3f after attack+decay, got %.5f", sustain, v)
	}

	// gate falls; envelope should reach 0 within release time.
	for s := 0; s < int(release/step)+2; s++ {
		v = e.Update(t0, 0, attack, decay, sustain, release)
		t0 += step
	}
	if v != 0 {
		t.Fatalf("expected envelope at 0 after release window, got %.5f", v)
	}
	if e.State() != ADSROff {
		t.Fatalf("expected ADSROff after release completes, got state %v", e.State())
	}
}

func TestADSRRetriggerFromRelease(t *testing.T) {
	e := NewADSR()
	e.Update(0, 1, 0.01, 0.01, 0.5, 1.0) // enter attack
	e.Update(0.005, 1, 0.01, 0.01, 0.5, 1.0)
	e.Update(0.02, 0, 0.01, 0.01, 0.5, 1.0) // gate falls into release

	if e.State() != ADSRRelease {
		t.Fatalf("expected ADSRRelease, got %v", e.State())
	}

	e.Update(0.03, 1, 0.01, 0.01, 0.5, 1.0) // gate rises again: retrigger
	if e.State() != ADSRAttack {
		t.Fatalf("expected ADSRAttack on retrigger, got %v", e.State())
	}
}

func TestTwoPoleFilterClampsOutOfRangeParams(t *testing.T) {
	f := NewTwoPoleFilter()
	for i := 0; i < 1000; i++ {
		out := f.Update(math.Sin(float64(i)), 1.5, -0.5)
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("filter output not finite at sample %d: %v", i, out)
		}
	}
}

func TestTwoPoleFilterPanicsOnNaN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on NaN input")
		}
	}()
	f := NewTwoPoleFilter()
	f.Update(math.NaN(), 0.5, 0.5)
}

func TestDelayLineRoundTrip(t *testing.T) {
	const sampleRate = 44100
	const k = 10
	d := NewDelayLine(sampleRate)
	delayTime := float64(k) / float64(sampleRate)

	x := make([]float64, 64)
	for i := range x {
		x[i] = float64(i + 1)
	}

	out := make([]float64, len(x))
	for n, v := range x {
		d.Write(v, delayTime)
		out[n] = d.Read()
	}

	for n := k; n < len(x); n++ {
		if out[n] != x[n-k] {
			t.Fatalf("sample %d: expected delayed value %v, got %v", n, x[n-k], out[n])
		}
	}
}

func TestFoldIdentityAtZeroRate(t *testing.T) {
	for _, x := range []float64{-1, -0.3, 0, 0.6, 1} {
		if got := Fold(x, 0); got != x {
			t.Fatalf("Fold(%v, 0) = %v, want identity", x, got)
		}
	}
}

func TestDistortClampsAmount(t *testing.T) {
	inRange := Distort(0.5, 2.0) // amount out of range, must clamp silently
	if math.IsNaN(inRange) || math.IsInf(inRange, 0) {
		t.Fatalf("Distort with out-of-range amount produced non-finite output: %v", inRange)
	}
}
