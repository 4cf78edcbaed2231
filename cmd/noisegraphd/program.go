package main

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/noisegraph/engine"
	"github.com/lixenwraith/noisegraph/node"
)

// buildProgram hand-assembles the fixed oscillator -> filter -> MonoSeq-
// gated ADSR -> output graph as an engine.ClosureProgram, per SPEC_FULL.md
// section 9 — ClosureProgram exists precisely for "hand-assembled demo
// graphs where there is no in-scope compiler," which this host is. A
// BytecodeProgram's Op table has no port for an ADSR envelope to scale a
// filter's output (no VCA/multiply node kind is in scope), so the final
// multiply happens here in plain Go, outside any node. A MidiIn node lets
// the live view's keyboard override the sequencer: whichever source's
// gate is higher wins the sample, so a live keypress cuts in over
// whatever the pattern is doing.
func buildProgram() engine.Program {
	return engine.ClosureProgram(func(playTime float64, nodes *engine.NodeArray) (float64, float64) {
		clock := nodes.Get(nodeClock).(*node.Clock)
		mono := nodes.Get(nodeMonoSeq).(*node.MonoSeq)
		midiIn := nodes.Get(nodeMidiIn).(*node.MidiIn)
		sine := nodes.Get(nodeSine).(*node.Sine)
		filter := nodes.Get(nodeFilter).(*node.Filter)
		adsr := nodes.Get(nodeADSR).(*node.ADSR)
		scope := nodes.Get(nodeScope).(*node.Scope)
		clockOut := nodes.Get(nodeClockOut).(*node.ClockOut)

		clockSig := clock.Update()
		clockOut.Update(playTime, clockSig)

		freq, gate := mono.Update(clockSig, playTime, mono.RawState().Param("gateTime"))
		midiFreq, midiGate := midiIn.Update()
		if midiGate >= gate {
			freq, gate = midiFreq, midiGate
		}

		osc := sine.Update(freq, 0)

		filterState := filter.RawState()
		filtered := filter.Update(osc, filterState.Param("cutoff"), filterState.Param("reso"))
		scope.Update(filtered)

		envState := adsr.RawState()
		env := adsr.Update(playTime, gate,
			envState.Param("attack"), envState.Param("decay"),
			envState.Param("sustain"), envState.Param("release"))

		out := filtered * env
		return out, out
	})
}

// engineStreamer adapts engine.Engine to beep.Streamer, the module's
// realization of the audio device callback spec.md declares out of
// scope, grounded on the teacher's audio/effects.go oscillator/envelope
// Stream methods (same [][2]float64-buffer-filling shape).
type engineStreamer struct {
	eng *engine.Engine
}

func newEngineStreamer(eng *engine.Engine) beep.Streamer {
	return &engineStreamer{eng: eng}
}

func (s *engineStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		l, r := s.eng.GenSample()
		samples[i][0] = l
		samples[i][1] = r
	}
	return len(samples), true
}

func (s *engineStreamer) Err() error { return nil }

// speakerBufferFor returns the buffer length beep.speaker.Init wants,
// grounded on the teacher's own NewAudioEngine call (a tenth-of-a-second
// buffer).
func speakerBufferFor(rate beep.SampleRate) int {
	return rate.N(time.Second / 10)
}
