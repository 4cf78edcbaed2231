// Package core holds the data model shared by every other noisegraph
// package: node identifiers and kinds, the per-node state record, and
// the sentinel errors raised for recoverable construction failures.
package core

import "errors"

// SampleRate is the one supported audio sample rate. Attempts to build
// an engine at any other rate fail loudly (ErrBadSampleRate).
const SampleRate = 44100

// CLOCK_PPQ is pulses per quarter note, fixed across the system.
const CLOCK_PPQ = 24

// CLOCK_PPS is pulses per step (a step is a 16th note).
const CLOCK_PPS = CLOCK_PPQ / 4

// MaxDelaySeconds bounds the delay line's circular buffer.
const MaxDelaySeconds = 10

// Sentinel errors for recoverable construction-time failures. Protocol
// errors and numeric hazards are not represented here: those panic, per
// the error taxonomy in SPEC_FULL.md section 7.
var (
	ErrBadSampleRate     = errors.New("noisegraph/core: engine must run at 44100Hz")
	ErrBadSampleInterval = errors.New("noisegraph/core: scope sampleInterv must be a positive integer")
)

// NodeId is a dense, non-negative identifier assigned by the (out of
// scope) graph compiler. Nodes live in a sparse, indexable array;
// missing slots are allowed.
type NodeId int

// NodeKind tags the set of DSP node types the runtime understands. Any
// identifier outside this set resolves to KindUnknown, a passive no-op
// node that holds state but is never invoked by a compiled program.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindSine
	KindSaw
	KindTri
	KindPulse
	KindNoise
	KindADSR
	KindClock
	KindClockDiv
	KindClockOut
	KindDistort
	KindFold
	KindFilter
	KindSlide
	KindHold
	KindDelay
	KindScope
	KindMidiIn
	KindMonoSeq
	KindGateSeq
)

func (k NodeKind) String() string {
	switch k {
	case KindSine:
		return "Sine"
	case KindSaw:
		return "Saw"
	case KindTri:
		return "Tri"
	case KindPulse:
		return "Pulse"
	case KindNoise:
		return "Noise"
	case KindADSR:
		return "ADSR"
	case KindClock:
		return "Clock"
	case KindClockDiv:
		return "ClockDiv"
	case KindClockOut:
		return "ClockOut"
	case KindDistort:
		return "Distort"
	case KindFold:
		return "Fold"
	case KindFilter:
		return "Filter"
	case KindSlide:
		return "Slide"
	case KindHold:
		return "Hold"
	case KindDelay:
		return "Delay"
	case KindScope:
		return "Scope"
	case KindMidiIn:
		return "MidiIn"
	case KindMonoSeq:
		return "MonoSeq"
	case KindGateSeq:
		return "GateSeq"
	default:
		return "Unknown"
	}
}

// KindFromString resolves a compiler-supplied node kind identifier. Any
// name outside the fixed set falls back to KindUnknown, per SPEC_FULL.md
// section 6 ("any other identifier falls back to a no-op node").
func KindFromString(name string) NodeKind {
	switch name {
	case "Sine":
		return KindSine
	case "Saw":
		return KindSaw
	case "Tri":
		return KindTri
	case "Pulse":
		return KindPulse
	case "Noise":
		return KindNoise
	case "ADSR":
		return KindADSR
	case "Clock":
		return KindClock
	case "ClockDiv":
		return KindClockDiv
	case "ClockOut":
		return KindClockOut
	case "Distort":
		return KindDistort
	case "Fold":
		return KindFold
	case "Filter":
		return KindFilter
	case "Slide":
		return KindSlide
	case "Hold":
		return KindHold
	case "Delay":
		return KindDelay
	case "Scope":
		return KindScope
	case "MidiIn":
		return KindMidiIn
	case "MonoSeq":
		return KindMonoSeq
	case "GateSeq":
		return KindGateSeq
	default:
		return KindUnknown
	}
}

// Cell is one entry in a sequencer pattern grid: zero means silent,
// non-zero triggers the row.
type Cell int

// Pattern is a steps x rows grid of cells, per SPEC_FULL.md section 3.
type Pattern [][]Cell

// NumSteps reports the step count (pattern length along the time axis).
func (p Pattern) NumSteps() int {
	return len(p)
}

// NodeState is the tagged record the control layer and compiler exchange
// for one node: its kind, its named float parameters, and kind-specific
// extension fields. The runtime does not interpret a parameter
// semantically beyond what each kind's Update reads; unrecognized
// parameters are ignored.
//
// Extension fields are zero-valued when the node's kind does not use
// them, mirroring the "optional extension" shape of the host's NodeState
// wire format (SPEC_FULL.md section 6).
type NodeState struct {
	Type   NodeKind
	Params map[string]float64

	// Sequencer extensions (MonoSeq, GateSeq).
	Patterns   []Pattern
	CurPattern int
	NextPat    *int
	ScaleRoot  int
	ScaleName  string
	NumOctaves int
	NumRows    int

	// Scope extension.
	SendSize int
	SendRate float64
}

// NewNodeState returns a NodeState of the given kind with an initialized
// parameter map, ready for the caller to populate.
func NewNodeState(kind NodeKind) *NodeState {
	return &NodeState{
		Type:   kind,
		Params: make(map[string]float64),
	}
}

// Param reads a named parameter, defaulting to 0 when absent — the
// runtime never treats a missing parameter as a protocol error, only an
// unrecognized name passed to SET_PARAM is (see control.Dispatcher).
func (s *NodeState) Param(name string) float64 {
	return s.Params[name]
}
