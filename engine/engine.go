// Package engine implements the evaluation driver (component E of
// SPEC_FULL.md): the compiled unit, the node array, and the Engine that
// advances play position and runs the compiled program once per sample.
//
// Grounded on the teacher's audio/engine.go (AudioEngine: a single
// mutable struct owning a sample-accurate callback and mutex-guarding
// its own state) and the atomic-pointer/mutex split in
// IntuitionAmiga-IntuitionEngine/audio_backend_oto.go's OtoPlayer for
// the concurrency boundary spec.md section 5 asks for.
package engine

import (
	"sync"

	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/feedback"
	"github.com/lixenwraith/noisegraph/node"
)

// Program is the compiled evaluation unit's executable: given the
// current playback time and the node array, it performs one sample's
// worth of graph evaluation and returns the stereo output pair, per
// SPEC_FULL.md section 4.E / spec.md section 9's bytecode-interpreter
// design note.
type Program interface {
	Run(playTime float64, nodes *NodeArray) (left, right float64)
}

// ClosureProgram adapts a plain Go function to Program, for
// hand-assembled demo graphs where there is no in-scope compiler to
// produce an Op stream from.
type ClosureProgram func(playTime float64, nodes *NodeArray) (float64, float64)

// Run invokes the wrapped closure.
func (f ClosureProgram) Run(playTime float64, nodes *NodeArray) (float64, float64) {
	return f(playTime, nodes)
}

// CompiledUnit is the opaque evaluation program plus the NodeId -> state
// mapping the (out of scope) compiler emits, per spec.md section 3.
type CompiledUnit struct {
	Nodes   map[core.NodeId]*core.NodeState
	Program Program
}

// NodeArray indexes live node.Node instances by NodeId. Missing slots
// are allowed, per spec.md section 3's sparse-array data model.
type NodeArray struct {
	nodes map[core.NodeId]node.Node
}

func newNodeArray() *NodeArray {
	return &NodeArray{nodes: make(map[core.NodeId]node.Node)}
}

// Get returns the node at id, or nil if the id has never been
// instantiated.
func (na *NodeArray) Get(id core.NodeId) node.Node {
	return na.nodes[id]
}

// Engine holds playback position, the live node array, and the current
// compiled program, and drives one sample tick at a time. A single
// mutex serializes GenSample against every control-thread mutation,
// per spec.md section 5's "mutex held for the whole of genSample and
// each message handler" option.
type Engine struct {
	mu      sync.Mutex
	playPos float64
	nodes   *NodeArray
	program Program
	send    feedback.Sender
}

// NewEngine returns an Engine with no program loaded. sampleRate must be
// 44100; any other value is a precondition violation surfaced as an
// error rather than a panic, since it is reachable before any audio has
// started (SPEC_FULL.md section 6).
func NewEngine(sampleRate int, send feedback.Sender) (*Engine, error) {
	if sampleRate != core.SampleRate {
		return nil, core.ErrBadSampleRate
	}
	return &Engine{nodes: newNodeArray(), send: send}, nil
}

// GenSample advances play position by one sample period and runs the
// installed program. With no program loaded it returns silence, per
// spec.md section 4.E.
func (e *Engine) GenSample() (left, right float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.program == nil {
		return 0, 0
	}
	e.playPos += 1.0 / float64(core.SampleRate)
	return e.program.Run(e.playPos, e.nodes)
}

// PlayPos reports the current playback time in seconds.
func (e *Engine) PlayPos() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playPos
}

// NewUnit installs unit as the engine's active program. For each node id
// present in the unit: an existing node has its kind checked (a kind
// change is a protocol violation and panics) and its state replaced in
// place, preserving internal DSP state (phase accumulators, filter
// integrators, delay buffers); a node id seen for the first time is
// instantiated fresh. Nodes from a previous unit that are absent from
// this one are retained untouched, per spec.md section 4.E's node
// persistence requirement (testable property 8).
func (e *Engine) NewUnit(unit CompiledUnit) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, state := range unit.Nodes {
		if existing, ok := e.nodes.nodes[id]; ok {
			if existing.Kind() != state.Type {
				panic("noisegraph/engine: kind change for existing node is a protocol violation")
			}
			existing.SetState(state)
			continue
		}
		n, err := node.New(id, state, e.send)
		if err != nil {
			return err
		}
		e.nodes.nodes[id] = n
	}
	e.program = unit.Program
	return nil
}
