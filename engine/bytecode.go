package engine

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/node"
)

// OpCode tags one instruction in a BytecodeProgram's instruction stream,
// one per node operation in spec.md section 4.C's contract table. This
// realizes spec.md section 9's recommended option (a): the compiler
// emits an array of (op, src indices, dst) records that a small
// interpreter walks, reading/writing node fields through a vtable of
// node-kind methods — here, a switch over OpCode that type-asserts the
// destination node to its concrete kind and calls its named method.
type OpCode int

const (
	OpSine OpCode = iota
	OpSaw
	OpTri
	OpPulse
	OpNoise
	OpADSR
	OpClock
	OpClockDiv
	OpClockOut
	OpDistort
	OpFold
	OpFilter
	OpSlide
	OpHoldWrite
	OpHoldRead
	OpDelayWrite
	OpDelayRead
	OpScope
	OpMidiIn
	OpMonoSeq
	OpGateSeq
)

// Op is one bytecode instruction: which operation to run, which node it
// targets, and which upstream nodes (and output ports on them, for
// nodes with more than one output) feed its per-sample inputs. SrcPort
// may be shorter than Src or nil; a missing entry defaults to port 0.
type Op struct {
	Code    OpCode
	Dst     core.NodeId
	Src     []core.NodeId
	SrcPort []int
}

// BytecodeProgram is one concrete Program implementation: an Op stream
// walked in order, plus the node/port pair each stereo channel reads
// from once the stream completes.
type BytecodeProgram struct {
	Ops          []Op
	OutLeft      core.NodeId
	OutLeftPort  int
	OutRight     core.NodeId
	OutRightPort int
}

func busPort(bus map[core.NodeId][]float64, id core.NodeId, port int) float64 {
	v := bus[id]
	if port >= 0 && port < len(v) {
		return v[port]
	}
	return 0
}

func (p *BytecodeProgram) in(bus map[core.NodeId][]float64, op Op, i int) float64 {
	if i >= len(op.Src) {
		return 0
	}
	port := 0
	if i < len(op.SrcPort) {
		port = op.SrcPort[i]
	}
	return busPort(bus, op.Src[i], port)
}

// Run executes the instruction stream for one sample and returns the
// configured output taps. Evaluation order within the stream is exactly
// as authored — the compiled program dictates node evaluation order, per
// spec.md section 5's ordering guarantee.
func (p *BytecodeProgram) Run(playTime float64, nodes *NodeArray) (float64, float64) {
	bus := make(map[core.NodeId][]float64, len(p.Ops))

	for _, op := range p.Ops {
		switch op.Code {
		case OpSine:
			n := nodes.Get(op.Dst).(*node.Sine)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0), p.in(bus, op, 1))}
		case OpSaw:
			n := nodes.Get(op.Dst).(*node.Saw)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0))}
		case OpTri:
			n := nodes.Get(op.Dst).(*node.Tri)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0))}
		case OpPulse:
			n := nodes.Get(op.Dst).(*node.Pulse)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0), p.in(bus, op, 1))}
		case OpNoise:
			n := nodes.Get(op.Dst).(*node.Noise)
			bus[op.Dst] = []float64{n.Update()}
		case OpADSR:
			n := nodes.Get(op.Dst).(*node.ADSR)
			st := n.RawState()
			bus[op.Dst] = []float64{n.Update(playTime, p.in(bus, op, 0),
				st.Param("attack"), st.Param("decay"), st.Param("sustain"), st.Param("release"))}
		case OpClock:
			n := nodes.Get(op.Dst).(*node.Clock)
			bus[op.Dst] = []float64{n.Update()}
		case OpClockDiv:
			n := nodes.Get(op.Dst).(*node.ClockDiv)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0))}
		case OpClockOut:
			n := nodes.Get(op.Dst).(*node.ClockOut)
			n.Update(playTime, p.in(bus, op, 0))
		case OpDistort:
			n := nodes.Get(op.Dst).(*node.Distort)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0), n.RawState().Param("amount"))}
		case OpFold:
			n := nodes.Get(op.Dst).(*node.Fold)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0), n.RawState().Param("rate"))}
		case OpFilter:
			n := nodes.Get(op.Dst).(*node.Filter)
			st := n.RawState()
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0), st.Param("cutoff"), st.Param("reso"))}
		case OpSlide:
			n := nodes.Get(op.Dst).(*node.Slide)
			bus[op.Dst] = []float64{n.Update(p.in(bus, op, 0), n.RawState().Param("rate"))}
		case OpHoldWrite:
			n := nodes.Get(op.Dst).(*node.Hold)
			n.Write(p.in(bus, op, 0), p.in(bus, op, 1))
		case OpHoldRead:
			n := nodes.Get(op.Dst).(*node.Hold)
			bus[op.Dst] = []float64{n.Read()}
		case OpDelayWrite:
			n := nodes.Get(op.Dst).(*node.Delay)
			n.Write(p.in(bus, op, 0), n.RawState().Param("time"))
		case OpDelayRead:
			n := nodes.Get(op.Dst).(*node.Delay)
			bus[op.Dst] = []float64{n.Read()}
		case OpScope:
			n := nodes.Get(op.Dst).(*node.Scope)
			n.Update(p.in(bus, op, 0))
		case OpMidiIn:
			n := nodes.Get(op.Dst).(*node.MidiIn)
			freq, gate := n.Update()
			bus[op.Dst] = []float64{freq, gate}
		case OpMonoSeq:
			n := nodes.Get(op.Dst).(*node.MonoSeq)
			freq, gate := n.Update(p.in(bus, op, 0), playTime, n.RawState().Param("gateTime"))
			bus[op.Dst] = []float64{freq, gate}
		case OpGateSeq:
			n := nodes.Get(op.Dst).(*node.GateSeq)
			bus[op.Dst] = n.Update(p.in(bus, op, 0), playTime)
		default:
			panic("noisegraph/engine: unreachable bytecode op")
		}
	}

	return busPort(bus, p.OutLeft, p.OutLeftPort), busPort(bus, p.OutRight, p.OutRightPort)
}
