// Package feedback implements the outbound message union and the
// non-blocking sender nodes use to report back to the host (component G
// of SPEC_FULL.md), grounded on the teacher's audio/mixer.go
// (Mixer.Play's select/default drop-and-count pattern).
package feedback

import (
	"sync/atomic"

	"github.com/lixenwraith/noisegraph/core"
)

// Kind tags one of the four outbound message shapes.
type Kind int

const (
	ClockPulse Kind = iota
	SendSamples
	SetCurStep
	SetPattern
)

// Message is the tagged union of outbound feedback events, per
// SPEC_FULL.md section 4.G. Only the fields relevant to Kind are
// meaningful; the rest are zero.
type Message struct {
	Kind   Kind
	NodeId core.NodeId

	Time    float64   // ClockPulse
	Samples []float64 // SendSamples
	StepIdx int       // SetCurStep
	PatIdx  int       // SetPattern
}

// Sender is the fire-and-forget egress the core never awaits responses
// from: the hot path cannot block on host backpressure.
type Sender interface {
	Send(Message) bool
}

// ChannelSender buffers feedback on a channel and drops (counting the
// drop) when the host isn't draining fast enough, mirroring
// audio/mixer.go's Mixer.Play.
type ChannelSender struct {
	ch      chan Message
	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewChannelSender allocates a sender with the given buffer depth.
func NewChannelSender(buffer int) *ChannelSender {
	return &ChannelSender{ch: make(chan Message, buffer)}
}

// Send attempts a non-blocking enqueue; returns false if the buffer was
// full and the message was dropped.
func (c *ChannelSender) Send(msg Message) bool {
	select {
	case c.ch <- msg:
		c.sent.Add(1)
		return true
	default:
		c.dropped.Add(1)
		return false
	}
}

// C exposes the receive side for the host to drain.
func (c *ChannelSender) C() <-chan Message {
	return c.ch
}

// Stats is a snapshot of delivery counters, grounded on
// Mixer.GetStats()/AudioEngine.GetStats() in the teacher.
type Stats struct {
	Sent    uint64
	Dropped uint64
}

// Stats returns the current sent/dropped counters.
func (c *ChannelSender) Stats() Stats {
	return Stats{Sent: c.sent.Load(), Dropped: c.dropped.Load()}
}
