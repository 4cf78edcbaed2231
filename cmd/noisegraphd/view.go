package main

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/noisegraph/control"
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/engine"
	"github.com/lixenwraith/noisegraph/feedback"
)

// qwertyNoteRow maps a one-octave piano layout onto the home row, per
// SPEC_FULL.md section 9. Grounded on the teacher's event package
// treating a rune as the unit of keyboard input, here repurposed from
// movement commands to note triggers.
var qwertyNoteRow = map[rune]int{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4,
	'f': 5, 't': 6, 'g': 7, 'y': 8, 'h': 9,
	'u': 10, 'j': 11, 'k': 12,
}

// liveView is a tcell terminal front end: it renders feedback egress
// (current step, clock blink, a scope capture redrawn as a tiny ASCII
// waveform) and turns keystrokes into control.Message ingress, per
// SPEC_FULL.md section 9 — the module's concrete stand-in for "the
// external editor" spec.md declares out of scope.
type liveView struct {
	screen tcell.Screen
	eng    *engine.Engine
	disp   *control.Dispatcher
	root   int

	mu        sync.Mutex
	curStep   int
	numSteps  int
	clockOn   bool
	waveform  []float64
	heldNote  int
	queuedPat int

	// variant builds the pattern to queue when digit i is pressed,
	// supplied by main from the loaded preset's base pattern/scale.
	variant func(digit int) core.Pattern
}

func newLiveView(eng *engine.Engine, disp *control.Dispatcher, scaleRoot, numSteps int, variant func(digit int) core.Pattern) (*liveView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("noisegraphd: tcell.NewScreen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("noisegraphd: screen.Init: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	return &liveView{
		screen:   screen,
		eng:      eng,
		disp:     disp,
		root:     scaleRoot,
		numSteps: numSteps,
		heldNote: -1,
		variant:  variant,
	}, nil
}

func (v *liveView) Close() {
	v.screen.Fini()
}

// drainFeedback pulls every pending feedback.Message off sender and
// updates the view's render state. Called from the render loop, not a
// separate goroutine, to avoid needing another lock around tcell itself.
func (v *liveView) drainFeedback(sender *feedback.ChannelSender) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for {
		select {
		case msg := <-sender.C():
			switch msg.Kind {
			case feedback.SetCurStep:
				v.curStep = msg.StepIdx
			case feedback.ClockPulse:
				v.clockOn = !v.clockOn
			case feedback.SendSamples:
				v.waveform = msg.Samples
			case feedback.SetPattern:
				v.queuedPat = msg.PatIdx
			}
		default:
			return
		}
	}
}

// render redraws the whole screen from current view state.
func (v *liveView) render() {
	v.mu.Lock()
	curStep, numSteps, clockOn, waveform, queuedPat := v.curStep, v.numSteps, v.clockOn, v.waveform, v.queuedPat
	v.mu.Unlock()

	v.screen.Clear()

	blink := " "
	if clockOn {
		blink = "*"
	}
	v.drawText(0, 0, fmt.Sprintf("noisegraphd  clock[%s]", blink))

	stepLine := ""
	for i := 0; i < numSteps; i++ {
		if i == curStep {
			stepLine += "#"
		} else {
			stepLine += "."
		}
	}
	v.drawText(0, 2, fmt.Sprintf("steps: %s  pattern[%d]", stepLine, queuedPat))

	v.drawText(0, 4, "scope: "+renderWaveform(waveform, 60))

	v.drawText(0, 6, "keys: a w s e d f t g y h u j k = play a note, space = release, 0-9 = queue pattern variant, q = quit")

	v.screen.Show()
}

func (v *liveView) drawText(x, y int, s string) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

// renderWaveform maps a scope capture buffer (samples in roughly
// [-1, 1]) onto a fixed-width row of ASCII glyphs, downsampling by
// stride when the capture is longer than width.
func renderWaveform(samples []float64, width int) string {
	if len(samples) == 0 {
		return ""
	}
	glyphs := []rune(" .:-=+*#%@")
	out := make([]rune, 0, width)
	stride := len(samples) / width
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < len(samples) && len(out) < width; i += stride {
		v := samples[i]
		if v < -1 {
			v = -1
		}
		if v > 1 {
			v = 1
		}
		idx := int((v + 1) / 2 * float64(len(glyphs)-1))
		out = append(out, glyphs[idx])
	}
	return string(out)
}

// handleEvent turns one tcell key event into the engine action it
// represents, or ignored if the key has no mapping. Returns false when
// the caller should quit. Keys: the QWERTY row plays notes (velocity 0
// releases the currently-held one on space, since terminal input has no
// key-up event); 0-9 arm a pattern variant at that digit's pattern slot,
// taking effect at the next pattern-wrap boundary.
func (v *liveView) handleEvent(ev tcell.Event, midiId, monoSeqId core.NodeId) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	if key.Key() == tcell.KeyEscape || key.Rune() == 'q' {
		return false
	}

	r := key.Rune()
	if offset, ok := qwertyNoteRow[r]; ok {
		note := v.root + offset
		v.disp.Dispatch(v.eng, control.Message{
			Kind:     control.NoteOn,
			NodeId:   midiId,
			NoteNo:   note,
			Velocity: 100,
		})
		v.mu.Lock()
		v.heldNote = note
		v.mu.Unlock()
		return true
	}

	if key.Key() == tcell.KeyRune && r == ' ' {
		v.mu.Lock()
		held := v.heldNote
		v.heldNote = -1
		v.mu.Unlock()
		if held >= 0 {
			v.disp.Dispatch(v.eng, control.Message{
				Kind:     control.NoteOn,
				NodeId:   midiId,
				NoteNo:   held,
				Velocity: 0,
			})
		}
		return true
	}

	if r >= '0' && r <= '9' && v.variant != nil {
		digit := int(r - '0')
		v.disp.Dispatch(v.eng, control.Message{
			Kind:    control.QueuePattern,
			NodeId:  monoSeqId,
			PatIdx:  digit,
			PatData: v.variant(digit),
		})
	}
	return true
}
