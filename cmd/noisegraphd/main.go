// Command noisegraphd plays the fixed oscillator/filter/envelope/
// sequencer graph preset.go assembles, standing in for the external
// editor and out-of-scope graph compiler spec.md declares non-goals
// (SPEC_FULL.md section 9). Grounded on the teacher's main.go: a tcell
// screen, a beep speaker, and an event-channel/ticker select loop.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/noisegraph/control"
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/engine"
	"github.com/lixenwraith/noisegraph/feedback"
)

func main() {
	presetPath := pflag.StringP("preset", "p", "", "Path to a .yaml preset file (defaults to the built-in pentatonic run).")
	bpm := pflag.Float64P("bpm", "b", 0, "Override the preset's BPM.")
	headless := pflag.BoolP("headless", "x", false, "Run without the terminal live view, for a fixed duration.")
	seconds := pflag.Float64P("seconds", "s", 10, "Duration to play in --headless mode.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: noisegraphd [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}

	p, err := loadPreset(*presetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "noisegraphd: %v\n", err)
		os.Exit(1)
	}
	if *bpm > 0 {
		p.BPM = *bpm
	}

	sender := feedback.NewChannelSender(64)
	eng, err := engine.NewEngine(core.SampleRate, sender)
	if err != nil {
		fmt.Fprintf(os.Stderr, "noisegraphd: %v\n", err)
		os.Exit(1)
	}

	unit := engine.CompiledUnit{
		Nodes:   buildNodeStates(p),
		Program: buildProgram(),
	}
	if err := eng.NewUnit(unit); err != nil {
		fmt.Fprintf(os.Stderr, "noisegraphd: %v\n", err)
		os.Exit(1)
	}

	disp := control.NewDispatcher()

	sampleRate := beep.SampleRate(core.SampleRate)
	audioInit := true
	if err := speaker.Init(sampleRate, speakerBufferFor(sampleRate)); err != nil {
		log.Printf("noisegraphd: audio init failed, running silent: %v", err)
		audioInit = false
	}
	if audioInit {
		speaker.Play(newEngineStreamer(eng))
		defer speaker.Close()
	}

	if *headless {
		runHeadless(*seconds)
		return
	}

	variant := func(digit int) core.Pattern { return variantPattern(p, digit) }
	view, err := newLiveView(eng, disp, p.ScaleRoot, len(p.Pattern), variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "noisegraphd: %v\n", err)
		os.Exit(1)
	}
	defer view.Close()

	runLiveView(view, disp, sender)
}

// runHeadless plays silently (or to the speaker, if initialized) for a
// fixed duration with no terminal, for scripted use.
func runHeadless(seconds float64) {
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}

// runLiveView drives the terminal front end: a 60fps render ticker
// alongside an event channel fed by a dedicated PollEvent goroutine, per
// the teacher's Game.run loop.
func runLiveView(view *liveView, disp *control.Dispatcher, sender *feedback.ChannelSender) {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- view.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-events:
			if !view.handleEvent(ev, nodeMidiIn, nodeMonoSeq) {
				return
			}
		case <-ticker.C:
			view.drainFeedback(sender)
			view.render()
		}
	}
}
