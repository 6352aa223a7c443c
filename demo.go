package main

import (
	"github.com/jcorbin/gobitvm/internal/core"
	"github.com/jcorbin/gobitvm/internal/hal"
	"github.com/jcorbin/gobitvm/internal/image"
)

// demo globals
const (
	demoCounter = iota
	demoWords
	demoGlobals
)

// buildDemo assembles the demo image and links its code. The demo collects
// distinct lines from serial until a blank one, then counts forever; button
// A posts and scrolls the word picked by the counter, and a long click of B
// reboots.
func buildDemo() (core.Program, map[uint32]string) {
	b := image.NewBuilder(demoGlobals)
	banner := b.Text("bitvm demo")
	wordsLabel := b.Text("words: ")
	nothing := b.Text("?")
	smile := b.Leds(
		". . . . .",
		". # . # .",
		". . . . .",
		"# . . . #",
		". # # # .",
	)
	tick := b.Entry("tick")
	pick := b.Entry("pick")
	reboot := b.Entry("reboot")

	var prog core.Program
	prog.LinkMain(func(rt *core.Runtime, _ []core.Word) {
		rt.PostToWall(rt.TextBytes(rt.TextLiteral(banner)))
		rt.PlotLeds(smile)

		words := rt.NewCollection(core.OwnsElements | core.TextElements)
		rt.StoreGlobalRef(words, demoWords)
		for {
			line := rt.SerialReadText()
			if rt.TextCount(line) == 0 {
				rt.Release(line)
				break
			}
			if rt.IndexOf(words, line, 0) < 0 {
				rt.Add(words, line)
			}
			rt.Release(line)
		}

		n := rt.NumberToText(rt.Count(words))
		summary := rt.Concat(rt.TextLiteral(wordsLabel), n)
		rt.PostToWall(rt.TextBytes(summary))
		rt.Release(summary)
		rt.Release(n)

		rt.Forever(rt.NewAction(0, 0, tick))

		act := rt.StoreClosure(rt.NewAction(1, 1, pick), 0, words)
		rt.OnButtonPressed(hal.ButtonA, act)
		rt.Release(act)
		rt.Release(words)

		rt.OnButtonPressedExt(hal.ButtonB, hal.ButtonEvtLongClick, rt.NewAction(0, 0, reboot))
	})

	prog.LinkEntry(tick, func(rt *core.Runtime, _ []core.Word) {
		rt.StoreGlobal(rt.LoadGlobal(demoCounter)+1, demoCounter)
	})

	prog.LinkEntry(pick, func(rt *core.Runtime, env []core.Word) {
		words := env[0]
		n := rt.Count(words)
		if n == 0 {
			rt.ShowLetter(rt.TextLiteral(nothing))
			return
		}
		w := rt.At(words, int(uint32(rt.LoadGlobal(demoCounter))%uint32(n)))
		rt.PostToWall(rt.TextBytes(w))
		rt.ScrollText(w, 150)
		rt.Release(w)
	})

	prog.LinkEntry(reboot, func(rt *core.Runtime, _ []core.Word) {
		rt.Reset()
	})

	prog.Image = b.Image()
	return prog, b.Names()
}
