package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobitvm/internal/core"
	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/fiber"
	"github.com/jcorbin/gobitvm/internal/hal"
)

func Test_Image_refcount(t *testing.T) {
	td := newTestDevice(t, 1)
	heart := td.b.Leds(
		". # . # .",
		"# # # # #",
		"# # # # #",
		". # # # .",
		". . # . .",
	)
	rt := td.loaded()

	img := rt.NewImage(heart)
	assert.Equal(t, 1, rt.RefCount(img))
	rt.StoreGlobalRef(img, 0)
	assert.Equal(t, 2, rt.RefCount(img))

	c := rt.CloneImage(img)
	assert.NotEqual(t, img, c)
	rt.SetImagePixel(c, 0, 0, 255)
	assert.Equal(t, 0, rt.ImagePixel(img, 0, 0), "clones share no pixels")
	assert.Equal(t, 255, rt.ImagePixel(c, 0, 0))
	rt.Release(c)

	rt.Release(img)
	assert.Equal(t, 1, rt.Live(), "held by the global")
	rt.StoreGlobalRef(core.Null, 0)
	assert.Equal(t, 0, rt.Live())
	requireFault(t, fault.ErrRefDeleted, 1, func() { rt.Release(img) })
}

func Test_Image_readOnly(t *testing.T) {
	td := newTestDevice(t, 0)
	dot := td.b.Leds("#.", "..")
	rt := td.loaded()

	lit := core.Word(dot)
	ro := rt.ReadOnlyImage(dot)
	for _, w := range []core.Word{lit, ro} {
		assert.True(t, rt.IsImageReadOnly(w), "%v", w)
		rt.SetImagePixel(w, 1, 1, 255)
		rt.ClearImage(w)
		assert.Equal(t, 255, rt.ImagePixel(w, 0, 0), "%v ignores writes", w)
		assert.Equal(t, 0, rt.ImagePixel(w, 1, 1), "%v ignores writes", w)
	}
	rt.Retain(lit)
	rt.Release(lit)

	rw := rt.CloneImage(ro)
	assert.False(t, rt.IsImageReadOnly(rw), "clones are writable")
	rt.ClearImage(rw)
	assert.Equal(t, 0, rt.ImagePixel(rw, 0, 0))
	assert.Equal(t, 255, rt.ImagePixel(lit, 0, 0), "the literal is untouched")

	rt.Release(rw)
	rt.Release(ro)
	assert.Equal(t, 0, rt.Live())
}

func Test_Image_pixels(t *testing.T) {
	td := newTestDevice(t, 0)
	strip := td.b.Bitmap(3, 2, 1, 2, 3, 4, 5, 6)
	rt := td.loaded()

	img := rt.NewImage(strip)
	assert.Equal(t, 3, rt.ImageWidth(img))
	assert.Equal(t, 2, rt.ImageHeight(img))
	assert.Equal(t, 6, rt.ImagePixel(img, 2, 1))
	for _, xy := range [][2]int{{-1, 0}, {3, 0}, {0, 2}, {0, -1}} {
		assert.Equal(t, core.InvalidPixel, rt.ImagePixel(img, xy[0], xy[1]), "%v", xy)
		rt.SetImagePixel(img, xy[0], xy[1], 9)
	}
	rt.SetImagePixel(img, 0, 0, 1000)
	rt.SetImagePixel(img, 1, 0, -5)
	assert.Equal(t, 255, rt.ImagePixel(img, 0, 0), "clamped")
	assert.Equal(t, 0, rt.ImagePixel(img, 1, 0), "clamped")
	rt.Release(img)
}

func Test_Image_faults(t *testing.T) {
	td := newTestDevice(t, 0)
	hi := td.b.Text("hi")
	rt := td.loaded()

	requireFault(t, fault.ErrInvalidBinaryHeader, 10, func() { rt.NewImage(0x21) })
	requireFault(t, fault.ErrInvalidBinaryHeader, 10, func() { rt.ImageWidth(core.Word(hi)) })
	s := rt.NewText([]byte("not an image"))
	requireFault(t, fault.ErrRefDeleted, 3, func() { rt.ImageWidth(s) })
	rt.Release(s)
	requireFault(t, fault.ErrSize, 3, func() { rt.SerialReadImage(0, 5) })
}

func Test_Image_display(t *testing.T) {
	td := newTestDevice(t, 0)
	cross := td.b.Leds(
		"#...#",
		".#.#.",
		"..#..",
		".#.#.",
		"#...#",
	)
	frames := td.b.Leds(
		"#.... ....#",
		"..... .....",
		"..... .....",
		"..... .....",
		"..... .....",
	)
	sched := fiber.New()
	td.opts = append(td.opts, core.WithScheduler(sched))
	var times []time.Duration
	var shot core.Word
	td.prog.LinkMain(func(rt *core.Runtime, env []core.Word) {
		img := rt.NewImage(cross)
		rt.ShowImage(img, 0)
		shot = rt.ScreenShot()
		rt.PlotImage(img, 2)
		times = append(times, sched.Now())

		rt.ScrollImage(img, 0, 10)
		times = append(times, sched.Now())
		rt.ScrollImage(img, -5, 10)
		times = append(times, sched.Now())

		rt.ShowLeds(cross, 20)
		times = append(times, sched.Now())
		rt.PlotLeds(cross)
		rt.ShowAnimation(frames, 30)
		times = append(times, sched.Now())
		rt.Release(img)
	})
	rt := td.runtime()
	require.NoError(t, rt.Run(context.Background()))

	assert.Equal(t, []time.Duration{0, 100 * ms, 120 * ms, 140 * ms, 200 * ms}, times)
	assert.Len(t, td.sim.Images, 7)
	assert.Equal(t, "....#\n.....\n.....\n.....\n.....", td.sim.Screen.String(), "last animation frame")

	assert.False(t, rt.IsImageReadOnly(shot))
	assert.Equal(t, 255, rt.ImagePixel(shot, 2, 2))
	assert.Equal(t, 0, rt.ImagePixel(shot, 1, 2))
	assert.Equal(t, hal.ScreenWidth, rt.ImageWidth(shot))
	rt.Release(shot)
	assert.Equal(t, 0, rt.Live())
}

func Test_Image_serial(t *testing.T) {
	td := newTestDevice(t, 0)
	td.in = "1,2\n300, x,7\n"
	rt := td.loaded()

	img := rt.SerialReadImage(2, 3)
	assert.Equal(t, 2, rt.ImageWidth(img))
	assert.Equal(t, 3, rt.ImageHeight(img))
	rt.SerialSendImage(img)
	assert.Equal(t, "1,2\n255,0\n0,0\n", td.out.String(), "missing rows and values are dark")
	rt.Release(img)
}
