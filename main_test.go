package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobitvm/internal/core"
	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/hal"
	"github.com/jcorbin/gobitvm/internal/image"
	"github.com/jcorbin/gobitvm/internal/logio"
)

const ms = time.Millisecond

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_loadConfig(t *testing.T) {
	cfg, err := loadConfig(writeFile(t, "bitvm.toml", `
duration = "2s"
forever-interval = "50ms"
trace = true

[[press]]
at = "150ms"
source = "A"

[[press]]
at = "1s"
source = "b"
event = "long-click"
`))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Duration.Duration)
	assert.Equal(t, 50*ms, cfg.ForeverInterval.Duration)
	assert.True(t, cfg.Trace)
	assert.False(t, cfg.Realtime)
	require.Len(t, cfg.Press, 2)

	key, err := cfg.Press[0].key()
	require.NoError(t, err)
	assert.Equal(t, hal.EventKey{Source: hal.ButtonA, Event: hal.ButtonEvtClick}, key)
	key, err = cfg.Press[1].key()
	require.NoError(t, err)
	assert.Equal(t, hal.EventKey{Source: hal.ButtonB, Event: hal.ButtonEvtLongClick}, key)
}

func Test_loadConfig_errors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		err     string
	}{
		{"bad duration", `duration = "soon"`, "parse error"},
		{"unknown key", `speed = 3`, "unknown keys"},
		{"bad source", "[[press]]\nsource = \"C\"", `unknown event source "C"`},
		{"bad event", "[[press]]\nsource = \"A\"\nevent = \"poke\"", `unknown A event "poke"`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "bitvm.toml", tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func testSimulator(t *testing.T, in string, cfg config) (*simulator, *bytes.Buffer) {
	var out bytes.Buffer
	return &simulator{
		config: cfg,
		in:     strings.NewReader(in),
		out:    &out,
		log:    logio.Test(t.Logf),
	}, &out
}

func Test_demo(t *testing.T) {
	prog, _ := buildDemo()
	sim, out := testSimulator(t, "apple\npear\napple\n\n", config{
		Duration: duration{100 * ms},
		Press: []press{
			{At: duration{50 * ms}, Source: "A"},
			{At: duration{90 * ms}, Source: "a"},
		},
	})
	require.NoError(t, sim.run(context.Background(), prog))

	// ticks at 0, 20 and 40 precede the first press; 60 and 80 the second
	assert.Equal(t, "bitvm demo\nwords: 2\npear\npear\n", out.String())
	assert.Equal(t, []string{"pear", "pear"}, sim.dev.Display)
	assert.Equal(t, ".....\n.#.#.\n.....\n#...#\n.###.", sim.dev.Screen.String())
	assert.Equal(t, 6, sim.rt.LoadGlobal(demoCounter).Int())
	assert.Equal(t, 4, sim.rt.Live(), "the words, their collection, and the subscribed closure")
}

func Test_demo_noWords(t *testing.T) {
	prog, _ := buildDemo()
	sim, out := testSimulator(t, "", config{
		Duration: duration{30 * ms},
		Press:    []press{{At: duration{10 * ms}, Source: "A"}},
	})
	require.NoError(t, sim.run(context.Background(), prog))
	assert.Equal(t, "bitvm demo\nwords: 0\n", out.String())
	assert.Equal(t, []string{"?"}, sim.dev.Display)
}

func Test_demo_reboot(t *testing.T) {
	prog, _ := buildDemo()
	sim, _ := testSimulator(t, "x\n", config{
		Press: []press{{At: duration{45 * ms}, Source: "B", Event: "long-click"}},
	})
	require.NoError(t, sim.run(context.Background(), prog), "runs until the reboot")
	assert.Equal(t, 1, sim.dev.Resets)
	assert.Equal(t, hal.NewBitmap(hal.ScreenWidth, hal.ScreenHeight), sim.dev.Screen, "reset clears the screen")
	assert.Equal(t, 3, sim.rt.LoadGlobal(demoCounter).Int())
}

func Test_demo_unlinked(t *testing.T) {
	prog, _ := buildDemo()
	b := image.NewBuilder(demoGlobals)
	prog.Image = b.Image()
	sim, _ := testSimulator(t, "", config{})
	err := sim.run(context.Background(), prog)
	assert.True(t, errors.Is(err, fault.Fault{Kind: fault.ErrInvalidBinaryHeader, Subcode: 7}),
		"literal offsets belong to the demo image, got %v", err)

	prog.Code = map[uint32]core.Code{}
	sim, _ = testSimulator(t, "", config{})
	err = sim.run(context.Background(), prog)
	assert.True(t, errors.Is(err, fault.Fault{Kind: fault.ErrInvalidBinaryHeader, Subcode: 5}), "got %v", err)
}

func Test_demo_dump(t *testing.T) {
	prog, names := buildDemo()
	var out bytes.Buffer
	require.NoError(t, image.Dump(&out, prog.Image, names))
	for _, want := range []string{
		"globals: 2",
		"main: entry @0x21",
		`"bitvm demo": text "bitvm demo"`,
		"tick: action entry",
		"pick: action entry",
		"reboot: action entry",
		"5x5: image 5x5",
	} {
		assert.Contains(t, out.String(), want)
	}
}
