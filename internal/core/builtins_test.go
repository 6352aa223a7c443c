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
)

func Test_Text(t *testing.T) {
	td := newTestDevice(t, 0)
	foo := td.b.Text("foo")
	empty := td.b.Text("")
	rt := td.runtime()

	lit := rt.TextLiteral(foo)
	assert.Equal(t, "foo", rt.TextString(lit))
	assert.Equal(t, "", rt.TextString(rt.TextLiteral(empty)))
	assert.Equal(t, "", rt.TextString(core.Null))
	assert.Equal(t, "", rt.TextString(rt.EmptyText()))
	assert.Equal(t, rt.EmptyText(), rt.NewText(nil))

	bar := rt.NewText([]byte("bar"))
	s := rt.Concat(lit, bar)
	assert.Equal(t, "foobar", rt.TextString(s))
	assert.Equal(t, 6, rt.TextCount(s))
	assert.True(t, rt.TextEquals(lit, rt.Substring(s, 0, 3)))

	for _, tc := range []struct {
		i, n int
		want string
	}{
		{0, 6, "foobar"},
		{3, 3, "bar"},
		{4, 10, "ar"},
		{6, 1, ""},
		{-1, 2, ""},
		{2, 0, ""},
		{2, -1, ""},
	} {
		assert.Equal(t, tc.want, rt.TextString(rt.Substring(s, tc.i, tc.n)), "substring(%v, %v)", tc.i, tc.n)
	}

	assert.Equal(t, int('o'), rt.CodeAt(s, 1))
	assert.Equal(t, 0, rt.CodeAt(s, 6))
	assert.Equal(t, 0, rt.CodeAt(s, -1))
	assert.Equal(t, "r", rt.TextString(rt.TextAt(s, 5)))
	assert.Equal(t, "", rt.TextString(rt.TextAt(s, 9)))

	requireFault(t, fault.ErrInvalidBinaryHeader, 7, func() { rt.TextBytes(0x21) })
}

func Test_Text_pinned(t *testing.T) {
	rt := newTestDevice(t, 0).runtime()
	for _, w := range []core.Word{rt.EmptyText(), rt.BoolToText(true), rt.BoolToText(false)} {
		rt.Release(w)
		rt.Release(w)
		rt.Retain(w)
	}
	assert.Equal(t, "true", rt.TextString(rt.BoolToText(true)))
	assert.Equal(t, "false", rt.TextString(rt.BoolToText(false)))
	assert.Equal(t, "", rt.TextString(rt.EmptyText()))
	assert.Equal(t, 0, rt.Live())
}

func Test_TextToNumber(t *testing.T) {
	rt := newTestDevice(t, 0).runtime()
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"42", 42},
		{"-17", -17},
		{"+8", 8},
		{"  12abc", 12},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"99999999999", 2147483647},
		{"-99999999999", -2147483648},
	} {
		s := rt.NewText([]byte(tc.in))
		assert.Equal(t, tc.want, rt.TextToNumber(s), "%q", tc.in)
		rt.Release(s)
	}
}

func Test_NumberToText(t *testing.T) {
	rt := newTestDevice(t, 0).runtime()
	assert.Equal(t, "-123", rt.TextString(rt.NumberToText(-123)))
	assert.Equal(t, "0", rt.TextString(rt.NumberToText(0)))
	assert.Equal(t, "A", rt.TextString(rt.CharToText(65)))
}

func Test_Assert(t *testing.T) {
	td := newTestDevice(t, 0)
	msg := td.b.Text("x must be positive")
	rt := td.runtime()

	require.NoError(t, fault.Catch(func() { rt.Assert(true, msg) }))
	err := fault.Catch(func() { rt.Assert(false, msg) })
	f, ok := fault.As(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, fault.ErrAssertion, f.Kind)
	assert.Equal(t, "x must be positive", f.Message)
}

func Test_Serial(t *testing.T) {
	td := newTestDevice(t, 0)
	td.in = "first line\nsecond\n"
	rt := td.runtime()

	rt.SerialSendText(rt.NewText([]byte("abc")))
	rt.PostToWall([]byte("wall"))
	assert.Equal(t, "abcwall\n", td.out.String())

	assert.Equal(t, "first line", rt.TextString(rt.SerialReadText()))
	assert.Equal(t, "second", rt.TextString(rt.SerialReadText()))
	assert.Equal(t, rt.EmptyText(), rt.SerialReadText(), "nothing left to read")
}

func Test_Display(t *testing.T) {
	td := newTestDevice(t, 0)
	sched := fiber.New()
	td.opts = append(td.opts, core.WithScheduler(sched))
	var done time.Duration
	td.prog.LinkMain(func(rt *core.Runtime, env []core.Word) {
		s := rt.NewText([]byte("hello"))
		rt.ScrollText(s, 10)
		done = sched.Now()
		rt.ScrollText(s, 0)
		rt.ScrollText(rt.EmptyText(), 10)
		rt.Release(s)
		s = rt.NewText([]byte("xyz"))
		rt.ShowLetter(s)
		rt.Release(s)
		rt.ShowLetter(rt.EmptyText())
	})
	rt := td.runtime()
	require.NoError(t, rt.Run(context.Background()))
	assert.Equal(t, []string{"hello", "hello", "", "x"}, td.sim.Display)
	assert.Equal(t, 350*ms, done, "scrolling waits for the text to pass")
	assert.Equal(t, 350*ms, sched.Now(), "empty texts and zero delays do not wait")
	assert.Equal(t, 0, rt.Live())
}
