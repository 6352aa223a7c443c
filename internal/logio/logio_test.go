package logio_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jcorbin/gobitvm/internal/logio"
)

func Test_Writer(t *testing.T) {
	var lines []string
	lw := &logio.Writer{Logf: func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}}

	fmt.Fprintf(lw, "one\ntw")
	assert.Equal(t, []string{"one"}, lines, "partial lines are held")
	fmt.Fprintf(lw, "o\nthree")
	assert.Equal(t, []string{"one", "two"}, lines)
	require.NoError(t, lw.Sync())
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func Test_New(t *testing.T) {
	var buf bytes.Buffer
	log := logio.New(&buf, zapcore.InfoLevel, false)
	log.Debug("hidden")
	log.Error("Error: 8 [7]", zap.Int("kind", 8), zap.Int("subcode", 7))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"Error: 8 [7]"`)
	assert.Contains(t, out, `"subcode":7`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func Test_Test(t *testing.T) {
	var lines []string
	log := logio.Test(func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	})
	log.Debug("call", zap.Uint32("entry", 0x21))
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "DEBUG")
	assert.Contains(t, lines[0], "call")
	assert.Contains(t, lines[0], `"entry": 33`)
}
