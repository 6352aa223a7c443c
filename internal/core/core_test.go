package core_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobitvm/internal/core"
	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/hal"
	"github.com/jcorbin/gobitvm/internal/image"
	"github.com/jcorbin/gobitvm/internal/logio"
)

// testDevice builds a program and runtime around a simulated device.
type testDevice struct {
	t    *testing.T
	b    *image.Builder
	prog core.Program
	sim  *hal.Sim
	out  bytes.Buffer
	in   string
	logs logLines
	opts []core.Option
	rt   *core.Runtime
}

type logLines struct {
	sync.Mutex
	lines []string
}

func (ll *logLines) logf(mess string, args ...interface{}) {
	ll.Lock()
	defer ll.Unlock()
	ll.lines = append(ll.lines, fmt.Sprintf(mess, args...))
}

func (ll *logLines) String() string {
	ll.Lock()
	defer ll.Unlock()
	return strings.Join(ll.lines, "\n")
}

func newTestDevice(t *testing.T, globals int) *testDevice {
	return &testDevice{t: t, b: image.NewBuilder(globals)}
}

func (td *testDevice) runtime() *core.Runtime {
	if td.rt == nil {
		if td.prog.Image == nil {
			td.prog.Image = td.b.Image()
		}
		td.sim = hal.NewSim(
			hal.WithSerialIn(strings.NewReader(td.in)),
			hal.WithSerialOut(&td.out))
		log := logio.Test(func(mess string, args ...interface{}) {
			td.logs.logf(mess, args...)
			td.t.Logf(mess, args...)
		})
		opts := append([]core.Option{
			core.WithLogger(log),
			core.WithDevice(td.sim),
		}, td.opts...)
		td.rt = core.New(td.prog, opts...)
	}
	return td.rt
}

// loaded returns a runtime whose image is loaded, for calling operations
// outside of any fiber.
func (td *testDevice) loaded() *core.Runtime {
	rt := td.runtime()
	require.NoError(td.t, rt.Load())
	return rt
}

func requireFault(t *testing.T, kind fault.Kind, subcode int, f func()) {
	t.Helper()
	err := fault.Catch(f)
	require.Error(t, err, "expected %v [%v]", kind, subcode)
	require.True(t, errors.Is(err, fault.Fault{Kind: kind, Subcode: subcode}),
		"expected %v [%v], got %v", kind, subcode, err)
}
