package fiber_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/fiber"
)

const ms = time.Millisecond

type trace []string

func (tr *trace) add(s *fiber.Scheduler, mess string, args ...interface{}) {
	*tr = append(*tr, fmt.Sprintf("%v %v", s.Now().Milliseconds(), fmt.Sprintf(mess, args...)))
}

func Test_Scheduler_interleave(t *testing.T) {
	var tr trace
	s := fiber.New()
	for _, name := range []string{"a", "b"} {
		name := name
		s.Spawn(name, func() {
			for i := 0; i < 3; i++ {
				tr.add(s, "%v%v", name, i)
				s.Pause(10 * ms)
			}
		}, func() {
			tr.add(s, "%v done", name)
		})
	}
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, trace{
		"0 a0", "0 b0",
		"10 a1", "10 b1",
		"20 a2", "20 b2",
		"30 a done", "30 b done",
	}, tr)
}

func Test_Scheduler_spawnFromFiber(t *testing.T) {
	var tr trace
	s := fiber.New()
	s.Spawn("parent", func() {
		tr.add(s, "parent start")
		s.Spawn("child", func() { tr.add(s, "child") }, nil)
		s.Pause(0)
		tr.add(s, "parent end")
	}, nil)
	s.After(5*ms, "later", func() { tr.add(s, "later") })
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, trace{
		"0 parent start",
		"0 child",
		"0 parent end",
		"5 later",
	}, tr)
}

func Test_Scheduler_limit(t *testing.T) {
	var n int
	var done bool
	s := fiber.New(fiber.WithLimit(100 * ms))
	s.Spawn("forever", func() {
		for {
			n++
			s.Pause(20 * ms)
		}
	}, func() { done = true })
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 6, n, "runs at 0, 20, 40, 60, 80 and 100")
	assert.False(t, done, "unwound fibers do not complete")
	assert.Equal(t, 100*ms, s.Now())
}

func Test_Scheduler_fault(t *testing.T) {
	var reached bool
	s := fiber.New()
	s.Spawn("bad", func() {
		s.Pause(ms)
		fault.Halt(fault.ErrOutOfBounds, 7)
	}, nil)
	s.Spawn("slow", func() {
		s.Pause(time.Second)
		reached = true
	}, nil)
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "fiber bad#1: Error: 8 [7] out of bounds", err.Error())
	assert.Equal(t, fault.ErrOutOfBounds, fault.KindOf(err))
	assert.False(t, reached)
}

func Test_Scheduler_cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n int
	s := fiber.New()
	s.Spawn("forever", func() {
		for {
			if n++; n == 3 {
				cancel()
			}
			s.Pause(ms)
		}
	}, nil)
	assert.Equal(t, context.Canceled, s.Run(ctx))
	assert.Equal(t, 3, n)
}

func Test_Scheduler_pauseOutsideFiber(t *testing.T) {
	s := fiber.New()
	err := fault.Catch(func() { s.Pause(ms) })
	assert.True(t, fault.IsPanic(err))
}
