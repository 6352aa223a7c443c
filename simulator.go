package main

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/jcorbin/gobitvm/internal/core"
	"github.com/jcorbin/gobitvm/internal/fiber"
	"github.com/jcorbin/gobitvm/internal/hal"
)

// simulator runs a program on a simulated device.
type simulator struct {
	config
	in  io.Reader
	out io.Writer
	log *zap.Logger

	dev *hal.Sim
	rt  *core.Runtime
}

func (sim *simulator) run(ctx context.Context, prog core.Program) error {
	log := sim.log
	if log == nil {
		log = zap.NewNop()
	}

	sched := fiber.New(
		fiber.WithLogger(log),
		fiber.WithLimit(sim.Duration.Duration),
		fiber.WithRealtime(sim.Realtime))
	sim.dev = hal.NewSim(
		hal.WithLogger(log),
		hal.WithSerialIn(sim.in),
		hal.WithSerialOut(sim.out))

	opts := []core.Option{
		core.WithLogger(log),
		core.WithScheduler(sched),
		core.WithDevice(sim.dev),
	}
	if d := sim.ForeverInterval.Duration; d > 0 {
		opts = append(opts, core.WithForeverInterval(d))
	}
	sim.rt = core.New(prog, opts...)

	for _, p := range sim.Press {
		key, err := p.key()
		if err != nil {
			return err
		}
		sched.After(p.At.Duration, "press", func() {
			if !sim.dev.Emit(key) {
				log.Debug("unheard press", zap.Int("source", key.Source), zap.Int("event", key.Event))
			}
		})
	}
	logPresses(log, sim.Press)

	return sim.rt.Run(ctx)
}

// logPresses names scheduled events in the trace log.
func logPresses(log *zap.Logger, presses []press) {
	for _, p := range presses {
		log.Debug("scheduled press",
			zap.Duration("at", p.At.Duration),
			zap.String("source", p.Source),
			zap.String("event", p.Event))
	}
}
