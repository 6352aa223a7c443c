package core

import (
	"time"

	"go.uber.org/zap"

	"github.com/jcorbin/gobitvm/internal/hal"
)

// Option configures a Runtime.
type Option interface{ apply(rt *Runtime) }

// DefaultForeverInterval is how long a forever loop pauses between runs.
const DefaultForeverInterval = 20 * time.Millisecond

type loggerOption struct{ *zap.Logger }
type schedulerOption struct{ Scheduler }
type deviceOption struct{ hal.Device }
type foreverOption time.Duration

// WithLogger sets the logger used for the diagnostic channel and tracing.
func WithLogger(log *zap.Logger) Option { return loggerOption{log} }

// WithScheduler sets the cooperative scheduler fibers run on.
func WithScheduler(sched Scheduler) Option { return schedulerOption{sched} }

// WithDevice sets the hardware abstraction layer.
func WithDevice(dev hal.Device) Option { return deviceOption{dev} }

// WithForeverInterval sets the pause between runs of a forever loop.
func WithForeverInterval(d time.Duration) Option { return foreverOption(d) }

func (o loggerOption) apply(rt *Runtime) {
	if o.Logger != nil {
		rt.log = o.Logger
	}
}

func (o schedulerOption) apply(rt *Runtime) { rt.sched = o.Scheduler }
func (o deviceOption) apply(rt *Runtime)    { rt.dev = o.Device }
func (d foreverOption) apply(rt *Runtime)   { rt.foreverInterval = time.Duration(d) }
