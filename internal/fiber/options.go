package fiber

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Scheduler.
type Option interface{ apply(s *Scheduler) }

type loggerOption struct{ *zap.Logger }
type limitOption time.Duration
type realtimeOption bool

// WithLogger sets the scheduler's logger.
func WithLogger(log *zap.Logger) Option { return loggerOption{log} }

// WithLimit stops Run once the virtual clock would pass d.
func WithLimit(d time.Duration) Option { return limitOption(d) }

// WithRealtime makes the virtual clock advance no faster than wall time.
func WithRealtime(on bool) Option { return realtimeOption(on) }

func (o loggerOption) apply(s *Scheduler) {
	if o.Logger != nil {
		s.log = o.Logger.Named("fiber")
	}
}

func (d limitOption) apply(s *Scheduler)     { s.limit = time.Duration(d) }
func (on realtimeOption) apply(s *Scheduler) { s.realtime = bool(on) }
