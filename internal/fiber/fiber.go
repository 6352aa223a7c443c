// Package fiber implements a cooperative, non-preemptive scheduler over a
// virtual clock. Each fiber runs on its own goroutine, but only one ever
// holds the baton: a fiber runs until it pauses or finishes, then hands
// control back to the dispatcher, which resumes the next ready fiber or
// advances the clock to the earliest sleeper.
package fiber

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/gobitvm/internal/fault"
)

// Scheduler dispatches fibers. Spawn and Pause may only be called from
// running fibers, or before Run from the goroutine that calls Run.
type Scheduler struct {
	log      *zap.Logger
	limit    time.Duration
	realtime bool

	now    time.Duration
	nextID int
	cur    *fiber
	ready  []*fiber
	sleep  []*fiber
	yield  chan *fiber
	group  errgroup.Group
}

type fiber struct {
	id    int
	name  string
	entry func()
	done  func()

	at   time.Duration
	wake chan bool

	finished bool
	err      error
}

func (f *fiber) String() string { return fmt.Sprintf("%v#%v", f.name, f.id) }

// errReset unwinds a parked fiber when the scheduler stops.
var errReset = errors.New("fiber reset")

// New creates a scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		log:   zap.NewNop(),
		yield: make(chan *fiber),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(s)
		}
	}
	return s
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Spawn creates a ready fiber that runs entry, then done if non-nil. Done
// runs only if entry completes; it does not run for a fiber unwound when the
// scheduler stops.
func (s *Scheduler) Spawn(name string, entry, done func()) {
	s.add(name, s.now, entry, done)
}

// After creates a fiber that becomes ready once d of virtual time passes.
func (s *Scheduler) After(d time.Duration, name string, entry func()) {
	s.add(name, s.now+d, entry, nil)
}

func (s *Scheduler) add(name string, at time.Duration, entry, done func()) {
	s.nextID++
	f := &fiber{
		id:    s.nextID,
		name:  name,
		entry: entry,
		done:  done,
		at:    at,
		wake:  make(chan bool),
	}
	if at <= s.now {
		s.ready = append(s.ready, f)
	} else {
		s.sleeping(f)
	}
	s.group.Go(func() error {
		f.main(s)
		return nil
	})
	s.log.Debug("spawn", zap.Stringer("fiber", f), zap.Duration("at", at))
}

func (f *fiber) main(s *Scheduler) {
	if <-f.wake {
		err := fault.Catch(f.entry)
		if err == nil && f.done != nil {
			err = fault.Catch(f.done)
		}
		if errors.Is(err, errReset) {
			err = nil
		}
		f.err = err
	}
	f.finished = true
	s.yield <- f
}

// Pause parks the current fiber for d of virtual time, letting others run.
func (s *Scheduler) Pause(d time.Duration) {
	f := s.cur
	if f == nil {
		panic("fiber: pause called outside of a running fiber")
	}
	if d < 0 {
		d = 0
	}
	f.at = s.now + d
	s.sleeping(f)
	s.yield <- f
	if !<-f.wake {
		panic(errReset)
	}
}

func (s *Scheduler) sleeping(f *fiber) {
	i := sort.Search(len(s.sleep), func(i int) bool { return s.sleep[i].at > f.at })
	s.sleep = append(s.sleep, nil)
	copy(s.sleep[i+1:], s.sleep[i:])
	s.sleep[i] = f
}

// Run dispatches fibers until none remain, the run limit passes, ctx is
// done, or a fiber faults. Any fibers still parked are then unwound.
func (s *Scheduler) Run(ctx context.Context) (err error) {
	defer s.unwind()
	for {
		if err := ctx.Err(); err != nil {
			s.log.Debug("reset", zap.Duration("now", s.now), zap.Error(err))
			return err
		}

		f := s.next(ctx)
		if f == nil {
			s.log.Debug("idle", zap.Duration("now", s.now))
			return ctx.Err()
		}

		s.cur = f
		f.wake <- true
		f = <-s.yield
		s.cur = nil

		if f.finished {
			s.log.Debug("done", zap.Stringer("fiber", f), zap.Duration("now", s.now))
			if f.err != nil {
				return fmt.Errorf("fiber %v: %w", f, f.err)
			}
		}
	}
}

func (s *Scheduler) next(ctx context.Context) *fiber {
	if len(s.ready) == 0 {
		if len(s.sleep) == 0 {
			return nil
		}
		at := s.sleep[0].at
		if s.limit > 0 && at > s.limit {
			return nil
		}
		if s.realtime && at > s.now {
			timer := time.NewTimer(at - s.now)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
		s.now = at
		i := sort.Search(len(s.sleep), func(i int) bool { return s.sleep[i].at > at })
		s.ready = append(s.ready, s.sleep[:i]...)
		s.sleep = append(s.sleep[:0], s.sleep[i:]...)
	}
	f := s.ready[0]
	s.ready = append(s.ready[:0], s.ready[1:]...)
	return f
}

func (s *Scheduler) unwind() {
	parked := append(s.ready, s.sleep...)
	s.ready, s.sleep = nil, nil
	for _, f := range parked {
		f.wake <- false
		<-s.yield
	}
	s.group.Wait()
	if len(parked) > 0 {
		s.log.Debug("unwound", zap.Int("fibers", len(parked)))
	}
}
