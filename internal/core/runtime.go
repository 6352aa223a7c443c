package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/fiber"
	"github.com/jcorbin/gobitvm/internal/hal"
	"github.com/jcorbin/gobitvm/internal/image"
	"github.com/jcorbin/gobitvm/internal/mem"
)

// Code is compiled code linked at an image entry point. Env holds the
// captured slots of the closure being run, and is nil for direct calls.
type Code func(rt *Runtime, env []Word)

// Program is a compiled image together with the code linked into it.
type Program struct {
	Image image.Image
	Code  map[uint32]Code
}

// LinkMain links the code run by the bootstrap.
func (prog *Program) LinkMain(code Code) { prog.link(image.MainEntry, code) }

// LinkEntry links the code following the action entry header at off.
func (prog *Program) LinkEntry(off uint32, code Code) { prog.link(image.EntryPoint(off), code) }

func (prog *Program) link(entry uint32, code Code) {
	if prog.Code == nil {
		prog.Code = make(map[uint32]Code)
	}
	prog.Code[entry] = code
}

// Scheduler is the cooperative task collaborator.
type Scheduler interface {
	// Spawn creates a new fiber running entry, then done, if non-nil.
	Spawn(name string, entry, done func())

	// Pause yields the current fiber for the given virtual duration.
	Pause(d time.Duration)

	// Run dispatches fibers until none remain, any run limit passes, or
	// ctx is done.
	Run(ctx context.Context) error
}

// Runtime is the state of one running device: the heap, the loaded image and
// its global table, and the collaborators the runtime calls out to.
type Runtime struct {
	Heap

	prog       Program
	loaded     bool
	numGlobals int
	globals    mem.Words

	log   *zap.Logger
	sched Scheduler
	dev   hal.Device

	foreverInterval time.Duration
	subscriptions   map[hal.EventKey]Word
	cancel          context.CancelFunc

	emptyText Word
	trueText  Word
	falseText Word
}

// New creates a runtime for prog.
func New(prog Program, opts ...Option) *Runtime {
	rt := &Runtime{
		prog:            prog,
		log:             zap.NewNop(),
		foreverInterval: DefaultForeverInterval,
		subscriptions:   make(map[hal.EventKey]Word),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(rt)
		}
	}
	if rt.sched == nil {
		rt.sched = fiber.New(fiber.WithLogger(rt.log))
	}
	if rt.dev == nil {
		rt.dev = hal.NewSim(hal.WithLogger(rt.log))
	}
	rt.emptyText = rt.pin(&Text{})
	rt.trueText = rt.pin(&Text{data: []byte("true")})
	rt.falseText = rt.pin(&Text{data: []byte("false")})
	return rt
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *zap.Logger { return rt.log }

// Image returns the loaded image.
func (rt *Runtime) Image() image.Image { return rt.prog.Image }

// Device returns the hardware abstraction layer.
func (rt *Runtime) Device() hal.Device { return rt.dev }

// NumGlobals returns the size of the global table, which is 0 until the
// image is loaded.
func (rt *Runtime) NumGlobals() int { return rt.numGlobals }

// Globals returns a copy of the global table.
func (rt *Runtime) Globals() []Word {
	buf := make([]uint32, rt.numGlobals)
	if err := rt.globals.LoadInto(0, buf); err != nil {
		fault.Haltf(fault.ErrOutOfBounds, 7, "%v", err)
	}
	globals := make([]Word, len(buf))
	for i, w := range buf {
		globals[i] = Word(w)
	}
	return globals
}

// Load validates the image header and allocates the global table, without
// running any code. It is called by Run if needed.
func (rt *Runtime) Load() error {
	return rt.report(fault.Catch(rt.load))
}

func (rt *Runtime) load() {
	if rt.loaded {
		return
	}
	hdr, err := rt.prog.Image.Header()
	if err != nil {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 1, "%v", err)
	}
	if hdr.Version != image.Version {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 0,
			"version %#x, expected %#x", hdr.Version, image.Version)
	}
	rt.numGlobals = int(hdr.Globals)
	rt.globals.Reset()
	rt.globals.Limit = uint(rt.numGlobals)
	rt.loaded = true
	rt.log.Debug("loaded image",
		zap.Int("size", len(rt.prog.Image)),
		zap.Int("globals", rt.numGlobals))
}

// Run loads the image and transfers control to its main entry, then
// dispatches fibers until the program is done. A fatal fault is reported
// on the diagnostic channel and returned; ending ctx resets the device and
// is not an error.
func (rt *Runtime) Run(ctx context.Context) error {
	ctx, rt.cancel = context.WithCancel(ctx)
	defer rt.cancel()

	err := fault.Recover("bitvm", func() error {
		rt.log.Info("start!")
		rt.load()
		rt.sched.Spawn("main", func() { rt.call(image.MainEntry, nil) }, nil)
		return rt.sched.Run(ctx)
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err == nil {
		rt.shutdown()
	}
	return rt.report(err)
}

func (rt *Runtime) shutdown() {
	rt.log.Info("stop main")
	if err := rt.dev.Close(); err != nil {
		rt.log.Warn("device close failed", zap.Error(err))
	}
	if ce := rt.log.Check(zap.DebugLevel, "global"); ce != nil {
		rt.globals.Each(func(addr uint, val uint32) {
			rt.log.Debug("global", zap.Uint("index", addr), zap.Stringer("value", Word(val)))
		})
	}
	if n := rt.Live(); n > 0 {
		rt.log.Info("live objects at shutdown", zap.Int("count", n))
		rt.Each(func(w Word, obj Object, refs int) {
			rt.log.Debug("live", zap.Stringer("ref", w), zap.String("type", typeName(obj)), zap.Int("refs", refs))
		})
	}
}

// report writes any fault to the diagnostic channel, returning err.
func (rt *Runtime) report(err error) error {
	if f, ok := fault.As(err); ok {
		rt.log.Error(f.Error(),
			zap.Int("kind", int(f.Kind)),
			zap.Int("subcode", f.Subcode))
	} else if err != nil {
		rt.log.Error("halted", zap.Error(err))
	}
	return err
}

// call transfers control to linked code at a callable entry address.
func (rt *Runtime) call(entry uint32, env []Word) {
	if entry&image.ThumbBit == 0 {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 5, "entry @%#x is not callable", entry)
	}
	code := rt.prog.Code[entry]
	if code == nil {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 5, "no code linked @%#x", entry)
	}
	if ce := rt.log.Check(zap.DebugLevel, "call"); ce != nil {
		ce.Write(zap.Uint32("entry", entry), zap.Int("env", len(env)))
	}
	code(rt, env)
}
