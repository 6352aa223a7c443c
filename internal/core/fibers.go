package core

import (
	"time"

	"go.uber.org/zap"

	"github.com/jcorbin/gobitvm/internal/hal"
)

// InBackground runs an action on a new fiber. The action is retained until
// the fiber completes.
func (rt *Runtime) InBackground(a Word) {
	if a == Null {
		return
	}
	rt.Retain(a)
	rt.sched.Spawn("background",
		func() { rt.RunAction(a) },
		func() { rt.Release(a) })
}

// Forever runs an action on a new fiber, over and over, pausing between
// runs. The action is retained for the lifetime of the device.
func (rt *Runtime) Forever(a Word) {
	if a == Null {
		return
	}
	rt.Retain(a)
	interval := rt.foreverInterval
	rt.sched.Spawn("forever", func() {
		for {
			rt.RunAction(a)
			rt.sched.Pause(interval)
		}
	}, nil)
}

// Pause yields the current fiber for ms milliseconds.
func (rt *Runtime) Pause(ms int) {
	rt.sched.Pause(time.Duration(ms) * time.Millisecond)
}

// OnButtonPressed subscribes an action to clicks of a button.
func (rt *Runtime) OnButtonPressed(button int, a Word) {
	rt.OnButtonPressedExt(button, hal.ButtonEvtClick, a)
}

// OnButtonPressedExt subscribes an action to a button event.
func (rt *Runtime) OnButtonPressedExt(button, event int, a Word) {
	if a == Null {
		return
	}
	rt.listen(hal.EventKey{Source: button, Event: event}, a)
}

// OnPinPressed switches a pin to touch detection and subscribes an action to
// its clicks.
func (rt *Runtime) OnPinPressed(pin int, a Word) {
	if a == Null {
		return
	}
	switch pin {
	case hal.PinP0, hal.PinP1, hal.PinP2:
		rt.dev.Touch(pin)
	}
	rt.listen(hal.EventKey{Source: pin, Event: hal.ButtonEvtClick}, a)
}

// listen replaces any subscription for key with a. The subscription owns a
// reference to its action; each delivered event runs the action on its own
// fiber, holding another reference until that fiber completes.
func (rt *Runtime) listen(key hal.EventKey, a Word) {
	rt.Retain(a)
	rt.dev.Ignore(key)
	if old, ok := rt.subscriptions[key]; ok {
		rt.Release(old)
	}
	rt.subscriptions[key] = a
	rt.dev.Listen(key, func() {
		rt.log.Debug("event", zap.Int("source", key.Source), zap.Int("event", key.Event))
		rt.InBackground(a)
	})
}
