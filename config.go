package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jcorbin/gobitvm/internal/hal"
)

// config is the simulated device configuration, loaded from a TOML file and
// overridden by any command line flags.
type config struct {
	Duration        duration `toml:"duration"`
	Timeout         duration `toml:"timeout"`
	ForeverInterval duration `toml:"forever-interval"`
	Realtime        bool     `toml:"realtime"`
	Trace           bool     `toml:"trace"`
	Press           []press  `toml:"press"`
}

// press schedules a simulated button or pin event.
type press struct {
	At     duration `toml:"at"`
	Source string   `toml:"source"`
	Event  string   `toml:"event"`
}

type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var sourceNames = map[string]int{
	"a":  hal.ButtonA,
	"b":  hal.ButtonB,
	"ab": hal.ButtonAB,
	"p0": hal.PinP0,
	"p1": hal.PinP1,
	"p2": hal.PinP2,
}

var eventNames = map[string]int{
	"":             hal.ButtonEvtClick,
	"down":         hal.ButtonEvtDown,
	"up":           hal.ButtonEvtUp,
	"click":        hal.ButtonEvtClick,
	"long-click":   hal.ButtonEvtLongClick,
	"hold":         hal.ButtonEvtHold,
	"double-click": hal.ButtonEvtDoubleClick,
}

func (p press) key() (key hal.EventKey, err error) {
	var ok bool
	if key.Source, ok = sourceNames[strings.ToLower(p.Source)]; !ok {
		return key, fmt.Errorf("unknown event source %q", p.Source)
	}
	if key.Event, ok = eventNames[strings.ToLower(p.Event)]; !ok {
		return key, fmt.Errorf("unknown %v event %q", p.Source, p.Event)
	}
	return key, nil
}

func loadConfig(path string) (cfg config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return cfg, fmt.Errorf("unknown keys in %s: %v", path, undec)
	}
	for i, p := range cfg.Press {
		if _, err := p.key(); err != nil {
			return cfg, fmt.Errorf("%s press[%d]: %w", path, i, err)
		}
	}
	return cfg, nil
}
