package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/jcorbin/gobitvm/internal/core"
	"github.com/jcorbin/gobitvm/internal/image"
	"github.com/jcorbin/gobitvm/internal/logio"
)

func main() {
	ctx := context.Background()

	var (
		configPath string
		dump       bool
		demo       bool
		writeDemo  string
		flags      config
	)
	flag.StringVar(&configPath, "config", "", "load device configuration from a TOML file")
	flag.BoolVar(&dump, "dump", false, "print the image layout instead of running it")
	flag.BoolVar(&demo, "demo", false, "use the built-in demo image")
	flag.StringVar(&writeDemo, "write-demo", "", "write the demo image to a file and exit")
	flag.DurationVar(&flags.Duration.Duration, "duration", 0, "stop after this much virtual time")
	flag.DurationVar(&flags.Timeout.Duration, "timeout", 0, "stop after this much wall time")
	flag.DurationVar(&flags.ForeverInterval.Duration, "forever-interval", core.DefaultForeverInterval, "pause between runs of forever loops")
	flag.BoolVar(&flags.Realtime, "realtime", false, "advance virtual time no faster than wall time")
	flag.BoolVar(&flags.Trace, "trace", false, "enable trace logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] IMAGE\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	prog, names := buildDemo()
	if writeDemo != "" {
		if err := os.WriteFile(writeDemo, prog.Image, 0o644); err != nil {
			fail(err)
		}
		return
	}

	cfg := config{ForeverInterval: duration{core.DefaultForeverInterval}}
	if configPath != "" {
		var err error
		if cfg, err = loadConfig(configPath); err != nil {
			fail(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = flags.Duration
		case "timeout":
			cfg.Timeout = flags.Timeout
		case "forever-interval":
			cfg.ForeverInterval = flags.ForeverInterval
		case "realtime":
			cfg.Realtime = flags.Realtime
		case "trace":
			cfg.Trace = flags.Trace
		}
	})

	if !demo {
		if flag.NArg() != 1 {
			flag.Usage()
			os.Exit(2)
		}
		img, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fail(err)
		}
		prog.Image, names = image.Image(img), nil
	}

	if dump {
		if err := image.Dump(os.Stdout, prog.Image, names); err != nil {
			fail(err)
		}
		return
	}

	level := zapcore.InfoLevel
	if cfg.Trace {
		level = zapcore.DebugLevel
	}
	log := logio.New(os.Stderr, level, term.IsTerminal(int(os.Stderr.Fd())))
	defer log.Sync()

	if cfg.Timeout.Duration != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout.Duration)
		defer cancel()
	}

	sim := simulator{config: cfg, in: os.Stdin, out: os.Stdout, log: log}
	if err := sim.run(ctx, prog); err != nil {
		log.Sync()
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
	os.Exit(1)
}
