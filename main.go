package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Raysphere24/HenonViewer4D/app"
	"github.com/Raysphere24/HenonViewer4D/hal"
	"github.com/Raysphere24/HenonViewer4D/internal/buildinfo"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file.")
		model      = flag.String("model", "", "Mesh file or URL to load at startup (overrides the config).")
		mode       = flag.String("mode", "", "Rotation mode: xzw, xyw or xyz (overrides the config).")
		showVer    = flag.Bool("version", false, "Print version and exit.")
	)
	var headless hal.HeadlessConfig
	var headlessOn bool
	flag.BoolVar(&headlessOn, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&headless.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.Parse()

	if *showVer {
		fmt.Println("HenonViewer4D", buildinfo.String())
		return
	}

	cfg := app.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(*configPath); err != nil {
			fatal(err)
		}
	}
	if *model != "" {
		cfg.Model.Path = *model
	}
	if *mode != "" {
		cfg.Input.Mode = *mode
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if headlessOn {
		cfg.ExitOnFatal = true
		headless.Width, headless.Height = cfg.Window.Width, cfg.Window.Height
		err := hal.RunHeadless(ctx, headless, func(h hal.HAL) func() error {
			return app.New(ctx, h, cfg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			fatal(err)
		}
		return
	}

	win := hal.WindowConfig{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Scale:  cfg.Window.Scale,
		Title:  cfg.Window.Title + " " + buildinfo.Short(),
		Tint:   cfg.Tint(),
	}
	if err := hal.RunWindow(win, func(h hal.HAL) func() error {
		return app.New(ctx, h, cfg)
	}); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
