package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/Antaniasdasd/ippeint/internal/config"
	"github.com/Antaniasdasd/ippeint/internal/paint"
	"github.com/Antaniasdasd/ippeint/internal/paper"
	"github.com/Antaniasdasd/ippeint/internal/tools/pen"
	"github.com/Antaniasdasd/ippeint/internal/ui"
)

const appID = "io.github.antaniasdasd.ippeint"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ippeint:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "ippeint.toml", "path to the TOML settings file")
	width := flag.Int("width", 0, "paper width in pixels (overrides the config)")
	height := flag.Int("height", 0, "paper height in pixels (overrides the config)")
	zoom := flag.Float64("zoom", 0, "initial zoom factor (overrides the config)")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "zoom":
			cfg.Zoom = *zoom
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	paper.SetLogger(logger)

	policy, err := pen.ParseReentryPolicy(cfg.Reentry)
	if err != nil {
		return err
	}

	p, err := paint.New(cfg.Width, cfg.Height,
		paint.WithZoom(cfg.Zoom),
		paint.WithPrimaryColor(cfg.Primary()),
		paint.WithSecondaryColor(cfg.Secondary()),
		paint.WithToolSize(cfg.ToolSize),
	)
	if err != nil {
		return err
	}
	penTool := pen.New(p, pen.WithReentryPolicy(policy))
	if err := p.RegisterTool(penTool); err != nil {
		return err
	}
	if err := p.ActivateTool(pen.Name); err != nil {
		return err
	}

	a := app.NewWithID(appID)
	w := ui.NewWindow(a, p, "ippeint")

	watcher, err := config.Watch(*configPath, config.DefaultDebounce,
		func(c config.Config) {
			fyne.Do(func() { applyConfig(p, penTool, c, w) })
		},
		func(err error) {
			logger.Warn("config reload failed", "path", *configPath, "err", err)
		},
	)
	if err != nil {
		logger.Warn("config hot reload disabled", "path", *configPath, "err", err)
	} else {
		defer watcher.Stop()
	}

	logger.Info("starting", "width", cfg.Width, "height", cfg.Height, "zoom", cfg.Zoom, "reentry", policy)
	w.ShowAndRun()
	return nil
}

// applyConfig applies the settings that can change while running. Paper
// size and zoom stay under the user's control once the window is up.
func applyConfig(p *paint.Paint, penTool *pen.Pen, c config.Config, w *ui.Window) {
	p.SetPrimaryColor(c.Primary())
	p.SetSecondaryColor(c.Secondary())
	p.SetToolSize(c.ToolSize)
	if policy, err := pen.ParseReentryPolicy(c.Reentry); err == nil {
		penTool.SetPolicy(policy)
	}
	w.SetStatus("Settings reloaded")
}
