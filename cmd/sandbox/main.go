package main

import (
	"log/slog"
	"os"

	"github.com/hubastard/grovegui/engine/core"
	glbackend "github.com/hubastard/grovegui/engine/gfx/gl"
	"github.com/hubastard/grovegui/engine/platform"
	"github.com/spf13/pflag"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "TOML config file")
		scale      = pflag.Float32("scale", 1, "UI pixels per point")
		iconPath   = pflag.String("icon", "", "PNG shown next to the generated icon")
		debug      = pflag.Bool("debug", false, "log at debug level")
	)
	pflag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := core.DefaultConfig()
	if *configPath != "" {
		c, err := core.LoadConfig(*configPath)
		if err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
		cfg = c
	}

	app := &App{scale: *scale, iconPath: *iconPath}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg, nil)
	}
	newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(win, cfg)
	}

	if err := core.Run(app, cfg, newWindow, newRenderer); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}
