//go:build ebiten

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"image-fade/internal/app"
	"image-fade/internal/core"
	"image-fade/internal/imageio"
	_ "image-fade/internal/transitions/astar"
	_ "image-fade/internal/transitions/iterative"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		log.Error("bad arguments", "err", err)
		os.Exit(2)
	}

	factory, err := core.Lookup(cfg.Transition)
	if err != nil {
		log.Error("unknown transition", "err", err)
		os.Exit(2)
	}
	start, goal, err := imageio.LoadPair(cfg.Start, cfg.Goal, cfg.Fit)
	if err != nil {
		log.Error("load images", "err", err)
		os.Exit(1)
	}

	build := func() (core.Transition, error) {
		return factory(start.Clone(), goal, cfg.Params, nil)
	}
	game, err := app.New(context.Background(), build, goal, cfg)
	if err != nil {
		log.Error("start transition", "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("image-fade - " + cfg.Transition)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(start.W*cfg.Scale+cfg.HUDWidth, start.H*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
