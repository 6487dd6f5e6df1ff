package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"image-fade/internal/config"
	"image-fade/internal/core"
	"image-fade/internal/imageio"
	"image-fade/internal/termui"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a transition and write the frames as a GIF",
		Long: `Loads the input and output images in grayscale, runs the chosen
transition until the output image is reached and encodes every frame.
Settings come from --config and are overridden by explicit flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cmd.Flags())
			if err != nil {
				return err
			}
			res, err := runMorph(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res.print(cmd.OutOrStdout())
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

type result struct {
	transition string
	width      int
	height     int
	frames     int
	elapsed    time.Duration
	gif        string
	stats      core.ParameterSnapshot
}

func runMorph(ctx context.Context, cfg config.RunConfig, progress io.Writer) (result, error) {
	factory, err := core.Lookup(cfg.Transition)
	if err != nil {
		return result{}, err
	}
	start, goal, err := imageio.LoadPair(cfg.Input, cfg.Output, cfg.Fit)
	if err != nil {
		return result{}, err
	}
	pal := imageio.GrayPalette()
	if cfg.Render.Palette == "plan9" {
		pal = imageio.Plan9Palette()
	}
	bar := termui.NewBar(progress, "frames")
	gw := imageio.NewGIFWriter(
		imageio.WithDelay(cfg.Render.Delay),
		imageio.WithPalette(pal),
		imageio.WithProgress(bar.Update),
	)
	tr, err := factory(start, goal, cfg.TransitionParams(), gw.Frame)
	if err != nil {
		return result{}, err
	}
	slog.Info("transition started", "transition", tr.Name(), "width", start.W, "height", start.H)

	began := time.Now()
	err = core.Drive(ctx, tr)
	bar.Done()
	if err != nil {
		return result{}, fmt.Errorf("%s: %w", tr.Name(), err)
	}
	res := result{
		transition: tr.Name(),
		width:      start.W,
		height:     start.H,
		frames:     gw.Len(),
		elapsed:    time.Since(began),
		gif:        cfg.GIF,
	}
	if p, ok := tr.(core.ParametersProvider); ok {
		res.stats = p.Parameters()
	}
	if cfg.GIF != "" {
		if err := gw.Save(cfg.GIF); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r result) print(w io.Writer) {
	termui.Title(w, r.transition)
	termui.KV(w, "size", fmt.Sprintf("%dx%d", r.width, r.height))
	termui.KV(w, "frames", r.frames)
	termui.KV(w, "elapsed", r.elapsed.Round(time.Millisecond))
	if r.gif != "" {
		termui.KV(w, "gif", r.gif)
	}
	for _, g := range r.stats.Groups {
		if g.Name == "Settings" {
			continue
		}
		fmt.Fprintln(w, termui.Styles.Muted.Render(g.Name))
		for _, p := range g.Params {
			termui.KV(w, "  "+p.Label, p.Value)
		}
	}
}
