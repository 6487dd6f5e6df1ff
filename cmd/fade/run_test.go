package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-fade/internal/config"
	"image-fade/internal/core"
)

func writeGray(t *testing.T, path string, w, h int, fill func(x, y int) uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill(x, y)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func fixture(t *testing.T) config.RunConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input = filepath.Join(dir, "a.png")
	cfg.Output = filepath.Join(dir, "b.png")
	cfg.GIF = filepath.Join(dir, "out.gif")
	writeGray(t, cfg.Input, 3, 3, func(x, y int) uint8 { return uint8(10 * (x + 3*y)) })
	writeGray(t, cfg.Output, 3, 3, func(x, y int) uint8 { return uint8(80 - 10*(x+3*y)) })
	return cfg
}

func TestRunMorphWritesGIF(t *testing.T) {
	for _, name := range core.Names() {
		t.Run(name, func(t *testing.T) {
			cfg := fixture(t)
			cfg.Transition = name
			cfg.Search.Budget = 50

			var progress bytes.Buffer
			res, err := runMorph(context.Background(), cfg, &progress)
			require.NoError(t, err)
			assert.Equal(t, name, res.transition)
			assert.Positive(t, res.frames)
			// Progress is only drawn on terminals.
			assert.Empty(t, progress.String())

			fh, err := os.Open(cfg.GIF)
			require.NoError(t, err)
			defer fh.Close()
			anim, err := gif.DecodeAll(fh)
			require.NoError(t, err)
			assert.Len(t, anim.Image, res.frames)

			// The last frame is the goal image.
			last := anim.Image[len(anim.Image)-1]
			assert.Equal(t, color.Gray{Y: 0}, color.GrayModel.Convert(last.At(2, 2)))
			assert.Equal(t, color.Gray{Y: 80}, color.GrayModel.Convert(last.At(0, 0)))

			var out bytes.Buffer
			res.print(&out)
			assert.Contains(t, out.String(), "frames:")
		})
	}
}

func TestRunMorphUnknownTransition(t *testing.T) {
	cfg := fixture(t)
	cfg.Transition = "warp"
	_, err := runMorph(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrUnknownTransition)
}

func TestRunMorphCancelled(t *testing.T) {
	cfg := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runMorph(ctx, cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(cfg.GIF)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newListCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	for _, name := range []string{"astar", "biastar", "iterative", "biiterative"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("debug"))
	assert.Error(t, setupLogging("loud"))
	require.NoError(t, setupLogging("warn"))
}
