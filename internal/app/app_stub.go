//go:build !ebiten

package app

import (
	"context"
	"errors"

	"image-fade/internal/core"
	"image-fade/pkg/field"
)

// ErrNoGUI reports a headless build.
var ErrNoGUI = errors.New("app: the viewer requires building with the 'ebiten' tag")

// Builder creates a fresh transition; the viewer calls it again on restart.
type Builder func() (core.Transition, error)

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New always fails in the headless build.
func New(context.Context, Builder, *field.Field, *Config) (*Game, error) {
	return nil, ErrNoGUI
}

// Reset always reports that the GUI build tag is missing.
func (g *Game) Reset() error { return ErrNoGUI }

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error { return ErrNoGUI }

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
