//go:build !ebiten

package ui

import (
	"image-fade/internal/core"
	"image-fade/pkg/field"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(core.Transition, *field.Field, int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// MaxGap is always zero in headless builds.
func (o *Overlay) MaxGap() int { return 0 }

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
