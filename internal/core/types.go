package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"image-fade/pkg/field"
	"image-fade/pkg/replay"
)

// ErrUnknownTransition reports a name missing from the registry.
var ErrUnknownTransition = errors.New("unknown transition")

// Size describes the dimensions of a transition's frames.
type Size struct {
	W int
	H int
}

// Transition defines the minimal contract a start-to-goal morph must
// implement. Work is split into slices so a UI loop or CLI driver stays in
// control between them.
type Transition interface {
	Name() string
	Size() Size
	// Advance runs one slice: a search step or one replayed frame. It
	// reports done once the last frame was emitted.
	Advance(ctx context.Context) (done bool, err error)
	// Field returns the most recently emitted frame.
	Field() *field.Field
	Stop()
}

// Factory constructs a Transition from start to goal using an optional
// configuration map. Every produced frame is passed to onFrame, which may be
// nil.
type Factory func(start, goal *field.Field, cfg map[string]string, onFrame replay.FrameFunc) (Transition, error)

var transitions = map[string]Factory{}

// Register adds a transition factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	transitions[name] = f
}

// Transitions exposes the registry of available transition factories.
func Transitions() map[string]Factory {
	return transitions
}

// Names returns the registered transition names in sorted order.
func Names() []string {
	names := make([]string, 0, len(transitions))
	for name := range transitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	f, ok := transitions[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownTransition, name, Names())
	}
	return f, nil
}

// Drive advances t until it is done, ctx ends, or a slice fails.
func Drive(ctx context.Context, t Transition) error {
	for {
		done, err := t.Advance(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
