// Package config loads the YAML run file of the fade command and merges
// command line overrides into it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a configuration that cannot be run.
var ErrInvalid = errors.New("config: invalid")

// RunConfig describes one morph run.
type RunConfig struct {
	// Input is the start image and Output the goal image.
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	// GIF is where the animation is written.
	GIF        string `yaml:"gif"`
	Transition string `yaml:"transition"`
	// Fit resamples the goal to the start's size when they differ.
	Fit bool `yaml:"fit"`

	Search    SearchConfig    `yaml:"search"`
	Iterative IterativeConfig `yaml:"iterative"`
	Render    RenderConfig    `yaml:"render"`
}

// SearchConfig holds the settings of the search-based transitions.
type SearchConfig struct {
	Scale     int  `yaml:"scale"`
	Branching int  `yaml:"branching"`
	Budget    int  `yaml:"budget"`
	TailFade  bool `yaml:"tail_fade"`
	Settle    bool `yaml:"settle"`
}

// IterativeConfig holds the settings of the iterative transitions.
type IterativeConfig struct {
	Iterations int     `yaml:"iterations"`
	MinChange  float64 `yaml:"min_change"`
}

// RenderConfig controls the GIF output.
type RenderConfig struct {
	// Delay between frames in hundredths of a second.
	Delay int `yaml:"delay"`
	// Palette is "gray" or "plan9".
	Palette string `yaml:"palette"`
}

// Default returns the configuration used when no file is given.
func Default() RunConfig {
	return RunConfig{
		GIF:        "out.gif",
		Transition: "astar",
		Search:     SearchConfig{Scale: 1, Branching: 3, Budget: 800, TailFade: true, Settle: true},
		Iterative:  IterativeConfig{Iterations: 100, MinChange: 0.15},
		Render:     RenderConfig{Delay: 5, Palette: "gray"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (RunConfig, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("load config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Validate reports settings no transition can run with.
func (c RunConfig) Validate() error {
	switch {
	case c.Input == "" || c.Output == "":
		return fmt.Errorf("%w: input and output images are required", ErrInvalid)
	case c.Transition == "":
		return fmt.Errorf("%w: transition is empty", ErrInvalid)
	case c.Search.Scale < 1 || c.Search.Branching < 1 || c.Search.Budget < 1:
		return fmt.Errorf("%w: search scale, branching and budget must be positive", ErrInvalid)
	case c.Iterative.Iterations < 1:
		return fmt.Errorf("%w: iterations must be positive", ErrInvalid)
	case c.Iterative.MinChange < 0 || c.Iterative.MinChange > 1:
		return fmt.Errorf("%w: min_change must be within [0, 1]", ErrInvalid)
	case c.Render.Delay < 0:
		return fmt.Errorf("%w: negative frame delay", ErrInvalid)
	case c.Render.Palette != "gray" && c.Render.Palette != "plan9":
		return fmt.Errorf("%w: unknown palette %q", ErrInvalid, c.Render.Palette)
	}
	return nil
}

// TransitionParams renders the transition settings in the string map form
// the transition factories accept.
func (c RunConfig) TransitionParams() map[string]string {
	return map[string]string{
		"scale":      strconv.Itoa(c.Search.Scale),
		"branching":  strconv.Itoa(c.Search.Branching),
		"budget":     strconv.Itoa(c.Search.Budget),
		"tail":       strconv.FormatBool(c.Search.TailFade),
		"settle":     strconv.FormatBool(c.Search.Settle),
		"iterations": strconv.Itoa(c.Iterative.Iterations),
		"min_change": strconv.FormatFloat(c.Iterative.MinChange, 'f', -1, 64),
	}
}

// Set assigns the value at a dotted key such as "search.scale".
func (c *RunConfig) Set(key, value string) error {
	var err error
	switch key {
	case "input":
		c.Input = value
	case "output":
		c.Output = value
	case "gif":
		c.GIF = value
	case "transition":
		c.Transition = value
	case "fit":
		c.Fit, err = strconv.ParseBool(value)
	case "search.scale":
		c.Search.Scale, err = strconv.Atoi(value)
	case "search.branching":
		c.Search.Branching, err = strconv.Atoi(value)
	case "search.budget":
		c.Search.Budget, err = strconv.Atoi(value)
	case "search.tail_fade":
		c.Search.TailFade, err = strconv.ParseBool(value)
	case "search.settle":
		c.Search.Settle, err = strconv.ParseBool(value)
	case "iterative.iterations":
		c.Iterative.Iterations, err = strconv.Atoi(value)
	case "iterative.min_change":
		c.Iterative.MinChange, err = strconv.ParseFloat(value, 64)
	case "render.delay":
		c.Render.Delay, err = strconv.Atoi(value)
	case "render.palette":
		c.Render.Palette = value
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, value, err)
	}
	return nil
}
