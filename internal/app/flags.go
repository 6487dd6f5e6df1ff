package app

import (
	"errors"

	"github.com/spf13/pflag"
)

// Config represents the command-line parameters of the viewer.
type Config struct {
	Transition string
	Start      string
	Goal       string
	Fit        bool
	Scale      int
	TPS        int
	Rate       int
	HUDWidth   int
	Params     map[string]string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Transition: "astar", Scale: 3, TPS: 60, Rate: 30, HUDWidth: 220, Params: map[string]string{}}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Transition, "transition", "t", c.Transition, "transition to run")
	fs.StringVar(&c.Start, "input", c.Start, "start image")
	fs.StringVar(&c.Goal, "output", c.Goal, "goal image")
	fs.BoolVar(&c.Fit, "fit", c.Fit, "resize the goal image to the start image size")
	fs.IntVar(&c.Scale, "zoom", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Rate, "rate", c.Rate, "transition slices per second")
	fs.IntVar(&c.HUDWidth, "hud-width", c.HUDWidth, "width of the stats panel, 0 hides it")
	fs.StringToStringVarP(&c.Params, "param", "p", c.Params, "transition settings as key=value")
}

// Validate reports missing inputs.
func (c *Config) Validate() error {
	if c.Start == "" || c.Goal == "" {
		return errors.New("both --input and --output images are required")
	}
	if c.Scale < 1 {
		c.Scale = 1
	}
	if c.HUDWidth < 0 {
		c.HUDWidth = 0
	}
	return nil
}
