package config

import (
	"github.com/spf13/pflag"
)

// flagKeys maps command line flags onto RunConfig keys.
var flagKeys = map[string]string{
	"input":      "input",
	"output":     "output",
	"gif":        "gif",
	"transition": "transition",
	"fit":        "fit",
	"scale":      "search.scale",
	"branching":  "search.branching",
	"budget":     "search.budget",
	"tail-fade":  "search.tail_fade",
	"settle":     "search.settle",
	"iterations": "iterative.iterations",
	"min-change": "iterative.min_change",
	"delay":      "render.delay",
	"palette":    "render.palette",
}

// RegisterFlags adds the --config flag and one override flag per setting.
// Defaults shown in help come from Default.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP("config", "c", "", "YAML run file")
	fs.StringP("input", "i", d.Input, "start image")
	fs.StringP("output", "o", d.Output, "goal image")
	fs.String("gif", d.GIF, "animated GIF to write")
	fs.StringP("transition", "t", d.Transition, "transition to run")
	fs.Bool("fit", d.Fit, "resize the goal image to the start image size")
	fs.Int("scale", d.Search.Scale, "search sampling stride and replay block size")
	fs.Int("branching", d.Search.Branching, "candidate edits kept per pixel")
	fs.Int("budget", d.Search.Budget, "nodes expanded per search step")
	fs.Bool("tail-fade", d.Search.TailFade, "finish with a unit fade once every pixel is within one step")
	fs.Bool("settle", d.Search.Settle, "fade pixels the path left short of the goal")
	fs.Int("iterations", d.Iterative.Iterations, "frame cap of the iterative transitions")
	fs.Float64("min-change", d.Iterative.MinChange, "fraction of pixels still more than one unit apart below which biiterative jumps to the end")
	fs.Int("delay", d.Render.Delay, "GIF frame delay in hundredths of a second")
	fs.String("palette", d.Render.Palette, "GIF palette: gray or plan9")
}

// Resolve loads the file named by --config and applies every flag the user
// set explicitly on top of it.
func Resolve(fs *pflag.FlagSet) (RunConfig, error) {
	path, err := fs.GetString("config")
	if err != nil {
		return RunConfig{}, err
	}
	c, err := Load(path)
	if err != nil {
		return c, err
	}
	var setErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || setErr != nil {
			return
		}
		setErr = c.Set(key, f.Value.String())
	})
	if setErr != nil {
		return c, setErr
	}
	return c, c.Validate()
}
