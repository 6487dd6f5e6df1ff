package astar

import "strconv"

// Config holds parameters for the search-based transitions.
type Config struct {
	// Scale is the sampling stride and the replay block size.
	Scale int
	// Branching is the number of candidate edits kept per pixel.
	Branching int
	// Budget is the number of nodes (or bidirectional rounds) per Advance.
	Budget int
	// TailFade finishes with a unit fade once every gap is within one.
	TailFade bool
	// Settle fades any remaining difference after the path is replayed.
	Settle bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Scale: 1, Branching: 3, Budget: 800, TailFade: true, Settle: true}
}

// FromMap populates a Config from a string map. Unparsable or out of range
// values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["scale"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Scale = parsed
		}
	}
	if v, ok := cfg["branching"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Branching = parsed
		}
	}
	if v, ok := cfg["budget"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Budget = parsed
		}
	}
	if v, ok := cfg["tail"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.TailFade = parsed
		}
	}
	if v, ok := cfg["settle"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Settle = parsed
		}
	}
	return c
}
