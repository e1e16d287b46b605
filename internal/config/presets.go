package config

import "sort"

// Presets are named tunings. Each starts from Default and overrides
// only what changes the feel.
var presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"brittle": func(c *Config) {
		// Tears early and leaves ragged edges.
		c.Peel.SnapThreshold = 0.22
		c.Crack.Jaggedness = 0.07
		c.Crack.Step = 0.01
	},
	"stretchy": func(c *Config) {
		// Softer spring, longer pull before detachment.
		c.Peel.SpringK = 10.0
		c.Peel.Damping = 0.85
		c.Peel.DragGain = 1.6
		c.Peel.SnapThreshold = 0.5
	},
	"coarse": func(c *Config) {
		// Low-resolution mask with the cheap bbox area estimate.
		c.Mask.Resolution = 64
		c.Mask.ExactArea = false
	},
}

// GetPreset returns the named preset, or false if it does not exist.
func GetPreset(name string) (Config, bool) {
	apply, ok := presets[name]
	if !ok {
		return Config{}, false
	}
	cfg := Default()
	apply(&cfg)
	return cfg, true
}

// ListPresets returns all preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
