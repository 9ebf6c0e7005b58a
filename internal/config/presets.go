package config

import "sort"

// Presets are named tree settings trading accuracy for speed.
var Presets = map[string]TreeConfig{
	"exact": {
		G: 1, Theta: 0, Limit: 8, StopRule: "count", Order: "quadrupole",
	},
	"accurate": {
		G: 1, Theta: 0.2, Limit: 8, StopRule: "count", Order: "quadrupole",
	},
	"balanced": {
		G: 1, Theta: 0.5, Limit: 8, StopRule: "count", Order: "quadrupole",
	},
	"fast": {
		G: 1, Theta: 1.0, Limit: 16, StopRule: "count", Order: "quadrupole",
	},
	"monopole": {
		G: 1, Theta: 0.5, Limit: 8, StopRule: "count", Order: "monopole",
	},
	"depth8": {
		G: 1, Theta: 0.5, Limit: 8, StopRule: "depth", Order: "quadrupole",
	},
}

// GetPreset returns the default configuration with the named tree settings,
// or nil if there is no such preset.
func GetPreset(name string) *Config {
	tree, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Tree = tree
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
