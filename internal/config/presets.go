package config

import "sort"

// Preset names a dataset the dataset selector can switch to.
type Preset struct {
	Path        string
	Description string
}

var Presets = map[string]Preset{
	"landsat": {
		Path:        DefaultDataset,
		Description: "statlog landsat satellite, 36 spectral bands",
	},
	"landsat-sample": {
		Path:        DefaultFallback,
		Description: "bundled landsat subset",
	},
	"iris": {
		Path:        "data/iris.csv",
		Description: "fisher iris measurements",
	},
	"landsat-uci": {
		Path:        "https://archive.ics.uci.edu/static/public/146/landsat.csv",
		Description: "landsat straight from the uci repository",
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

// ListPresets returns preset names in sorted order so the dataset
// selector cycles deterministically.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetFor returns the preset name whose path matches, or "".
func PresetFor(path string) string {
	for _, name := range ListPresets() {
		if Presets[name].Path == path {
			return name
		}
	}
	return ""
}
