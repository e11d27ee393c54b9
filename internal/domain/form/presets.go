package form

import (
	"fmt"
	"sort"
)

// Demonstration presets.
const (
	PresetSample1 = "sample-1"
	PresetSample2 = "sample-2"
)

var presets = map[string]Record{
	PresetSample1: {
		Inputs:  Inputs{Age: "62", RestingBP: "140", Cholesterol: "268", MaxHeartRate: "160", STDepression: "3.6"},
		Choices: Choices{Vessels: 2, Thal: 2},
	},
	PresetSample2: {
		Inputs:  Inputs{Age: "71", RestingBP: "112", Cholesterol: "149", MaxHeartRate: "125", STDepression: "1.6"},
		Choices: Choices{RestingECG: 1, STSlope: 1, Thal: 2},
	},
}

// Preset returns the named demonstration record.
func Preset(name string) (Record, error) {
	r, ok := presets[name]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return r, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
