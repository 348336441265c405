package cli

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/tsplib"
)

// Preset is a named solver parameter bundle. Presets trade solution
// quality against runtime; the zero fields of a preset fall back to the
// solver defaults.
type Preset struct {
	Runs           int    `toml:"runs"`
	MoveType       int    `toml:"move_type"`
	MaxTrials      int    `toml:"max_trials"`
	PopulationSize int    `toml:"population_size"`
	Recombination  string `toml:"recombination"`
	PatchingC      int    `toml:"patching_c"`
	PatchingA      int    `toml:"patching_a"`
}

// Params converts the preset into a full parameter set, filling unset
// fields from the defaults.
func (p Preset) Params() tsplib.Params {
	params := tsplib.DefaultParams()
	if p.Runs > 0 {
		params.Runs = p.Runs
	}
	if p.MoveType > 0 {
		params.MoveType = p.MoveType
	}
	if p.MaxTrials > 0 {
		params.MaxTrials = p.MaxTrials
	}
	if p.PopulationSize > 0 {
		params.PopulationSize = p.PopulationSize
	}
	if p.Recombination != "" {
		params.Recombination = tsplib.Recombination(strings.ToUpper(p.Recombination))
	}
	if p.PatchingC > 0 {
		params.PatchingC = p.PatchingC
	}
	if p.PatchingA > 0 {
		params.PatchingA = p.PatchingA
	}
	return params
}

// builtinPresets are the presets shipped with the tool: a single quick
// run for smoke tests, a few runs as the everyday compromise, and a
// larger genetic population for final routes.
var builtinPresets = map[string]Preset{
	"rapid": {
		Runs:           1,
		MaxTrials:      500,
		PopulationSize: 1,
	},
	"balanced": {
		Runs:           5,
		MaxTrials:      1000,
		PopulationSize: 3,
	},
	"quality": {
		Runs:           10,
		MaxTrials:      2000,
		PopulationSize: 5,
	},
}

// loadPresets reads a TOML preset file. Each top-level table is one
// named preset:
//
//	[overnight]
//	runs = 50
//	max_trials = 10000
func loadPresets(path string) (map[string]Preset, error) {
	presets := make(map[string]Preset)
	if _, err := toml.DecodeFile(path, &presets); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParams, err, "preset file %s", path)
	}
	return presets, nil
}

// resolvePreset returns the parameter set for a named preset, looking in
// the user's preset file first when one is given, then in the builtins.
func resolvePreset(name, path string) (tsplib.Params, error) {
	if path != "" {
		presets, err := loadPresets(path)
		if err != nil {
			return tsplib.Params{}, err
		}
		if p, ok := presets[name]; ok {
			return p.Params(), nil
		}
	}
	if p, ok := builtinPresets[name]; ok {
		return p.Params(), nil
	}
	return tsplib.Params{}, errors.New(errors.ErrCodeInvalidParams,
		"unknown preset %q (available: %s)", name, strings.Join(presetNames(), ", "))
}

func presetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
