package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/routelab/geotour/pkg/errors"
	"github.com/routelab/geotour/pkg/tsplib"
)

func TestBuiltinPresets(t *testing.T) {
	// rapid trades quality for runtime: a single run, no genetic phase.
	params, err := resolvePreset("rapid", "")
	if err != nil {
		t.Fatalf("resolvePreset(rapid): %v", err)
	}
	if params.Runs != 1 || params.MaxTrials != 500 || params.PopulationSize != 1 {
		t.Errorf("rapid = %+v", params)
	}
	// Untouched fields keep their defaults.
	if params.MoveType != 5 || params.PatchingC != 3 {
		t.Errorf("rapid should inherit defaults, got %+v", params)
	}

	params, err = resolvePreset("balanced", "")
	if err != nil {
		t.Fatalf("resolvePreset(balanced): %v", err)
	}
	if params.Runs != 5 || params.MaxTrials != 1000 || params.PopulationSize != 3 {
		t.Errorf("balanced = %+v", params)
	}

	params, err = resolvePreset("quality", "")
	if err != nil {
		t.Fatalf("resolvePreset(quality): %v", err)
	}
	if params.Runs != 10 || params.MaxTrials != 2000 || params.PopulationSize != 5 {
		t.Errorf("quality = %+v", params)
	}
}

func TestResolvePresetUnknown(t *testing.T) {
	_, err := resolvePreset("turbo", "")
	if !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("code = %v, want VALIDATION_PARAMS", errors.GetCode(err))
	}
}

func TestLoadPresetsFromFile(t *testing.T) {
	content := `[overnight]
runs = 50
max_trials = 10000
population_size = 8
recombination = "gpx2"
`
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	params, err := resolvePreset("overnight", path)
	if err != nil {
		t.Fatalf("resolvePreset(overnight): %v", err)
	}
	if params.Runs != 50 || params.MaxTrials != 10000 || params.PopulationSize != 8 {
		t.Errorf("overnight = %+v", params)
	}
	if params.Recombination != tsplib.RecombGPX2 {
		t.Errorf("recombination = %q, names are case-insensitive", params.Recombination)
	}

	// Builtins stay reachable alongside a preset file.
	if _, err := resolvePreset("rapid", path); err != nil {
		t.Errorf("builtin preset should resolve with a file present: %v", err)
	}
}

func TestLoadPresetsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := resolvePreset("anything", path)
	if !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("code = %v, want VALIDATION_PARAMS", errors.GetCode(err))
	}
}
