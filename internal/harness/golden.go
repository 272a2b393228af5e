package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"

	"github.com/roach88/rqlsearch/internal/esdsl"
)

// Snapshot renders a scenario result for golden comparison: the scenario
// name, the join locale and facet flag, and every compiled body, as
// indented JSON with sorted keys.
func Snapshot(name string, result *Result) ([]byte, error) {
	return esdsl.Marshal(map[string]any{
		"scenario_name": name,
		"locale":        result.Locale,
		"with_facets":   result.WithFacets,
		"bodies":        result.Bodies,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden. Failed expectations fail t.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()
	return New(afero.NewOsFs(), nil).RunWithGolden(t, scenario)
}

// RunWithGolden is the harness-bound form of the package-level
// RunWithGolden.
func (h *Harness) RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := h.Run(context.Background(), scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	data, err := Snapshot(scenario.Name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
