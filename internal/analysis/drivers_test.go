package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineSeries builds a theme whose engagement is exactly slope*theme + 10.
func lineSeries(id string, slope float64) ThemeSeries {
	theme := []float64{1, 2, 3, 4, 5}
	engagement := make([]float64, len(theme))
	for i, v := range theme {
		engagement[i] = slope*v + 10
	}
	return ThemeSeries{ThemeID: id, ThemeName: "Theme " + id, ThemeScores: theme, EngagementScores: engagement}
}

func TestAnalyzeDriversSortsByImpact(t *testing.T) {
	drivers := AnalyzeDrivers([]ThemeSeries{
		lineSeries("growth", 0.3),
		lineSeries("management", 0.8),
	})

	require.Len(t, drivers, 2)
	assert.Equal(t, "management", drivers[0].ThemeID)
	assert.InDelta(t, 0.8, drivers[0].Impact, 1e-9)
	assert.Equal(t, "growth", drivers[1].ThemeID)
	assert.InDelta(t, 0.3, drivers[1].Impact, 1e-9)
}

func TestAnalyzeDriversFields(t *testing.T) {
	drivers := AnalyzeDrivers([]ThemeSeries{lineSeries("culture", 2)})

	require.Len(t, drivers, 1)
	d := drivers[0]
	assert.Equal(t, "Theme culture", d.ThemeName)
	assert.InDelta(t, 1.0, d.Correlation, 1e-9)
	assert.InDelta(t, 2.0, d.Impact, 1e-9)
	assert.InDelta(t, 3.0, d.Performance, 1e-9)
}

func TestAnalyzeDriversStableTies(t *testing.T) {
	drivers := AnalyzeDrivers([]ThemeSeries{
		lineSeries("first", 0.5),
		lineSeries("top", 1.0),
		lineSeries("second", 0.5),
		lineSeries("third", 0.5),
	})

	ids := make([]string, len(drivers))
	for i, d := range drivers {
		ids[i] = d.ThemeID
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, ids)
}

func TestAnalyzeDriversDegenerateSeries(t *testing.T) {
	drivers := AnalyzeDrivers([]ThemeSeries{
		{ThemeID: "mismatch", ThemeScores: []float64{1, 2, 3}, EngagementScores: []float64{1}},
		{ThemeID: "empty"},
	})

	require.Len(t, drivers, 2)
	for _, d := range drivers {
		assert.Equal(t, 0.0, d.Correlation)
		assert.Equal(t, 0.0, d.Impact)
	}
	assert.Equal(t, "mismatch", drivers[0].ThemeID)
	assert.InDelta(t, 2.0, drivers[0].Performance, 1e-9)
	assert.Equal(t, 0.0, drivers[1].Performance)
}

func TestAnalyzeDriversEmpty(t *testing.T) {
	assert.Empty(t, AnalyzeDrivers(nil))
}
