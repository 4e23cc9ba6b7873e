package analysis

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constantModel float64

func (c constantModel) Probability(RiskFeatures) float64 { return float64(c) }

func TestAttritionRiskDefaultModel(t *testing.T) {
	f := RiskFeatures{EngagementScore: 75, TenureMonths: 24, ManagerRating: 3.5}

	z := 2.5 - 0.05*75 - 0.02*24 - 0.04*3.5
	expected := 100 / (1 + math.Exp(-z))

	assert.InDelta(t, expected, AttritionRisk(DefaultRiskModel, f), 1e-9)
}

func TestAttritionRiskIsOpenInterval(t *testing.T) {
	tests := []struct {
		name     string
		features RiskFeatures
	}{
		{"fully engaged veteran", RiskFeatures{EngagementScore: 100, TenureMonths: 240, ManagerRating: 5}},
		{"disengaged newcomer", RiskFeatures{EngagementScore: 0, TenureMonths: 0, ManagerRating: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := AttritionRisk(DefaultRiskModel, tt.features)
			assert.Greater(t, risk, 0.0)
			assert.Less(t, risk, 100.0)
		})
	}
}

func TestAttritionRiskDecreasesWithEngagement(t *testing.T) {
	low := AttritionRisk(DefaultRiskModel, RiskFeatures{EngagementScore: 20, TenureMonths: 24, ManagerRating: 3.5})
	high := AttritionRisk(DefaultRiskModel, RiskFeatures{EngagementScore: 90, TenureMonths: 24, ManagerRating: 3.5})
	assert.Greater(t, low, high)
}

func TestAttritionRiskInjectedModel(t *testing.T) {
	assert.InDelta(t, 42.0, AttritionRisk(constantModel(0.42), RiskFeatures{}), 1e-9)
}

func TestAttritionRiskNilModelUsesDefault(t *testing.T) {
	f := RiskFeatures{EngagementScore: 50, TenureMonths: 12, ManagerRating: 4}
	assert.Equal(t, AttritionRisk(DefaultRiskModel, f), AttritionRisk(nil, f))
}

func TestRiskModelStoreLoadDefault(t *testing.T) {
	store := NewRiskModelStore(t.TempDir())

	model, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultRiskModel, model)
}

func TestRiskModelStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewRiskModelStore(dir)

	custom := LogisticRiskModel{Bias: 1, EngagementWeight: -0.1, TenureWeight: -0.01, ManagerRatingWeight: -0.2}
	require.NoError(t, store.Save(custom))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, custom, loaded)
}

func TestRiskModelStorePartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "risk_model.json"), []byte(`{"bias": 3}`), 0644))

	model, err := NewRiskModelStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, 3.0, model.Bias)
	assert.Equal(t, DefaultRiskModel.EngagementWeight, model.EngagementWeight)
}

func TestRiskModelStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "risk_model.json"), []byte(`{not json`), 0644))

	_, err := NewRiskModelStore(dir).Load()
	assert.Error(t, err)
}
