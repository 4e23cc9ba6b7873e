package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const riskModelFile = "risk_model.json"

// RiskModelStore persists logistic risk coefficients as JSON under a data directory.
type RiskModelStore struct {
	dataDir string
}

// NewRiskModelStore creates a store rooted at dataDir.
func NewRiskModelStore(dataDir string) *RiskModelStore {
	return &RiskModelStore{dataDir: dataDir}
}

// Path returns the coefficient file location.
func (s *RiskModelStore) Path() string {
	return filepath.Join(s.dataDir, riskModelFile)
}

// Load reads the coefficients, falling back to DefaultRiskModel when no file exists.
func (s *RiskModelStore) Load() (LogisticRiskModel, error) {
	file, err := os.Open(s.Path())
	if os.IsNotExist(err) {
		return DefaultRiskModel, nil
	}
	if err != nil {
		return LogisticRiskModel{}, fmt.Errorf("failed to open risk model file: %w", err)
	}
	defer file.Close()

	model := DefaultRiskModel
	if err := json.NewDecoder(file).Decode(&model); err != nil {
		return LogisticRiskModel{}, fmt.Errorf("failed to decode risk model: %w", err)
	}
	return model, nil
}

// Save writes the coefficients, creating the data directory when needed.
func (s *RiskModelStore) Save(model LogisticRiskModel) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create risk model directory: %w", err)
	}

	file, err := os.Create(s.Path())
	if err != nil {
		return fmt.Errorf("failed to create risk model file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(model); err != nil {
		return fmt.Errorf("failed to encode risk model: %w", err)
	}
	return nil
}
