package predictor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MaxBranchTableSize is the largest supported branch predictor table.
const MaxBranchTableSize = 4096

// Config holds the table sizing and run limits. It is fixed for a run.
type Config struct {
	// VPTBits is the number of address bits indexing the Value History
	// Table. The table has 2^VPTBits slots. Default: 10.
	VPTBits uint `json:"vpt_bits" yaml:"vpt_bits"`

	// CTBits is the number of address bits indexing the Classification
	// Table. Default: 10.
	CTBits uint `json:"ct_bits" yaml:"ct_bits"`

	// CTCounterBits is the width of the confidence counters. Zero selects
	// the perfect classifier that always trusts the history. Default: 2.
	CTCounterBits uint `json:"ct_counter_bits" yaml:"ct_counter_bits"`

	// HistoryDepth is the number of values kept per VPT slot. Default: 4.
	HistoryDepth int `json:"history_depth" yaml:"history_depth"`

	// InstructionLimit stops the value predictor after this many
	// qualifying instructions. Zero means no limit.
	InstructionLimit uint64 `json:"instruction_limit" yaml:"instruction_limit"`

	// BranchTableSize is the number of branch predictor entries.
	// Must be a power of 2, at most MaxBranchTableSize. Default: 8.
	BranchTableSize uint64 `json:"branch_table_size" yaml:"branch_table_size"`

	// BranchLimit stops the branch predictor after this many branches.
	// Zero means no limit.
	BranchLimit uint64 `json:"branch_limit" yaml:"branch_limit"`
}

// DefaultConfig returns a Config with the default table sizes.
func DefaultConfig() *Config {
	return &Config{
		VPTBits:         10,
		CTBits:          10,
		CTCounterBits:   2,
		HistoryDepth:    4,
		BranchTableSize: 8,
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig loads a Config from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read predictor config file")
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse predictor config")
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON or YAML file, chosen by extension.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to serialize predictor config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write predictor config file")
	}

	return nil
}

// Validate checks that the sizes describe buildable tables.
func (c *Config) Validate() error {
	if c.VPTBits > 24 {
		return errors.Errorf("vpt_bits must be <= 24, got %d", c.VPTBits)
	}
	if c.CTBits > 24 {
		return errors.Errorf("ct_bits must be <= 24, got %d", c.CTBits)
	}
	if c.CTCounterBits > 31 {
		return errors.Errorf("ct_counter_bits must be <= 31, got %d", c.CTCounterBits)
	}
	if c.HistoryDepth < 1 {
		return errors.New("history_depth must be > 0")
	}
	if c.BranchTableSize == 0 || c.BranchTableSize&(c.BranchTableSize-1) != 0 {
		return errors.Errorf("branch_table_size must be a power of 2, got %d", c.BranchTableSize)
	}
	if c.BranchTableSize > MaxBranchTableSize {
		return errors.Errorf("branch_table_size must be <= %d", MaxBranchTableSize)
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
