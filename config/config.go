package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/marginsim/sim"
)

// Config represents the complete backtest configuration
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Policy   PolicyConfig   `json:"policy" yaml:"policy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Chart    ChartConfig    `json:"chart" yaml:"chart"`
}

// DataConfig selects where daily bars come from
type DataConfig struct {
	Tickers []string `json:"tickers" yaml:"tickers"`
	Source  string   `json:"source" yaml:"source"` // "yahoo" or "csv"
	Dir     string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	Range   string   `json:"range,omitempty" yaml:"range,omitempty"` // yahoo range, e.g. "2y"
}

// StrategyConfig contains the portfolio parameters
type StrategyConfig struct {
	InitialCapital  float64 `json:"initial_capital" yaml:"initial_capital"`
	MonthlyDeposit  float64 `json:"monthly_deposit" yaml:"monthly_deposit"`
	LookbackDays    int     `json:"lookback_days" yaml:"lookback_days"`
	CoreFraction    float64 `json:"core_fraction" yaml:"core_fraction"`
	MaintenanceReq  float64 `json:"maintenance_req" yaml:"maintenance_req"`
	BufferPoints    float64 `json:"buffer_points" yaml:"buffer_points"`
	RotationEnabled bool    `json:"rotation_enabled" yaml:"rotation_enabled"`
}

// PolicyConfig contains the optional ledger behaviors
type PolicyConfig struct {
	InterestAPR      float64 `json:"interest_apr,omitempty" yaml:"interest_apr,omitempty"`
	InterestDayCount int     `json:"interest_day_count,omitempty" yaml:"interest_day_count,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ChartConfig controls the optional equity-curve PNG
type ChartConfig struct {
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// Default returns the stock configuration used when no file is given.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Source: "yahoo",
			Range:  "2y",
		},
		Strategy: StrategyConfig{
			InitialCapital: 6000,
			MonthlyDeposit: 2000,
			LookbackDays:   30,
			CoreFraction:   0.40,
			MaintenanceReq: 0.25,
			BufferPoints:   0.05,
		},
		Journal: JournalConfig{Type: "none"},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Data.Tickers) == 0 {
		return fmt.Errorf("data.tickers is required")
	}
	if c.Data.Source != "yahoo" && c.Data.Source != "csv" {
		return fmt.Errorf("data.source must be 'yahoo' or 'csv'")
	}
	if c.Data.Source == "csv" && c.Data.Dir == "" {
		return fmt.Errorf("data.dir required for csv source")
	}
	if c.Strategy.InitialCapital <= 0 {
		return fmt.Errorf("strategy.initial_capital must be positive")
	}
	if c.Strategy.MonthlyDeposit < 0 {
		return fmt.Errorf("strategy.monthly_deposit must not be negative")
	}
	if c.Strategy.LookbackDays <= 0 {
		return fmt.Errorf("strategy.lookback_days must be positive")
	}
	if c.Strategy.CoreFraction < 0 || c.Strategy.CoreFraction > 1 {
		return fmt.Errorf("strategy.core_fraction must be between 0 and 1")
	}
	if c.Strategy.MaintenanceReq <= 0 || c.Strategy.MaintenanceReq >= 1 {
		return fmt.Errorf("strategy.maintenance_req must be between 0 and 1 exclusive")
	}
	if c.Strategy.BufferPoints < 0 || c.Strategy.BufferPoints > 0.15 {
		return fmt.Errorf("strategy.buffer_points must be between 0 and 0.15")
	}
	if c.Policy.InterestAPR < 0 {
		return fmt.Errorf("policy.interest_apr must not be negative")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal.dir required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Params converts the strategy section to simulator parameters.
func (c *Config) Params() sim.Params {
	return sim.Params{
		InitialCapital:  c.Strategy.InitialCapital,
		MonthlyDeposit:  c.Strategy.MonthlyDeposit,
		LookbackDays:    c.Strategy.LookbackDays,
		CoreFraction:    c.Strategy.CoreFraction,
		MaintenanceReq:  c.Strategy.MaintenanceReq,
		BufferPoints:    c.Strategy.BufferPoints,
		RotationEnabled: c.Strategy.RotationEnabled,
	}
}

// SimPolicy converts the policy section to simulator policy.
func (c *Config) SimPolicy() sim.Policy {
	return sim.Policy{
		InterestAPR:      c.Policy.InterestAPR,
		InterestDayCount: c.Policy.InterestDayCount,
	}
}
