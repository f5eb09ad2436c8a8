package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Analysis holds the thresholds of the anomaly scorer and the ranker.
type Analysis struct {
	MinSupport  int64   `mapstructure:"min_support" validate:"min=1"`
	ZThreshold  float64 `mapstructure:"z_threshold" validate:"gt=0"`
	PThreshold  float64 `mapstructure:"p_threshold" validate:"gt=0,lt=1"`
	TopInsights int     `mapstructure:"top_insights" validate:"min=3,max=5"`
}

// Generator holds the synthetic data source knobs.
type Generator struct {
	Seed         int64 `mapstructure:"seed"`
	Transactions int   `mapstructure:"transactions" validate:"min=1"`
}

// Engine is the full engine configuration.
type Engine struct {
	Analysis  Analysis  `mapstructure:"analysis"`
	Generator Generator `mapstructure:"generator"`
}

func Default() Engine {
	return Engine{
		Analysis: Analysis{
			MinSupport:  50,
			ZThreshold:  2.0,
			PThreshold:  0.05,
			TopInsights: 5,
		},
		Generator: Generator{
			Seed:         42,
			Transactions: 8000,
		},
	}
}

// Load reads an engine config file and overlays it on the defaults.
func Load(path string) (*Engine, error) {
	engine := Default()
	if path == "" {
		return &engine, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(&engine); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}

	if err := engine.Validate(); err != nil {
		return nil, err
	}
	return &engine, nil
}

func (e *Engine) Validate() error {
	if err := validator.New().Struct(e); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}
