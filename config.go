// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sassoftware/coa-xtract/logger"
)

type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

// Duration is a time.Duration that unmarshals from YAML duration strings
// like "5s" or "2m", or from plain integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("duration must be a string like %q or integer nanoseconds", "5s")
	}
	*d = Duration(n)
	return nil
}

// Config controls both the text analyzer and the PDF processor.
type Config struct {
	// MaxLines caps how many lines of a raw text blob are scanned per call.
	// Oversized input is truncated with a warning, never rejected.
	MaxLines          int            `yaml:"max_lines" validate:"min=1"`
	MaxConcurrentPDFs int            `yaml:"max_concurrent_pdfs" validate:"min=1,max=10"`
	MaxWorkersPerPDF  int            `yaml:"max_workers_per_pdf" validate:"min=1,max=10"`
	WorkerTimeout     Duration       `yaml:"worker_timeout" validate:"required"`
	ParsingMode       ParsingMode    `yaml:"parsing_mode" validate:"oneof=strict best-effort"`
	MaxRetries        int            `yaml:"max_retries" validate:"min=0,max=3"`
	MaxTotalChars     int            `yaml:"max_total_chars" validate:"min=0"`
	DebugOn           bool           `yaml:"debug"`
	Logger            logger.LogFunc `yaml:"-"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxLines:          10000,
		MaxConcurrentPDFs: 5,
		MaxWorkersPerPDF:  1,
		WorkerTimeout:     Duration(5 * time.Second),
		ParsingMode:       BestEffort,
		MaxRetries:        3,
		MaxTotalChars:     0,
		DebugOn:           false,
	}
}

// LoadConfig reads a YAML config file over the defaults and validates the
// result.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
