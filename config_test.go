// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package coax

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "max lines below minimum",
			mutate:  func(c *Config) { c.MaxLines = 0 },
			wantErr: true,
		},
		{
			name:    "too many concurrent pdfs",
			mutate:  func(c *Config) { c.MaxConcurrentPDFs = 11 },
			wantErr: true,
		},
		{
			name:    "too many workers per pdf",
			mutate:  func(c *Config) { c.MaxWorkersPerPDF = 20 },
			wantErr: true,
		},
		{
			name:    "missing worker timeout",
			mutate:  func(c *Config) { c.WorkerTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "unknown parsing mode",
			mutate:  func(c *Config) { c.ParsingMode = "lenient" },
			wantErr: true,
		},
		{
			name:    "retries above maximum",
			mutate:  func(c *Config) { c.MaxRetries = 4 },
			wantErr: true,
		},
		{
			name:    "negative total chars",
			mutate:  func(c *Config) { c.MaxTotalChars = -1 },
			wantErr: true,
		},
		{
			name:   "strict mode is valid",
			mutate: func(c *Config) { c.ParsingMode = Strict },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 10000, cfg.MaxLines)
	assert.Equal(t, 5, cfg.MaxConcurrentPDFs)
	assert.Equal(t, 1, cfg.MaxWorkersPerPDF)
	assert.Equal(t, Duration(5*time.Second), cfg.WorkerTimeout)
	assert.Equal(t, BestEffort, cfg.ParsingMode)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 0, cfg.MaxTotalChars)
	assert.False(t, cfg.DebugOn)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
max_lines: 500
parsing_mode: strict
worker_timeout: 2s
debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxLines)
	assert.Equal(t, Strict, cfg.ParsingMode)
	assert.Equal(t, Duration(2*time.Second), cfg.WorkerTimeout)
	assert.True(t, cfg.DebugOn)
	// Unset keys keep their defaults.
	assert.Equal(t, 5, cfg.MaxConcurrentPDFs)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfigFile(t, "max_lines: [not a number")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfigFile(t, "max_retries: 99\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
