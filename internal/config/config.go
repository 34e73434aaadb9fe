// Package config handles application configuration and setup
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrosniff/internal/sniff"
	"github.com/retroenv/retrosniff/internal/symbols"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// LoadWeights returns the default weights overlaid with the values of the
// given JSON file. An empty path returns the defaults.
func LoadWeights(path string) (sniff.Weights, error) {
	weights := sniff.DefaultWeights()
	if path == "" {
		return weights, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sniff.Weights{}, fmt.Errorf("reading weights file %s: %w", path, err)
	}
	if err := ParseWeights(data, &weights); err != nil {
		return sniff.Weights{}, fmt.Errorf("parsing weights file %s: %w", path, err)
	}
	return weights, nil
}

// ParseWeights overlays the JSON encoded weights over the passed weights.
// Unknown keys are rejected to catch typos.
func ParseWeights(data []byte, weights *sniff.Weights) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(weights); err != nil {
		return fmt.Errorf("decoding weights: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return fmt.Errorf("validating weights: %w", err)
	}
	return nil
}

// LoadSymbols reads a JSON object that maps hex addresses to labels, for
// example {"c000": "init"}. An empty path returns an empty table.
func LoadSymbols(path string) (*symbols.Table, error) {
	if path == "" {
		return symbols.New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbols file %s: %w", path, err)
	}
	table, err := ParseSymbols(data)
	if err != nil {
		return nil, fmt.Errorf("parsing symbols file %s: %w", path, err)
	}
	return table, nil
}

// ParseSymbols parses a JSON object that maps hex addresses to labels.
func ParseSymbols(data []byte) (*symbols.Table, error) {
	var items map[string]string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding symbols: %w", err)
	}

	table := symbols.New()
	for key, label := range items {
		s := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(key), "$"), "0x")
		address, err := strconv.ParseUint(s, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid address '%s': %w", key, err)
		}
		table.Set(uint16(address), label)
	}
	return table, nil
}
