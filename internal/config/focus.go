package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Focus is the per-directory working context stored in .see/context.json.
type Focus struct {
	EngagementID string `json:"engagement_id,omitempty"` // ENG-XXX
	ScopeKey     string `json:"scope_key,omitempty"`     // GLOBAL or an account id
	PeriodKey    string `json:"period_key,omitempty"`    // YYYY-MM
}

// LoadFocus reads .see/context.json from the specified directory.
// Resolution order: dir only (no home fallback).
// Returns error if no focus file exists - caller should handle accordingly.
func LoadFocus(dir string) (*Focus, error) {
	path := filepath.Join(dir, ".see", "context.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read focus: %w", err)
	}

	var f Focus
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse focus: %w", err)
	}

	return &f, nil
}

// SaveFocus writes context.json to directory.
func SaveFocus(dir string, f *Focus) error {
	seeDir := filepath.Join(dir, ".see")
	if err := os.MkdirAll(seeDir, 0755); err != nil {
		return fmt.Errorf("failed to create .see dir: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal focus: %w", err)
	}

	path := filepath.Join(seeDir, "context.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write focus: %w", err)
	}

	return nil
}
