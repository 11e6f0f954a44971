package validator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProjectFile(t *testing.T, data map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateMissingFile(t *testing.T) {
	v := NewValidator(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := v.Validate(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateCleanProject(t *testing.T) {
	path := writeProjectFile(t, map[string]any{
		"name":           "Test Expansion",
		"code":           "tst",
		"encounter_sets": []any{},
		"cards": []any{map[string]any{
			"name":  "Knife",
			"front": map[string]any{"type": "asset"},
			"back":  map[string]any{"type": "player"},
		}},
	})

	results, err := NewValidator(path).Validate()
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(results.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", results.Errors)
	}
}

func TestValidateReportsMissingName(t *testing.T) {
	path := writeProjectFile(t, map[string]any{
		"code": "tst",
	})

	results, err := NewValidator(path).Validate()
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !containsMatch(results.Errors, "project name") {
		t.Fatalf("missing name not reported: %v", results.Errors)
	}
}

func TestValidateReportsBadBackPairing(t *testing.T) {
	path := writeProjectFile(t, map[string]any{
		"name": "Test Expansion",
		"code": "tst",
		"cards": []any{map[string]any{
			"name":  "Knife",
			"front": map[string]any{"type": "asset"},
			"back":  map[string]any{"type": "encounter"},
		}},
	})

	results, err := NewValidator(path).Validate()
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !containsMatch(results.Warnings, "expected") {
		t.Fatalf("bad pairing not reported: %v", results.Warnings)
	}
}

func TestValidateReportsEncounterSetProblems(t *testing.T) {
	path := writeProjectFile(t, map[string]any{
		"name": "Test Expansion",
		"code": "tst",
		"encounter_sets": []any{
			map[string]any{"name": "Ghouls", "icon": "", "cards": []any{}},
			map[string]any{"name": "Ghouls", "icon": "ghouls.png", "cards": []any{}},
		},
	})

	results, err := NewValidator(path).Validate()
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !containsMatch(results.Errors, "no icon") {
		t.Fatalf("missing icon not reported: %v", results.Errors)
	}
	if !containsMatch(results.Errors, "duplicate") {
		t.Fatalf("duplicate name not reported: %v", results.Errors)
	}
}

func TestValidateReportsMissingIllustration(t *testing.T) {
	path := writeProjectFile(t, map[string]any{
		"name": "Test Expansion",
		"code": "tst",
		"cards": []any{map[string]any{
			"name": "Knife",
			"front": map[string]any{
				"type":         "asset",
				"illustration": "art/knife.png",
			},
			"back": map[string]any{"type": "player"},
		}},
	})

	results, err := NewValidator(path).Validate()
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !containsMatch(results.Warnings, "illustration") {
		t.Fatalf("missing illustration not reported: %v", results.Warnings)
	}
}

func containsMatch(list []string, substring string) bool {
	for _, entry := range list {
		if strings.Contains(entry, substring) {
			return true
		}
	}
	return false
}
