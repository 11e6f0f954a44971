// Package validator checks project files for structural problems before
// rendering or export.
package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tokeeto/shoggoth/internal/export"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	ProjectPath string
	Results     ValidationResults
}

func NewValidator(projectPath string) *Validator {
	return &Validator{
		ProjectPath: projectPath,
		Results:     ValidationResults{},
	}
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) Validate() (ValidationResults, error) {
	raw, err := os.ReadFile(v.ProjectPath)
	if err != nil {
		return v.Results, fmt.Errorf("project file not found: %s", v.ProjectPath)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return v.Results, fmt.Errorf("error parsing project file: %v", err)
	}

	v.validateProjectFields(data)
	v.validateEncounterSets(data)

	cards, _ := data["cards"].([]any)
	for index, entry := range cards {
		card, ok := entry.(map[string]any)
		if !ok {
			v.errorf("player card %d is not an object", index+1)
			continue
		}
		v.validateCard(card, fmt.Sprintf("player card %d", index+1))
	}

	return v.Results, nil
}

func (v *Validator) validateProjectFields(data map[string]any) {
	if name, _ := data["name"].(string); name == "" {
		v.errorf("project name is required")
	}
	if code, _ := data["code"].(string); code == "" {
		v.warnf("project code is missing, exports will fall back to the project id")
	}
	if icon, _ := data["icon"].(string); icon != "" {
		v.checkFile(icon, "project icon")
	}
}

func (v *Validator) validateEncounterSets(data map[string]any) {
	sets, _ := data["encounter_sets"].([]any)
	seen := map[string]bool{}
	for index, entry := range sets {
		set, ok := entry.(map[string]any)
		if !ok {
			v.errorf("encounter set %d is not an object", index+1)
			continue
		}
		name, _ := set["name"].(string)
		label := fmt.Sprintf("encounter set %d", index+1)
		if name == "" {
			v.errorf("%s has no name", label)
		} else {
			label = fmt.Sprintf("encounter set %q", name)
			if seen[name] {
				v.errorf("duplicate encounter set name %q", name)
			}
			seen[name] = true
		}

		if icon, _ := set["icon"].(string); icon == "" {
			v.errorf("%s has no icon", label)
		} else {
			v.checkFile(icon, label+" icon")
		}
		if _, ok := set["cards"].([]any); !ok {
			v.errorf("%s has no card list", label)
			continue
		}
		for cardIndex, cardEntry := range set["cards"].([]any) {
			card, ok := cardEntry.(map[string]any)
			if !ok {
				v.errorf("%s card %d is not an object", label, cardIndex+1)
				continue
			}
			v.validateCard(card, fmt.Sprintf("%s card %d", label, cardIndex+1))
		}
	}
}

func (v *Validator) validateCard(card map[string]any, label string) {
	name, _ := card["name"].(string)
	if name == "" {
		v.errorf("%s has no name", label)
	} else {
		label = fmt.Sprintf("card %q", name)
	}

	front, frontOK := card["front"].(map[string]any)
	back, backOK := card["back"].(map[string]any)
	if !frontOK {
		v.errorf("%s has no front face", label)
	}
	if !backOK {
		v.errorf("%s has no back face", label)
	}
	if !frontOK || !backOK {
		return
	}

	frontType, _ := front["type"].(string)
	backType, _ := back["type"].(string)
	if frontType == "" {
		v.errorf("%s front has no type", label)
		return
	}

	info, known := export.CardTypes[frontType]
	if !known {
		v.warnf("%s has unknown front type %q", label, frontType)
	} else if backType != info.ExpectedBack && backType != frontType {
		v.warnf("%s pairs front type %q with back type %q (expected %q)",
			label, frontType, backType, info.ExpectedBack)
	}

	for _, face := range []map[string]any{front, back} {
		if illustration, _ := face["illustration"].(string); illustration != "" {
			v.checkFile(illustration, label+" illustration")
		}
	}
}

// checkFile warns when a referenced file is missing, resolving relative
// paths against the project folder.
func (v *Validator) checkFile(path, label string) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	relative := filepath.Join(filepath.Dir(v.ProjectPath), path)
	if _, err := os.Stat(relative); err == nil {
		return
	}
	v.warnf("%s not found: %s", label, path)
}
