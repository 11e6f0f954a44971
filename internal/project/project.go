// Package project implements the JSON project data model: a project holds
// encounter sets and cards, cards hold two faces, and face fields resolve
// through per-type layout defaults.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/tokeeto/shoggoth/internal/assets"
)

// Project represents a project (expansion) file.
//
// Projects are ultimately just representations of json files: the struct
// wraps the decoded document, and card/set accessors return views that share
// storage with it.
type Project struct {
	FilePath string
	Data     map[string]any
	Assets   assets.Dirs
}

// New returns the base data for a new project.
func New(name, code, icon string) map[string]any {
	return map[string]any{
		"name":           name,
		"code":           code,
		"icon":           icon,
		"id":             uuid.NewString(),
		"encounter_sets": []any{},
		"cards":          []any{},
	}
}

// Load reads a project from a JSON file.
func Load(filePath string, dirs assets.Dirs) (*Project, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading project file: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing project file: %w", err)
	}

	return FromData(filePath, data, dirs)
}

// FromData wraps decoded project data, validating its structure.
func FromData(filePath string, data map[string]any, dirs assets.Dirs) (*Project, error) {
	sets, _ := data["encounter_sets"].([]any)
	for _, entry := range sets {
		setData, ok := entry.(map[string]any)
		if !ok || !IsValidEncounterSet(setData) {
			return nil, fmt.Errorf("invalid project file: bad encounter set entry %v", entry)
		}
	}

	if _, ok := data["id"]; !ok {
		data["id"] = uuid.NewString()
	}

	return &Project{FilePath: filePath, Data: data, Assets: dirs}, nil
}

// ID returns the project identifier.
func (p *Project) ID() string {
	id, _ := p.Data["id"].(string)
	return id
}

// Name returns the project name.
func (p *Project) Name() string {
	name, _ := p.Data["name"].(string)
	return name
}

// Code returns the short project code used in card codes.
func (p *Project) Code() string {
	code, _ := p.Data["code"].(string)
	return code
}

// Icon returns the path of the project icon.
func (p *Project) Icon() string {
	icon, _ := p.Data["icon"].(string)
	return icon
}

// Get reads a project-level field.
func (p *Project) Get(key string) any {
	return p.Data[key]
}

// GetString reads a project-level field as a string.
func (p *Project) GetString(key string) string {
	s, _ := p.Data[key].(string)
	return s
}

// Folder returns the directory containing the project file.
func (p *Project) Folder() string {
	return filepath.Dir(p.FilePath)
}

// FindFile resolves a path relative to the project folder, reporting whether
// it names an existing file.
func (p *Project) FindFile(path string) (string, bool) {
	full := filepath.Join(p.Folder(), path)
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		abs, err := filepath.Abs(full)
		if err != nil {
			return full, true
		}
		return abs, true
	}
	return "", false
}

// loadDefaults resolves layout defaults for a face type, preferring a
// project-local file over the installed and bundled defaults.
func (p *Project) loadDefaults(faceType string) (map[string]any, error) {
	if faceType == "" {
		return nil, fmt.Errorf("empty face type")
	}
	if path, ok := p.FindFile(faceType + ".json"); ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("error parsing %s: %v", path, err)
		}
		return data, nil
	}
	return p.Assets.LoadDefaults(faceType)
}

// Cards returns all cards of the project in display order.
func (p *Project) Cards() []*Card {
	var cards []*Card
	for _, set := range p.EncounterSets() {
		cards = append(cards, set.Cards()...)
	}
	cards = append(cards, p.rawPlayerCards()...)
	SortCards(cards)
	return cards
}

// PlayerCards returns the cards outside any encounter set, sorted.
func (p *Project) PlayerCards() []*Card {
	cards := p.rawPlayerCards()
	SortCards(cards)
	return cards
}

func (p *Project) rawPlayerCards() []*Card {
	raw, _ := p.Data["cards"].([]any)
	var cards []*Card
	for _, entry := range raw {
		data, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, inSet := data["encounter_set"]; inSet {
			continue
		}
		cards = append(cards, newCard(data, p))
	}
	return cards
}

// GetCard finds a card by identifier anywhere in the project.
func (p *Project) GetCard(id string) *Card {
	for _, card := range p.Cards() {
		if card.ID() == id {
			return card
		}
	}
	return nil
}

// EncounterSets returns the encounter sets in their configured order.
func (p *Project) EncounterSets() []*EncounterSet {
	raw, _ := p.Data["encounter_sets"].([]any)
	sets := make([]*EncounterSet, 0, len(raw))
	for _, entry := range raw {
		data, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		sets = append(sets, &EncounterSet{Data: data, project: p})
	}
	sortEncounterSets(sets)
	return sets
}

// GetEncounterSet finds an encounter set by identifier.
func (p *Project) GetEncounterSet(id string) *EncounterSet {
	for _, set := range p.EncounterSets() {
		if set.ID() == id {
			return set
		}
	}
	return nil
}

// AddEncounterSet creates a named encounter set. Set names are unique
// within a project.
func (p *Project) AddEncounterSet(name string) (*EncounterSet, error) {
	raw, _ := p.Data["encounter_sets"].([]any)
	for _, entry := range raw {
		if data, ok := entry.(map[string]any); ok {
			if existing, _ := data["name"].(string); existing == name {
				return nil, fmt.Errorf("duplicate encounter set name %q", name)
			}
		}
	}

	data := map[string]any{
		"name":  name,
		"icon":  "",
		"id":    uuid.NewString(),
		"cards": []any{},
	}
	p.Data["encounter_sets"] = append(raw, data)
	return &EncounterSet{Data: data, project: p}, nil
}

// AddCard appends a card to the project's player card list.
func (p *Project) AddCard(data map[string]any) *Card {
	raw, _ := p.Data["cards"].([]any)
	p.Data["cards"] = append(raw, data)
	return newCard(data, p)
}

// AssignCardNumbers renumbers every card: encounter sets first, in set
// order, then player cards, sequentially from 1.
func (p *Project) AssignCardNumbers() {
	current := 1
	for _, set := range p.EncounterSets() {
		set.AssignCardNumbers()
		for _, card := range set.Cards() {
			card.SetExpansionNumber(current)
			current++
		}
	}
	for _, card := range p.PlayerCards() {
		card.SetExpansionNumber(current)
		current++
	}
}

// Save writes the project data back to its file. The write is atomic and
// guarded by a file lock so concurrent invocations don't interleave.
func (p *Project) Save() error {
	lock := flock.New(p.FilePath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire project lock: %w", err)
	}
	defer lock.Unlock()

	raw, err := json.MarshalIndent(p.Data, "", "    ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	tmp := p.FilePath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	if err := os.Rename(tmp, p.FilePath); err != nil {
		return fmt.Errorf("replace project file: %w", err)
	}
	return nil
}
