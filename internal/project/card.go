package project

import (
	"fmt"

	"github.com/google/uuid"
)

// Card represents a single card entry in a project file.
type Card struct {
	Data map[string]any

	Front *Face
	Back  *Face

	project *Project
}

func newCard(data map[string]any, p *Project) *Card {
	if _, ok := data["id"]; !ok {
		data["id"] = uuid.NewString()
	}
	card := &Card{Data: data, project: p}
	card.Front = newFace(asMap(data, "front"), card)
	card.Back = newFace(asMap(data, "back"), card)
	return card
}

// asMap fetches a child object, creating it when absent so faces always
// share storage with the card entry.
func asMap(data map[string]any, key string) map[string]any {
	if m, ok := data[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	data[key] = m
	return m
}

// IsValidCard reports whether a raw entry has both faces.
func IsValidCard(data map[string]any) bool {
	_, front := data["front"]
	_, back := data["back"]
	return front && back
}

// ID returns the card identifier.
func (c *Card) ID() string {
	id, _ := c.Data["id"].(string)
	return id
}

// Name returns the card name.
func (c *Card) Name() string {
	name, _ := c.Data["name"].(string)
	return name
}

// Amount returns how many copies of the card the set contains.
func (c *Card) Amount() int {
	return intField(c.Data, "amount", 1)
}

// Project returns the project the card belongs to.
func (c *Card) Project() *Project {
	return c.project
}

// EncounterSet returns the encounter set the card belongs to, or nil for
// player cards.
func (c *Card) EncounterSet() *EncounterSet {
	id, _ := c.Data["encounter_set"].(string)
	if id == "" {
		return nil
	}
	return c.project.GetEncounterSet(id)
}

// ExpansionNumber returns the card's collection number, or -1 when
// unassigned.
func (c *Card) ExpansionNumber() int {
	return intField(c.Data, "expansion_number", -1)
}

// SetExpansionNumber sets the card's collection number.
func (c *Card) SetExpansionNumber(n int) {
	c.Data["expansion_number"] = n
}

// EncounterNumber returns the card's number within its encounter set, a
// single number or a "N-M" range depending on the card amount.
func (c *Card) EncounterNumber() string {
	if c.EncounterSet() == nil {
		return ""
	}
	switch v := c.Data["encounter_number"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int(v))
	}
	return ""
}

// Code returns the unique card code used for export formats.
func (c *Card) Code() string {
	if set := c.EncounterSet(); set != nil {
		return fmt.Sprintf("%s_%s_%s", c.project.Code(), set.Code(), c.Name())
	}
	return fmt.Sprintf("%s_%d_%s", c.project.Code(), c.ExpansionNumber(), c.Name())
}

// Class returns the card class derived from the front face, falling back to
// the back face: "multi" when several classes apply, "" when none do.
func (c *Card) Class() string {
	classes := toStrings(c.Front.Data["classes"])
	if classes == nil {
		classes = toStrings(c.Back.Data["classes"])
	}
	switch len(classes) {
	case 0:
		return ""
	case 1:
		return classes[0]
	default:
		return "multi"
	}
}

// Get reads a card-level field.
func (c *Card) Get(key string) any {
	return c.Data[key]
}

// GetString reads a card-level field as a string.
func (c *Card) GetString(key string) string {
	s, _ := c.Data[key].(string)
	return s
}

// Set writes a card-level field.
func (c *Card) Set(key string, value any) {
	c.Data[key] = value
}

// Illustrations returns the illustration files the card depends on, used by
// viewer mode to watch them for changes.
func (c *Card) Illustrations() []string {
	var files []string
	for _, face := range []*Face{c.Front, c.Back} {
		if path := face.GetString("illustration"); path != "" {
			files = append(files, path)
		}
	}
	return files
}

func intField(data map[string]any, key string, fallback int) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
