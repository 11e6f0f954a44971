package project

import "fmt"

// EncounterSet is a named grouping of encounter cards within a project.
type EncounterSet struct {
	Data map[string]any

	project *Project
}

// IsValidEncounterSet reports whether a raw entry carries the required
// encounter set fields.
func IsValidEncounterSet(data map[string]any) bool {
	_, name := data["name"]
	_, icon := data["icon"]
	_, cards := data["cards"]
	return name && icon && cards
}

// ID returns the set identifier, falling back to the name for sets created
// before identifiers were assigned.
func (e *EncounterSet) ID() string {
	if id, _ := e.Data["id"].(string); id != "" {
		return id
	}
	return e.Name()
}

// Name returns the encounter set name.
func (e *EncounterSet) Name() string {
	name, _ := e.Data["name"].(string)
	return name
}

// Icon returns the path of the encounter set icon.
func (e *EncounterSet) Icon() string {
	icon, _ := e.Data["icon"].(string)
	return icon
}

// Code returns the short set code used in card codes.
func (e *EncounterSet) Code() string {
	if code, _ := e.Data["code"].(string); code != "" {
		return code
	}
	return "xx"
}

// Order returns the set ordering key; unordered sets sort last.
func (e *EncounterSet) Order() int {
	return intField(e.Data, "order", 999)
}

// TotalCards returns the number of physical cards in the set, counting
// duplicate copies. Valid after AssignCardNumbers.
func (e *EncounterSet) TotalCards() int {
	return intField(e.Data, "card_amount", 0)
}

// Cards returns the cards of the encounter set.
func (e *EncounterSet) Cards() []*Card {
	raw, _ := e.Data["cards"].([]any)
	cards := make([]*Card, 0, len(raw))
	for _, entry := range raw {
		data, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		card := newCard(data, e.project)
		card.Data["encounter_set"] = e.ID()
		cards = append(cards, card)
	}
	return cards
}

// AddCard appends raw card data to the encounter set.
func (e *EncounterSet) AddCard(data map[string]any) {
	data["encounter_set"] = e.ID()
	raw, _ := e.Data["cards"].([]any)
	e.Data["cards"] = append(raw, data)
}

// AssignCardNumbers renumbers the cards of the set. Cards present in
// multiple copies receive a range covering all their copies, and the set
// records its total physical card count.
func (e *EncounterSet) AssignCardNumbers() {
	current := 1
	for _, card := range e.Cards() {
		amount := intField(card.Data, "amount", 2)
		if amount > 1 {
			card.Data["encounter_number"] = fmt.Sprintf("%d-%d", current, current+amount-1)
		} else {
			card.Data["encounter_number"] = fmt.Sprintf("%d", current)
		}
		current += amount
	}
	e.Data["card_amount"] = current - 1
}
