// Package export turns projects into shareable artifacts: face images,
// print-and-play PDF sheets, arkham.build project JSON and Tabletop
// Simulator saved objects.
package export

import (
	"strings"

	"github.com/tokeeto/shoggoth/internal/project"
)

// TypeInfo describes how a front face type exports: the type code it maps
// to, the back type it pairs with and how its faction is derived.
type TypeInfo struct {
	ExportType   string
	ExpectedBack string
	Faction      string
	DoubleSided  bool
}

// factionFromClasses marks types whose faction comes from the card classes.
const factionFromClasses = "from_classes"

// CardTypes maps front face types to their export behavior.
var CardTypes = map[string]TypeInfo{
	"asset":        {ExportType: "asset", ExpectedBack: "player", Faction: factionFromClasses},
	"event":        {ExportType: "event", ExpectedBack: "player", Faction: factionFromClasses},
	"skill":        {ExportType: "skill", ExpectedBack: "player", Faction: factionFromClasses},
	"customizable": {ExportType: "asset", ExpectedBack: "customizable_back", Faction: factionFromClasses},
	"investigator": {ExportType: "investigator", ExpectedBack: "investigator_back", Faction: factionFromClasses, DoubleSided: true},
	"enemy":        {ExportType: "enemy", ExpectedBack: "encounter", Faction: "mythos"},
	"treachery":    {ExportType: "treachery", ExpectedBack: "encounter", Faction: "mythos"},
	"location":     {ExportType: "location", ExpectedBack: "location_back", Faction: "mythos", DoubleSided: true},
	"act":          {ExportType: "act", ExpectedBack: "act_back", Faction: "mythos", DoubleSided: true},
	"agenda":       {ExportType: "agenda", ExpectedBack: "agenda_back", Faction: "mythos", DoubleSided: true},
	"chaos":        {ExportType: "scenario", ExpectedBack: "chaos", Faction: "mythos", DoubleSided: true},
	"story":        {ExportType: "story", ExpectedBack: "story", Faction: "mythos"},
}

// factionCodes limits class names to the known faction codes.
var factionCodes = map[string]string{
	"guardian": "guardian",
	"seeker":   "seeker",
	"rogue":    "rogue",
	"mystic":   "mystic",
	"survivor": "survivor",
	"neutral":  "neutral",
}

// ExportType is the resolved export classification of a card.
type ExportType struct {
	TypeCode     string
	FactionCode  string
	Faction2Code string
	Faction3Code string
	DoubleSided  bool
	IsEncounter  bool
}

// TypeOf classifies a card by its front face type.
func TypeOf(card *project.Card) ExportType {
	info, known := CardTypes[card.Front.Type()]
	if !known {
		return ExportType{TypeCode: "unknown", FactionCode: "neutral"}
	}

	result := ExportType{
		TypeCode:    info.ExportType,
		FactionCode: "neutral",
		DoubleSided: info.DoubleSided,
		IsEncounter: info.Faction == "mythos",
	}
	if info.Faction != factionFromClasses {
		result.FactionCode = info.Faction
		return result
	}

	classes := card.Front.GetStrings("classes")
	if len(classes) >= 1 {
		if code, ok := factionCodes[classes[0]]; ok {
			result.FactionCode = code
		}
	}
	if len(classes) >= 2 {
		result.Faction2Code = factionCodes[classes[1]]
	}
	if len(classes) >= 3 {
		result.Faction3Code = factionCodes[classes[2]]
	}
	return result
}

// IsPlayerCard reports whether the card has a player-style back.
func IsPlayerCard(card *project.Card) bool {
	info, known := CardTypes[card.Front.Type()]
	if !known {
		return false
	}
	return info.ExpectedBack == "player" || info.ExpectedBack == "customizable_back"
}

// IsInvestigatorCard reports whether the card is an investigator.
func IsInvestigatorCard(card *project.Card) bool {
	return card.Front.Type() == "investigator"
}

// IsEncounterCard reports whether the card belongs to the mythos.
func IsEncounterCard(card *project.Card) bool {
	info, known := CardTypes[card.Front.Type()]
	return known && info.Faction == "mythos"
}

// SkillIcons tallies the committed skill icons of a face by stat.
func SkillIcons(face *project.Face) map[string]int {
	counts := map[string]int{
		"skill_willpower": 0,
		"skill_intellect": 0,
		"skill_combat":    0,
		"skill_agility":   0,
		"skill_wild":      0,
	}
	for _, icon := range face.GetStrings("icons") {
		key := "skill_" + icon
		if _, known := counts[key]; known {
			counts[key]++
		}
	}
	return counts
}

// ParseSlot returns the slot line of an asset face, joining multiple slots
// with a comma.
func ParseSlot(face *project.Face) string {
	if slots := face.GetStrings("slots"); len(slots) > 0 {
		return strings.Join(slots, ", ")
	}
	return face.GetString("slot")
}
