package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tokeeto/shoggoth/internal/project"
)

// ArkhamBuild builds a project document matching the arkham.build fan-made
// content schema.
func ArkhamBuild(p *project.Project) map[string]any {
	meta := map[string]any{
		"author":       stringOr(p.GetString("author"), "Unknown"),
		"code":         stringOr(p.Code(), p.ID()),
		"language":     stringOr(p.GetString("language"), "en"),
		"name":         p.Name(),
		"description":  p.GetString("description"),
		"date_updated": time.Now().Format("2006-01-02"),
		"generator":    "shoggoth",
		"status":       stringOr(p.GetString("status"), "draft"),
		"tags":         p.GetString("tags"),
		"types":        projectTypes(p),
	}

	sets := []any{}
	for _, set := range p.EncounterSets() {
		entry := map[string]any{
			"code": stringOr(set.Code(), set.ID()),
			"name": set.Name(),
		}
		if url, _ := set.Data["icon_url"].(string); url != "" {
			entry["icon_url"] = url
		}
		sets = append(sets, entry)
	}

	cards := []any{}
	for position, card := range p.Cards() {
		cards = append(cards, arkhamCard(card, p, position+1))
	}

	return map[string]any{
		"meta": meta,
		"data": map[string]any{
			"cards":          cards,
			"encounter_sets": sets,
			"packs":          []any{},
		},
	}
}

// WriteArkhamBuild writes the arkham.build document to a file.
func WriteArkhamBuild(p *project.Project, path string) error {
	raw, err := json.MarshalIndent(ArkhamBuild(p), "", "    ")
	if err != nil {
		return fmt.Errorf("encode arkham.build project: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write arkham.build project: %w", err)
	}
	return nil
}

// projectTypes lists the kinds of content the project carries.
func projectTypes(p *project.Project) []string {
	var investigators, player, encounter bool
	for _, card := range p.Cards() {
		switch {
		case IsInvestigatorCard(card):
			investigators = true
		case IsPlayerCard(card):
			player = true
		default:
			encounter = true
		}
	}

	types := []string{}
	if investigators {
		types = append(types, "investigators")
	}
	if player {
		types = append(types, "player_cards")
	}
	if encounter || len(p.EncounterSets()) > 0 {
		types = append(types, "campaign", "scenario")
	}
	if len(types) == 0 {
		types = []string{"campaign"}
	}
	return types
}

func arkhamCard(card *project.Card, p *project.Project, position int) map[string]any {
	front, back := card.Front, card.Back
	info := TypeOf(card)

	data := map[string]any{
		"code":         stringOr(card.GetString("code"), card.ID()),
		"faction_code": info.FactionCode,
		"name":         card.Name(),
		"pack_code":    stringOr(p.Code(), p.ID()),
		"position":     position,
		"quantity":     card.Amount(),
		"type_code":    info.TypeCode,

		"double_sided": info.DoubleSided,
		"subname":      front.GetString("subtitle"),
		"traits":       front.GetString("traits"),
		"text":         front.GetString("text"),
		"flavor":       front.GetString("flavor_text"),
		"illustrator":  front.GetString("illustrator"),
		"is_unique": strings.Contains(front.GetString("title"), "<unique>") ||
			strings.Contains(back.GetString("title"), "<unique>"),

		"slot": ParseSlot(front),

		"permanent":   strings.Contains(front.GetString("text"), "Permanent."),
		"exceptional": strings.Contains(front.GetString("text"), "Exceptional."),
		"myriad":      strings.Contains(front.GetString("text"), "Myriad."),
		"hidden":      strings.Contains(front.GetString("text"), "Hidden."),
	}
	for key, count := range SkillIcons(front) {
		data[key] = count
	}

	setInt(data, "cost", front, "cost")
	setInt(data, "xp", front, "level")
	setInt(data, "health", front, "health")
	setInt(data, "sanity", front, "sanity")
	setInt(data, "enemy_fight", front, "attack")
	setInt(data, "enemy_evade", front, "evade")
	setInt(data, "enemy_damage", front, "damage")
	setInt(data, "enemy_horror", front, "horror")
	setInt(data, "shroud", front, "shroud")
	setInt(data, "clues", front, "clues")
	setInt(data, "doom", front, "doom")
	setInt(data, "stage", front, "stage")
	setInt(data, "victory", front, "victory")

	if info.Faction2Code != "" {
		data["faction2_code"] = info.Faction2Code
	}
	if info.Faction3Code != "" {
		data["faction3_code"] = info.Faction3Code
	}

	if set := card.EncounterSet(); set != nil {
		data["encounter_code"] = stringOr(set.Code(), set.ID())
		number := card.EncounterNumber()
		if dash := strings.IndexByte(number, '-'); dash >= 0 {
			number = number[:dash]
		}
		if n, err := strconv.Atoi(number); err == nil {
			data["encounter_position"] = n
		}
	}

	if info.DoubleSided {
		data["back_name"] = back.GetString("name")
		data["back_text"] = back.GetString("text")
		data["back_flavor"] = back.GetString("flavor_text")
		data["back_traits"] = back.GetString("traits")
		data["back_illustrator"] = back.GetString("illustrator")
		if info.TypeCode == "location" {
			data["back_link"] = back.GetString("connection")
		}
	}

	for key, value := range data {
		if value == nil || value == "" {
			delete(data, key)
		}
	}
	return data
}

func setInt(data map[string]any, key string, face *project.Face, field string) {
	raw, ok := face.Value(field)
	if !ok || raw == nil {
		return
	}
	switch v := raw.(type) {
	case float64:
		data[key] = int(v)
	case int:
		data[key] = v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			data[key] = n
		}
	}
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
