package project

import "github.com/google/uuid"

// Template names accepted by NewCardData.
var TemplateNames = []string{
	"investigator", "asset", "event", "skill", "story", "treachery",
	"enemy", "location", "act", "agenda", "scenario",
	"enemy_weakness", "treachery_weakness",
}

// NewCardData returns the raw data for a new card of the named kind. Unknown
// names produce a blank card.
func NewCardData(name string) map[string]any {
	switch name {
	case "investigator":
		return investigatorTemplate()
	case "asset":
		return assetTemplate()
	case "event":
		return eventTemplate()
	case "skill":
		return skillTemplate()
	case "story":
		return storyTemplate()
	case "treachery":
		return treacheryTemplate()
	case "enemy":
		return enemyTemplate()
	case "location":
		return locationTemplate()
	case "act":
		return actTemplate()
	case "agenda":
		return agendaTemplate()
	case "scenario":
		return scenarioTemplate()
	case "enemy_weakness":
		return enemyWeaknessTemplate()
	case "treachery_weakness":
		return treacheryWeaknessTemplate()
	default:
		return baseTemplate()
	}
}

func baseTemplate() map[string]any {
	return map[string]any{
		"name":   "",
		"id":     uuid.NewString(),
		"amount": 1,
		"front":  map[string]any{"type": ""},
		"back":   map[string]any{"type": ""},
	}
}

func playerTemplate(frontType string, amount int) map[string]any {
	card := baseTemplate()
	card["amount"] = amount
	card["front"].(map[string]any)["type"] = frontType
	card["back"].(map[string]any)["type"] = "player"
	return card
}

func assetTemplate() map[string]any { return playerTemplate("asset", 2) }
func eventTemplate() map[string]any { return playerTemplate("event", 2) }
func skillTemplate() map[string]any { return playerTemplate("skill", 2) }

func investigatorTemplate() map[string]any {
	card := baseTemplate()
	card["front"].(map[string]any)["type"] = "investigator"
	card["back"] = map[string]any{
		"type": "investigator_back",
		"entries": []any{
			[]any{"<b>Deck Size:</b>", "30"},
			[]any{"<b>Secondary Class Choice:</b>", ""},
			[]any{"<b>Deckbuilding Options:</b>", ""},
			[]any{"<b>Deckbuilding Requirements</b> (do not count toward deck size):", ""},
			[]any{"<b>Deckbuilding Restrictions:</b>", ""},
		},
	}
	return card
}

func encounterTemplate(frontType string, amount int) map[string]any {
	card := baseTemplate()
	card["amount"] = amount
	card["front"].(map[string]any)["type"] = frontType
	card["back"].(map[string]any)["type"] = "encounter"
	return card
}

func enemyTemplate() map[string]any     { return encounterTemplate("enemy", 3) }
func treacheryTemplate() map[string]any { return encounterTemplate("treachery", 3) }

func doubleSidedTemplate(frontType, backType string) map[string]any {
	card := baseTemplate()
	card["front"].(map[string]any)["type"] = frontType
	card["back"].(map[string]any)["type"] = backType
	return card
}

func locationTemplate() map[string]any { return doubleSidedTemplate("location", "location_back") }
func actTemplate() map[string]any      { return doubleSidedTemplate("act", "act_back") }
func agendaTemplate() map[string]any   { return doubleSidedTemplate("agenda", "agenda_back") }
func storyTemplate() map[string]any    { return doubleSidedTemplate("story", "story") }

func scenarioTemplate() map[string]any {
	card := baseTemplate()
	card["front"] = map[string]any{"type": "chaos", "difficulty": "Easy/Standard"}
	card["back"] = map[string]any{"type": "chaos", "difficulty": "Hard/Expert"}
	return card
}

func enemyWeaknessTemplate() map[string]any {
	card := enemyTemplate()
	card["amount"] = 1
	card["front"].(map[string]any)["type"] = "weakness_enemy"
	card["back"].(map[string]any)["type"] = "player"
	return card
}

func treacheryWeaknessTemplate() map[string]any {
	card := treacheryTemplate()
	card["amount"] = 1
	card["front"].(map[string]any)["type"] = "weakness_treachery"
	card["back"].(map[string]any)["type"] = "player"
	return card
}
