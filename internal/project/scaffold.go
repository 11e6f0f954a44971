package project

import "fmt"

// AddInvestigatorSet creates the cards usually needed for an investigator:
// the investigator itself, a signature asset, and a weakness.
func (p *Project) AddInvestigatorSet(name string) {
	investigator := investigatorTemplate()
	investigator["name"] = name
	investigator["investigator"] = name

	signature := assetTemplate()
	signature["name"] = "signature"
	signature["front"].(map[string]any)["text"] = fmt.Sprintf("%s deck only.", name)
	signature["investigator"] = name

	weakness := baseTemplate()
	weakness["name"] = "weakness"
	weakness["front"].(map[string]any)["type"] = "weakness_treachery"
	weakness["back"].(map[string]any)["type"] = "player"
	weakness["investigator"] = name

	p.AddCard(investigator)
	p.AddCard(signature)
	p.AddCard(weakness)
}

// CreateScenario creates an encounter set including acts, agendas, and
// other placeholder cards.
func (p *Project) CreateScenario(name string, order int) (*EncounterSet, error) {
	var cards []map[string]any
	for x := 1; x <= 3; x++ {
		act := actTemplate()
		act["front"].(map[string]any)["index"] = fmt.Sprintf("%da", x)
		act["back"].(map[string]any)["index"] = fmt.Sprintf("%db", x)
		act["name"] = fmt.Sprintf("Act %d", x)
		cards = append(cards, act)

		agenda := agendaTemplate()
		agenda["front"].(map[string]any)["index"] = fmt.Sprintf("%da", x)
		agenda["back"].(map[string]any)["index"] = fmt.Sprintf("%db", x)
		agenda["name"] = fmt.Sprintf("Agenda %d", x)
		cards = append(cards, agenda)
	}

	for x := 1; x <= 3; x++ {
		enemy := enemyTemplate()
		enemy["name"] = fmt.Sprintf("Enemy %d", x)
		enemy["amount"] = 3
		cards = append(cards, enemy)
	}

	for x := 1; x <= 7; x++ {
		treachery := treacheryTemplate()
		treachery["name"] = fmt.Sprintf("Treachery %d", x)
		treachery["amount"] = 3
		cards = append(cards, treachery)
	}

	for x := 1; x <= 8; x++ {
		location := locationTemplate()
		location["name"] = fmt.Sprintf("Location %d - minimum size", x)
		cards = append(cards, location)
	}
	for x := 9; x <= 12; x++ {
		location := locationTemplate()
		location["name"] = fmt.Sprintf("Location %d - medium size", x)
		cards = append(cards, location)
	}
	for x := 13; x <= 16; x++ {
		location := locationTemplate()
		location["name"] = fmt.Sprintf("Location %d - large size", x)
		cards = append(cards, location)
	}

	set, err := p.AddEncounterSet(name)
	if err != nil {
		return nil, err
	}
	if order > 0 {
		set.Data["order"] = order
	}
	for _, card := range cards {
		set.AddCard(card)
	}
	return set, nil
}

// CreateCampaign creates 8 placeholder scenarios.
func (p *Project) CreateCampaign() error {
	scenarioNames := []string{
		"Introduction",
		"The Call",
		"Learning",
		"Threshold",
		"Acceptance",
		"The Test",
		"Revelation",
		"Climax",
	}
	for index, name := range scenarioNames {
		if _, err := p.CreateScenario(name, index+1); err != nil {
			return err
		}
	}
	return nil
}

// CreatePlayerExpansion creates a set of placeholder cards aligning with
// the usual distribution of cards in an investigator expansion: for each
// class and neutral, 9 level 0 cards, 9 leveled cards, and (outside
// neutral) an investigator set.
func (p *Project) CreatePlayerExpansion() {
	classes := []string{"guardian", "rogue", "seeker", "mystic", "survivor", "neutral"}

	addLeveled := func(template func() map[string]any, class, kind string, level, n int) map[string]any {
		card := template()
		card["front"].(map[string]any)["classes"] = []any{class}
		card["front"].(map[string]any)["level"] = level
		card["name"] = fmt.Sprintf("%s %s %d", class, kind, n)
		return card
	}

	var cards []map[string]any
	for _, class := range classes {
		if class != "neutral" {
			p.AddInvestigatorSet(fmt.Sprintf("The %s", titleCase(class)))
		}
		for n := 1; n <= 4; n++ {
			cards = append(cards, addLeveled(assetTemplate, class, "asset", 0, n))
		}
		for n := 1; n <= 3; n++ {
			cards = append(cards, addLeveled(eventTemplate, class, "event", 0, n))
		}
		for n := 1; n <= 2; n++ {
			cards = append(cards, addLeveled(skillTemplate, class, "skill", 0, n))
		}

		for n := 1; n <= 4; n++ {
			cards = append(cards, addLeveled(assetTemplate, class, "xp asset", n+1, n))
		}
		for n := 1; n <= 3; n++ {
			cards = append(cards, addLeveled(eventTemplate, class, "xp event", n+1, n))
		}
		for n := 1; n <= 2; n++ {
			cards = append(cards, addLeveled(skillTemplate, class, "xp skill", n, n))
		}
	}

	for _, card := range cards {
		p.AddCard(card)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
