package project_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tokeeto/shoggoth/internal/assets"
	"github.com/tokeeto/shoggoth/internal/project"
)

func TestLoadRejectsInvalidEncounterSets(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "project.json")
	content := `{
		"name": "Broken",
		"code": "brk",
		"encounter_sets": [{"name": "incomplete"}],
		"cards": []
	}`
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := project.Load(filePath, assets.DirsFor(dir))
	if err == nil {
		t.Fatal("expected error for encounter set without icon and cards")
	}
	if !strings.Contains(err.Error(), "invalid project file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadAssignsProjectID(t *testing.T) {
	p := testProject(t, baseProjectData())
	if p.ID() == "" {
		t.Fatal("expected generated project id")
	}
}

func TestEncounterSetNumbering(t *testing.T) {
	p := testProject(t, baseProjectData())
	set, err := p.AddEncounterSet("The Gathering")
	if err != nil {
		t.Fatal(err)
	}

	enemy := project.NewCardData("enemy")
	enemy["name"] = "Ghoul"
	enemy["amount"] = 3
	single := project.NewCardData("location")
	single["name"] = "Hallway"
	set.AddCard(enemy)
	set.AddCard(single)

	set.AssignCardNumbers()

	cards := set.Cards()
	byName := map[string]string{}
	for _, card := range cards {
		byName[card.Name()] = card.EncounterNumber()
	}
	// numbering follows the order cards were added to the set
	if byName["Ghoul"] != "1-3" {
		t.Fatalf("unexpected range for tripled card: %q", byName["Ghoul"])
	}
	if byName["Hallway"] != "4" {
		t.Fatalf("unexpected number for single card: %q", byName["Hallway"])
	}
	if set.TotalCards() != 4 {
		t.Fatalf("unexpected total card count: %d", set.TotalCards())
	}
}

func TestAssignCardNumbersCoversSetsThenPlayerCards(t *testing.T) {
	p := testProject(t, baseProjectData())

	set, err := p.AddEncounterSet("Set A")
	if err != nil {
		t.Fatal(err)
	}
	enemy := project.NewCardData("enemy")
	enemy["name"] = "Cultist"
	set.AddCard(enemy)

	asset := project.NewCardData("asset")
	asset["name"] = "Knife"
	p.AddCard(asset)

	p.AssignCardNumbers()

	if got := p.GetEncounterSet(set.ID()).Cards()[0].ExpansionNumber(); got != 1 {
		t.Fatalf("encounter card should number first, got %d", got)
	}
	if got := p.PlayerCards()[0].ExpansionNumber(); got != 2 {
		t.Fatalf("player card should number after sets, got %d", got)
	}
}

func TestCardCode(t *testing.T) {
	p := testProject(t, baseProjectData())

	set, err := p.AddEncounterSet("Set A")
	if err != nil {
		t.Fatal(err)
	}
	set.Data["code"] = "ga"
	enemy := project.NewCardData("enemy")
	enemy["name"] = "Cultist"
	set.AddCard(enemy)

	asset := project.NewCardData("asset")
	asset["name"] = "Knife"
	p.AddCard(asset)
	p.AssignCardNumbers()

	cards := p.Cards()
	var enemyCode, assetCode string
	for _, card := range cards {
		switch card.Name() {
		case "Cultist":
			enemyCode = card.Code()
		case "Knife":
			assetCode = card.Code()
		}
	}
	if enemyCode != "tst_ga_Cultist" {
		t.Fatalf("unexpected encounter card code: %q", enemyCode)
	}
	if assetCode != "tst_2_Knife" {
		t.Fatalf("unexpected player card code: %q", assetCode)
	}
}

func TestSortCardsOrdersByTypeThenClass(t *testing.T) {
	p := testProject(t, baseProjectData(
		map[string]any{
			"name":  "Survivor Asset",
			"front": map[string]any{"type": "asset", "classes": []any{"survivor"}},
			"back":  map[string]any{"type": "player"},
		},
		map[string]any{
			"name":  "Guardian Asset",
			"front": map[string]any{"type": "asset", "classes": []any{"guardian"}},
			"back":  map[string]any{"type": "player"},
		},
		map[string]any{
			"name":  "Some Enemy",
			"front": map[string]any{"type": "enemy"},
			"back":  map[string]any{"type": "encounter"},
		},
		map[string]any{
			"name":  "Some Agenda",
			"front": map[string]any{"type": "agenda"},
			"back":  map[string]any{"type": "agenda_back"},
		},
	))

	var names []string
	for _, card := range p.Cards() {
		names = append(names, card.Name())
	}
	want := []string{"Some Agenda", "Some Enemy", "Guardian Asset", "Survivor Asset"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", names, want)
		}
	}
}

func TestDuplicateEncounterSetNameRejected(t *testing.T) {
	p := testProject(t, baseProjectData())
	if _, err := p.AddEncounterSet("Twice"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddEncounterSet("Twice"); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := testProject(t, baseProjectData())
	asset := project.NewCardData("asset")
	asset["name"] = "Knife"
	p.AddCard(asset)

	if err := p.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	raw, err := os.ReadFile(p.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk map[string]any
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("saved project is not valid json: %v", err)
	}

	reloaded, err := project.Load(p.FilePath, p.Assets)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if len(reloaded.Cards()) != 1 || reloaded.Cards()[0].Name() != "Knife" {
		t.Fatalf("unexpected cards after reload: %v", reloaded.Cards())
	}
}

func TestCreateScenarioScaffold(t *testing.T) {
	p := testProject(t, baseProjectData())
	set, err := p.CreateScenario("Opening Night", 1)
	if err != nil {
		t.Fatal(err)
	}

	cards := set.Cards()
	// 3 acts + 3 agendas + 3 enemies + 7 treacheries + 16 locations
	if len(cards) != 32 {
		t.Fatalf("unexpected scaffold card count: %d", len(cards))
	}

	counts := map[string]int{}
	for _, card := range cards {
		counts[card.Front.Type()]++
	}
	if counts["act"] != 3 || counts["agenda"] != 3 {
		t.Fatalf("unexpected act/agenda counts: %v", counts)
	}
	if counts["enemy"] != 3 || counts["treachery"] != 7 || counts["location"] != 16 {
		t.Fatalf("unexpected encounter counts: %v", counts)
	}
}

func TestCreateCampaignScaffold(t *testing.T) {
	p := testProject(t, baseProjectData())
	if err := p.CreateCampaign(); err != nil {
		t.Fatal(err)
	}
	sets := p.EncounterSets()
	if len(sets) != 8 {
		t.Fatalf("expected 8 scenarios, got %d", len(sets))
	}
	if sets[0].Name() != "Introduction" || sets[7].Name() != "Climax" {
		t.Fatalf("unexpected scenario order: %s..%s", sets[0].Name(), sets[7].Name())
	}
}

func TestCreatePlayerExpansionScaffold(t *testing.T) {
	p := testProject(t, baseProjectData())
	p.CreatePlayerExpansion()

	cards := p.PlayerCards()
	// 6 classes * 18 cards + 5 investigator sets * 3 cards
	if len(cards) != 123 {
		t.Fatalf("unexpected expansion card count: %d", len(cards))
	}

	investigators := 0
	for _, card := range cards {
		if card.Front.Type() == "investigator" {
			investigators++
		}
	}
	if investigators != 5 {
		t.Fatalf("expected 5 investigators, got %d", investigators)
	}
}

func TestTemplatePairs(t *testing.T) {
	cases := []struct {
		template  string
		front     string
		back      string
		amount    int
	}{
		{"asset", "asset", "player", 2},
		{"event", "event", "player", 2},
		{"skill", "skill", "player", 2},
		{"enemy", "enemy", "encounter", 3},
		{"treachery", "treachery", "encounter", 3},
		{"location", "location", "location_back", 1},
		{"act", "act", "act_back", 1},
		{"agenda", "agenda", "agenda_back", 1},
		{"investigator", "investigator", "investigator_back", 1},
		{"enemy_weakness", "weakness_enemy", "player", 1},
		{"treachery_weakness", "weakness_treachery", "player", 1},
	}

	for _, tc := range cases {
		data := project.NewCardData(tc.template)
		front := data["front"].(map[string]any)["type"]
		back := data["back"].(map[string]any)["type"]
		if front != tc.front || back != tc.back {
			t.Errorf("%s: faces %v/%v, want %s/%s", tc.template, front, back, tc.front, tc.back)
		}
		if amount := data["amount"].(int); amount != tc.amount {
			t.Errorf("%s: amount %d, want %d", tc.template, amount, tc.amount)
		}
		if data["id"] == "" {
			t.Errorf("%s: missing id", tc.template)
		}
	}
}

func TestScenarioTemplateDifficulties(t *testing.T) {
	data := project.NewCardData("scenario")
	front := data["front"].(map[string]any)
	back := data["back"].(map[string]any)
	if front["type"] != "chaos" || back["type"] != "chaos" {
		t.Fatalf("unexpected scenario face types: %v/%v", front["type"], back["type"])
	}
	if front["difficulty"] != "Easy/Standard" || back["difficulty"] != "Hard/Expert" {
		t.Fatalf("unexpected difficulties: %v/%v", front["difficulty"], back["difficulty"])
	}
}
