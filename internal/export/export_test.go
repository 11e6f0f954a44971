package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tokeeto/shoggoth/internal/assets"
	"github.com/tokeeto/shoggoth/internal/logging"
	"github.com/tokeeto/shoggoth/internal/project"
	"github.com/tokeeto/shoggoth/internal/render"
)

func testProject(t *testing.T, data map[string]any) *project.Project {
	t.Helper()
	dir := t.TempDir()
	filePath := filepath.Join(dir, "project.json")
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		t.Fatal(err)
	}
	p, err := project.Load(filePath, assets.DirsFor(filepath.Join(dir, "assets")))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return p
}

func fixtureProject(t *testing.T) *project.Project {
	t.Helper()
	return testProject(t, map[string]any{
		"name": "Test Expansion",
		"code": "tst",
		"icon": "",
		"id":   "proj-1",
		"encounter_sets": []any{map[string]any{
			"id":   "set-1",
			"name": "Ghouls",
			"code": "gh",
			"icon": "ghouls.png",
			"cards": []any{map[string]any{
				"id":     "card-ghoul",
				"name":   "Ravenous Ghoul",
				"amount": 2,
				"front": map[string]any{
					"type": "enemy", "attack": float64(3), "health": float64(2),
				},
				"back": map[string]any{"type": "encounter"},
			}},
		}},
		"cards": []any{map[string]any{
			"id":   "card-knife",
			"name": "Knife",
			"front": map[string]any{
				"type":    "asset",
				"classes": []any{"rogue", "survivor"},
				"cost":    float64(1),
				"icons":   []any{"combat", "combat", "wild"},
				"slot":    "hand",
				"text":    "Fight.",
			},
			"back": map[string]any{"type": "player"},
		}},
	})
}

func cardByName(t *testing.T, p *project.Project, name string) *project.Card {
	t.Helper()
	for _, card := range p.Cards() {
		if card.Name() == name {
			return card
		}
	}
	t.Fatalf("card %q not found", name)
	return nil
}

func TestTypeOfDerivesFactionsFromClasses(t *testing.T) {
	p := fixtureProject(t)
	info := TypeOf(cardByName(t, p, "Knife"))

	if info.TypeCode != "asset" || info.IsEncounter {
		t.Fatalf("info = %+v", info)
	}
	if info.FactionCode != "rogue" || info.Faction2Code != "survivor" {
		t.Fatalf("factions = %+v", info)
	}
}

func TestTypeOfEncounterCard(t *testing.T) {
	p := fixtureProject(t)
	info := TypeOf(cardByName(t, p, "Ravenous Ghoul"))

	if info.TypeCode != "enemy" || info.FactionCode != "mythos" || !info.IsEncounter {
		t.Fatalf("info = %+v", info)
	}
}

func TestCardPredicates(t *testing.T) {
	p := fixtureProject(t)
	knife := cardByName(t, p, "Knife")
	ghoul := cardByName(t, p, "Ravenous Ghoul")

	if !IsPlayerCard(knife) || IsPlayerCard(ghoul) {
		t.Error("player predicate wrong")
	}
	if !IsEncounterCard(ghoul) || IsEncounterCard(knife) {
		t.Error("encounter predicate wrong")
	}
	if IsInvestigatorCard(knife) {
		t.Error("investigator predicate wrong")
	}
}

func TestSkillIconsTally(t *testing.T) {
	p := fixtureProject(t)
	icons := SkillIcons(cardByName(t, p, "Knife").Front)

	if icons["skill_combat"] != 2 || icons["skill_wild"] != 1 || icons["skill_willpower"] != 0 {
		t.Fatalf("icons = %v", icons)
	}
}

func TestParseSlot(t *testing.T) {
	p := fixtureProject(t)
	knife := cardByName(t, p, "Knife")

	if got := ParseSlot(knife.Front); got != "hand" {
		t.Fatalf("slot = %q", got)
	}
	knife.Front.Set("slots", []any{"hand", "hand"})
	if got := ParseSlot(knife.Front); got != "hand, hand" {
		t.Fatalf("slots = %q", got)
	}
}

func TestArkhamBuildDocument(t *testing.T) {
	p := fixtureProject(t)
	p.AssignCardNumbers()
	doc := ArkhamBuild(p)

	meta := doc["meta"].(map[string]any)
	if meta["code"] != "tst" || meta["name"] != "Test Expansion" {
		t.Fatalf("meta = %v", meta)
	}

	data := doc["data"].(map[string]any)
	sets := data["encounter_sets"].([]any)
	if len(sets) != 1 {
		t.Fatalf("sets = %v", sets)
	}
	if set := sets[0].(map[string]any); set["code"] != "gh" || set["name"] != "Ghouls" {
		t.Fatalf("set = %v", set)
	}

	cards := data["cards"].([]any)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	var knife, ghoul map[string]any
	for _, raw := range cards {
		card := raw.(map[string]any)
		switch card["name"] {
		case "Knife":
			knife = card
		case "Ravenous Ghoul":
			ghoul = card
		}
	}
	if knife["faction_code"] != "rogue" || knife["cost"] != 1 || knife["slot"] != "hand" {
		t.Fatalf("knife = %v", knife)
	}
	if knife["skill_combat"] != 2 {
		t.Fatalf("knife icons = %v", knife)
	}
	if ghoul["encounter_code"] != "gh" || ghoul["enemy_fight"] != 3 || ghoul["quantity"] != 2 {
		t.Fatalf("ghoul = %v", ghoul)
	}
	if ghoul["encounter_position"] != 1 {
		t.Fatalf("encounter_position = %v", ghoul["encounter_position"])
	}
}

func TestWriteArkhamBuild(t *testing.T) {
	p := fixtureProject(t)
	path := filepath.Join(t.TempDir(), "project.arkham.json")

	if err := WriteArkhamBuild(p, path); err != nil {
		t.Fatalf("WriteArkhamBuild returned error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestTTSSavedObject(t *testing.T) {
	p := fixtureProject(t)
	path := filepath.Join(t.TempDir(), "saved_object.json")

	err := TTS(p, TTSOptions{Path: path, ImageFolder: "/tmp/export", ImageFormat: "png"})
	if err != nil {
		t.Fatalf("TTS returned error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var wrapper struct {
		ObjectStates []map[string]any `json:"ObjectStates"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		t.Fatal(err)
	}
	// the set bag plus one loose player card
	if len(wrapper.ObjectStates) != 2 {
		t.Fatalf("object states = %d", len(wrapper.ObjectStates))
	}

	bag := wrapper.ObjectStates[0]
	contained := bag["ContainedObjects"].([]any)
	if len(contained) != 1 {
		t.Fatalf("set bags = %d", len(contained))
	}
	setBag := contained[0].(map[string]any)
	if setBag["Nickname"] != "Ghouls" {
		t.Fatalf("set bag = %v", setBag["Nickname"])
	}
	// ghoul amount 2 gives two card objects
	if cards := setBag["ContainedObjects"].([]any); len(cards) != 2 {
		t.Fatalf("set cards = %d", len(cards))
	}
}

func TestImagesSkipsPlainBacks(t *testing.T) {
	p := fixtureProject(t)
	folder := filepath.Join(t.TempDir(), "export")
	renderer := render.New(assets.DirsFor(filepath.Join(t.TempDir(), "assets")), logging.NewNop())

	knife := cardByName(t, p, "Knife")
	err := Images(context.Background(), renderer, []*project.Card{knife}, ImageOptions{
		Folder: folder, Format: "png", Workers: 1,
	})
	if err != nil {
		t.Fatalf("Images returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(folder, "Knife_front.png")); err != nil {
		t.Fatalf("front image missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "Knife_back.png")); err == nil {
		t.Fatal("plain player back should be skipped")
	}
}

func TestImagesIncludeBacks(t *testing.T) {
	p := fixtureProject(t)
	folder := filepath.Join(t.TempDir(), "export")
	renderer := render.New(assets.DirsFor(filepath.Join(t.TempDir(), "assets")), logging.NewNop())

	knife := cardByName(t, p, "Knife")
	err := Images(context.Background(), renderer, []*project.Card{knife}, ImageOptions{
		Folder: folder, Format: "png", IncludeBacks: true, Workers: 2,
	})
	if err != nil {
		t.Fatalf("Images returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "Knife_back.png")); err != nil {
		t.Fatalf("back image missing: %v", err)
	}
}

func TestPDFSheets(t *testing.T) {
	p := fixtureProject(t)
	path := filepath.Join(t.TempDir(), "sheets.pdf")
	renderer := render.New(assets.DirsFor(filepath.Join(t.TempDir(), "assets")), logging.NewNop())

	if err := PDF(renderer, p.Cards(), PDFOptions{Path: path}); err != nil {
		t.Fatalf("PDF returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty pdf")
	}
}
