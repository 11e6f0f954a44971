package project_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tokeeto/shoggoth/internal/assets"
	"github.com/tokeeto/shoggoth/internal/project"
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

func baseProjectData(cards ...map[string]any) map[string]any {
	entries := make([]any, 0, len(cards))
	for _, card := range cards {
		entries = append(entries, card)
	}
	return map[string]any{
		"name":           "Test Expansion",
		"code":           "tst",
		"icon":           "",
		"encounter_sets": []any{},
		"cards":          entries,
	}
}

func TestFaceExplicitValueWinsOverDefaults(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name":  "Knife",
		"front": map[string]any{"type": "asset", "template": "custom_template"},
		"back":  map[string]any{"type": "player"},
	}))

	card := p.Cards()[0]
	if got := card.Front.GetString("template"); got != "custom_template" {
		t.Fatalf("explicit value not preferred: %q", got)
	}
}

func TestFaceFallsBackToTypeDefaults(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name":  "Knife",
		"front": map[string]any{"type": "asset"},
		"back":  map[string]any{"type": "player"},
	}))

	card := p.Cards()[0]
	if got := card.Front.GetString("template"); got != "asset_<class>" {
		t.Fatalf("expected bundled asset defaults, got %q", got)
	}
	region := card.Front.GetMap("name_region")
	if region == nil {
		t.Fatal("expected name_region from defaults")
	}
}

func TestFaceClassSuffixedDefaultBeatsPlainKey(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name": "Spell",
		"front": map[string]any{
			"type":    "asset",
			"classes": []any{"mystic"},
		},
		"back": map[string]any{"type": "player"},
	}))

	card := p.Cards()[0]
	// the bundled asset defaults carry text_color_mystic
	if got := card.Front.GetString("text_color"); got != "#2a1d52" {
		t.Fatalf("class-suffixed default not preferred: %q", got)
	}
}

func TestFaceProjectLocalDefaultsOverrideBundled(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name":  "Knife",
		"front": map[string]any{"type": "asset"},
		"back":  map[string]any{"type": "player"},
	}))

	local := filepath.Join(p.Folder(), "asset.json")
	if err := os.WriteFile(local, []byte(`{"template": "house_rules"}`), 0644); err != nil {
		t.Fatal(err)
	}

	card := p.Cards()[0]
	if got := card.Front.GetString("template"); got != "house_rules" {
		t.Fatalf("project-local defaults not preferred: %q", got)
	}
}

func TestFaceCopyResolvesAgainstOtherSide(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name": "Mirror",
		"front": map[string]any{
			"type":   "story",
			"text":   "<copy>",
			"traits": "Omen.",
		},
		"back": map[string]any{
			"type": "story",
			"text": "The real text.",
		},
	}))

	card := p.Cards()[0]
	if got := card.Front.GetString("text"); got != "The real text." {
		t.Fatalf("copy value not resolved from other side: %q", got)
	}
	if got := card.Back.GetString("traits"); got != "" {
		t.Fatalf("back should not inherit front values: %q", got)
	}
}

func TestFaceClass(t *testing.T) {
	p := testProject(t, baseProjectData(
		map[string]any{
			"name":  "a",
			"front": map[string]any{"type": "asset"},
			"back":  map[string]any{"type": "player"},
		},
		map[string]any{
			"name":  "b",
			"front": map[string]any{"type": "asset", "classes": []any{"rogue"}},
			"back":  map[string]any{"type": "player"},
		},
		map[string]any{
			"name":  "c",
			"front": map[string]any{"type": "asset", "classes": []any{"rogue", "seeker"}},
			"back":  map[string]any{"type": "player"},
		},
		map[string]any{
			"name":  "d",
			"front": map[string]any{"type": "asset", "classes": []any{}},
			"back":  map[string]any{"type": "player"},
		},
	))

	cards := p.Cards()
	want := map[string]string{"a": "guardian", "b": "rogue", "c": "multi", "d": ""}
	for _, card := range cards {
		if got := card.Front.Class(); got != want[card.Name()] {
			t.Errorf("card %s: class %q, want %q", card.Name(), got, want[card.Name()])
		}
	}
}

func TestFaceSetTypeInvalidatesFallback(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name":  "Shifty",
		"front": map[string]any{"type": "asset"},
		"back":  map[string]any{"type": "player"},
	}))

	card := p.Cards()[0]
	if got := card.Front.GetString("template"); got != "asset_<class>" {
		t.Fatalf("unexpected initial template: %q", got)
	}

	card.Front.Set("type", "enemy")
	if got := card.Front.GetString("template"); got != "enemy" {
		t.Fatalf("fallback not invalidated on type change: %q", got)
	}
}

func TestFaceSetNilDeletesField(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name":  "Erased",
		"front": map[string]any{"type": "asset", "text": "gone soon"},
		"back":  map[string]any{"type": "player"},
	}))

	card := p.Cards()[0]
	card.Front.Set("text", nil)
	if _, ok := card.Front.Data["text"]; ok {
		t.Fatal("expected field to be removed")
	}
}

func TestFaceFallbackConcurrentAcrossSides(t *testing.T) {
	p := testProject(t, baseProjectData(map[string]any{
		"name": "Shared",
		"front": map[string]any{
			"type": "asset",
			"text": "Exhaust: do the thing.",
		},
		"back": map[string]any{
			"type": "player",
			"text": "<copy>",
		},
	}))

	// both faces of a card are rendered by different workers, and the
	// back's <copy> reads through the front while the front resolves its
	// own fallback
	card := p.Cards()[0]
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := card.Front.GetString("template"); got != "asset_<class>" {
				t.Errorf("unexpected front template: %q", got)
			}
			if got := card.Back.GetString("text"); got != "Exhaust: do the thing." {
				t.Errorf("copy not resolved: %q", got)
			}
		}()
	}
	wg.Wait()
}
