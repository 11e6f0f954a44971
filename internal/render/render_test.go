package render

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
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

func TestTokenizePlainText(t *testing.T) {
	tokens := tokenize("Draw a card.")
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].kind != tokenText || tokens[0].value != "Draw" {
		t.Errorf("first token = %v", tokens[0])
	}
	if tokens[1].value != " " {
		t.Errorf("expected space token, got %v", tokens[1])
	}
}

func TestTokenizeFormattingTags(t *testing.T) {
	tokens := tokenize("<b>Forced</b> effect")
	if tokens[0].kind != tokenFont || tokens[0].value != "bold" || !tokens[0].start {
		t.Fatalf("opening tag token = %v", tokens[0])
	}
	if tokens[1].kind != tokenText || tokens[1].value != "Forced" {
		t.Fatalf("text token = %v", tokens[1])
	}
	if tokens[2].kind != tokenFont || tokens[2].start {
		t.Fatalf("closing tag token = %v", tokens[2])
	}
}

func TestTokenizeGlyphAndAlignment(t *testing.T) {
	tokens := tokenize("<center>Test <skull></center>")
	if tokens[0].kind != tokenAlign || tokens[0].value != "center" {
		t.Fatalf("alignment token = %v", tokens[0])
	}
	var glyph *token
	for i := range tokens {
		if tokens[i].kind == tokenFontIcon {
			glyph = &tokens[i]
		}
	}
	if glyph == nil || glyph.value != "S" {
		t.Fatalf("skull glyph not tokenized: %v", tokens)
	}
}

func TestTokenizeKeywordTemplates(t *testing.T) {
	tokens := tokenize("<rev> Draw.")
	if tokens[0].kind != tokenFont || tokens[0].value != "bold" {
		t.Fatalf("expected bold from revelation template, got %v", tokens[0])
	}
	if tokens[1].value != "Revelation" {
		t.Fatalf("expected expanded keyword, got %v", tokens[1])
	}
}

func TestTokenizeImageTag(t *testing.T) {
	tokens := tokenize(`See <image src="icons/some_icon"> here`)
	var img *token
	for i := range tokens {
		if tokens[i].kind == tokenImageIcon {
			img = &tokens[i]
		}
	}
	if img == nil || img.value != "icons/some_icon" {
		t.Fatalf("image tag not tokenized: %v", tokens)
	}
}

func TestTokenizeLiteralAngleBracket(t *testing.T) {
	tokens := tokenize("a < b")
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[2].kind != tokenText || tokens[2].value != "<" {
		t.Fatalf("literal bracket token = %v", tokens[2])
	}
}

func TestMatchImageTagAttributes(t *testing.T) {
	attrs, length, ok := matchImageTag(`<image src="foo.png" width="12"> tail`)
	if !ok {
		t.Fatal("tag not matched")
	}
	if attrs["src"] != "foo.png" || attrs["width"] != "12" {
		t.Fatalf("attrs = %v", attrs)
	}
	if length != len(`<image src="foo.png" width="12">`) {
		t.Fatalf("length = %d", length)
	}
}

func TestParseRegionShiftsOntoBledCanvas(t *testing.T) {
	region := ParseRegion(map[string]any{
		"x": float64(40), "y": float64(50),
		"width": float64(100), "height": float64(60),
	})
	if region.X != 40+EdgeBleed || region.Y != 50+EdgeBleed {
		t.Errorf("region not shifted: %+v", region)
	}
	if !region.Valid() {
		t.Error("region should be valid")
	}
}

func TestParseRegionAttached(t *testing.T) {
	region := ParseRegion(map[string]any{"is_attached": true})
	if !region.IsAttached {
		t.Error("attachment flag lost")
	}
	if ParseRegion(nil).Valid() {
		t.Error("empty region should be invalid")
	}
}

func TestSubstituteTags(t *testing.T) {
	p := testProject(t, map[string]any{
		"name":           "Test Expansion",
		"code":           "tst",
		"icon":           "",
		"encounter_sets": []any{},
		"cards": []any{map[string]any{
			"name": "Knife",
			"front": map[string]any{
				"type":      "asset",
				"copyright": "© 2026 FFG",
			},
			"back": map[string]any{"type": "player"},
		}},
	})
	card := p.Cards()[0]
	card.SetExpansionNumber(7)

	got := Substitute("collection", "<name> #<exn> <copyright>", card.Front)
	want := "Knife #7 © 2026 FFG"
	if got != want {
		t.Fatalf("Substitute = %q, want %q", got, want)
	}

	// no expansion icon configured, the tag collapses
	if got := Substitute("collection", "x<exi>y", card.Front); got != "xy" {
		t.Fatalf("expansion icon tag not removed: %q", got)
	}
}

func TestSubstituteEncounterTags(t *testing.T) {
	p := testProject(t, map[string]any{
		"name": "Test Expansion",
		"code": "tst",
		"icon": "",
		"encounter_sets": []any{map[string]any{
			"name": "Ghouls",
			"icon": "ghouls.png",
			"cards": []any{map[string]any{
				"name":  "Ghoul",
				"front": map[string]any{"type": "enemy"},
				"back":  map[string]any{"type": "encounter"},
			}},
		}},
	})
	p.AssignCardNumbers()
	card := p.Cards()[0]

	got := Substitute("collection", "<esn>/<est>", card.Front)
	if got != "1-2/2" {
		t.Fatalf("encounter tags = %q", got)
	}
	if got := Substitute("collection", "<esi>", card.Front); got != `<image src="ghouls.png">` {
		t.Fatalf("set icon tag = %q", got)
	}
}

func TestFieldStringFormatsNumbers(t *testing.T) {
	p := testProject(t, map[string]any{
		"name":           "Test Expansion",
		"code":           "tst",
		"icon":           "",
		"encounter_sets": []any{},
		"cards": []any{map[string]any{
			"name": "Knife",
			"front": map[string]any{
				"type": "asset",
				"cost": float64(3),
			},
			"back": map[string]any{"type": "player"},
		}},
	})
	face := p.Cards()[0].Front
	if got := fieldString(face, "cost"); got != "3" {
		t.Errorf("cost = %q", got)
	}
	if got := fieldString(face, "missing"); got != "" {
		t.Errorf("missing field = %q", got)
	}
}

func TestTextStyleFromFontSpec(t *testing.T) {
	p := testProject(t, map[string]any{
		"name":           "Test Expansion",
		"code":           "tst",
		"icon":           "",
		"encounter_sets": []any{},
		"cards": []any{map[string]any{
			"name": "Knife",
			"front": map[string]any{
				"type": "asset",
				"name_font": map[string]any{
					"font": "title", "size": float64(38),
					"color": "#ffffff", "alignment": "center",
				},
			},
			"back": map[string]any{"type": "player"},
		}},
	})
	face := p.Cards()[0].Front

	style := textStyle(face, "name", 20)
	if style.Font != "title" || style.Size != 38 || style.Color != "#ffffff" || style.Alignment != "center" {
		t.Fatalf("style = %+v", style)
	}

	fallback := textStyle(face, "victory", 24)
	if fallback.Font != "regular" || fallback.Size != 24 {
		t.Fatalf("fallback style = %+v", fallback)
	}
}

func TestFaceHashTracksData(t *testing.T) {
	p := testProject(t, map[string]any{
		"name":           "Test Expansion",
		"code":           "tst",
		"icon":           "",
		"encounter_sets": []any{},
		"cards": []any{map[string]any{
			"name":  "Knife",
			"front": map[string]any{"type": "asset"},
			"back":  map[string]any{"type": "player"},
		}},
	})
	card := p.Cards()[0]

	before := FaceHash(card.Front)
	if before == "" {
		t.Fatal("empty hash")
	}
	if again := FaceHash(card.Front); again != before {
		t.Fatal("hash not stable")
	}
	card.Front.Set("cost", 3)
	if after := FaceHash(card.Front); after == before {
		t.Fatal("hash unchanged after edit")
	}
}

func TestRenderIllustrationRotation(t *testing.T) {
	dir := t.TempDir()
	art := image.NewRGBA(image.Rect(0, 0, 4, 4))
	art.Set(0, 0, color.RGBA{R: 255, A: 255})
	artPath := filepath.Join(dir, "art.png")
	file, err := os.Create(artPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(file, art); err != nil {
		t.Fatal(err)
	}
	file.Close()

	p := testProject(t, map[string]any{
		"name": "Test Expansion",
		"code": "tst",
		"cards": []any{map[string]any{
			"name": "Spinner",
			"front": map[string]any{
				"type":                  "asset",
				"illustration":          artPath,
				"illustration_scale":    1,
				"illustration_rotation": 180,
				"illustration_region": map[string]any{
					"x": 10, "y": 10, "width": 4, "height": 4,
				},
			},
			"back": map[string]any{"type": "player"},
		}},
	})
	face := p.Cards()[0].Front

	r := New(assets.DirsFor(filepath.Join(dir, "assets")), nil)
	dc := gg.NewContext(200, 200)
	if err := r.renderIllustration(dc, face); err != nil {
		t.Fatalf("renderIllustration returned error: %v", err)
	}

	// a half turn carries the marked origin pixel to the far corner
	x, y := 10+EdgeBleed, 10+EdgeBleed
	if red, _, _, _ := dc.Image().At(x+3, y+3).RGBA(); red == 0 {
		t.Error("rotated pixel missing from the far corner")
	}
	if red, _, _, _ := dc.Image().At(x, y).RGBA(); red != 0 {
		t.Error("origin pixel should have rotated away")
	}
}

func TestCheckboxLines(t *testing.T) {
	entries := []any{
		[]any{float64(2), "Versatile", "Heal 1 damage instead."},
		[]any{float64(3), "Bolstered", "Gain +1 health."},
		"not an entry",
	}
	got := checkboxLines(entries)
	want := "\n☐☐ <b>Versatile.</b> Heal 1 damage instead." +
		"\n☐☐☐ <b>Bolstered.</b> Gain +1 health."
	if got != want {
		t.Fatalf("checkboxLines = %q, want %q", got, want)
	}
	if checkboxLines("nope") != "" {
		t.Fatal("non-list entries should format as nothing")
	}
}

func TestCacheKeySeparatesVariants(t *testing.T) {
	p := testProject(t, map[string]any{
		"name": "Test Expansion",
		"code": "tst",
		"cards": []any{map[string]any{
			"name":  "Knife",
			"front": map[string]any{"type": "asset"},
			"back":  map[string]any{"type": "player"},
		}},
	})
	face := p.Cards()[0].Front
	dirs := assets.DirsFor("assets")

	key := CacheKey(face, "front", true, dirs)
	if CacheKey(face, "front", false, dirs) == key {
		t.Fatal("bleed toggle should change the cache key")
	}
	if CacheKey(face, "back", true, dirs) == key {
		t.Fatal("sides should key separately")
	}
	if CacheKey(face, "front", true, assets.DirsFor("elsewhere")) == key {
		t.Fatal("asset dir should change the cache key")
	}
}
