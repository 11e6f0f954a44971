package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tokeeto/shoggoth/internal/project"
)

// cardBackURL is the stock player/encounter card back hosted for Tabletop
// Simulator mods.
const cardBackURL = "https://steamusercontent-a.akamaihd.net/ugc/2038486699957628515/8202EA3F06FDDD807A34BD6F62FE2E0A0723B8CD/"

// TTSOptions controls Tabletop Simulator export.
type TTSOptions struct {
	Path        string
	ImageFolder string // where the face images were exported
	ImageFormat string
}

// TTS writes a Tabletop Simulator saved object: a bag holding one inner bag
// per encounter set plus the loose player cards, referencing the exported
// face images.
func TTS(p *project.Project, opts TTSOptions) error {
	if opts.ImageFormat == "" {
		opts.ImageFormat = "png"
	}

	bag := map[string]any{
		"Name":             "Bag",
		"Nickname":         p.Name(),
		"Transform":        transform(),
		"Locked":           false,
		"Grid":             true,
		"Snap":             true,
		"Hands":            true,
		"DeckIDs":          []any{},
		"ContainedObjects": []any{},
	}

	currentID := 6000
	var setBags []any
	for _, set := range p.EncounterSets() {
		contained := []any{}
		deckIDs := []any{}
		for _, card := range set.Cards() {
			for variant := 0; variant < card.Amount(); variant++ {
				contained = append(contained, cardObject(card, currentID, opts))
				deckIDs = append(deckIDs, currentID*100)
				currentID++
			}
		}
		setBags = append(setBags, map[string]any{
			"Name":             "Bag",
			"Nickname":         set.Name(),
			"Transform":        transform(),
			"Hands":            true,
			"DeckIDs":          deckIDs,
			"ContainedObjects": contained,
		})
	}
	bag["ContainedObjects"] = setBags

	states := []any{bag}
	for _, card := range p.PlayerCards() {
		for variant := 0; variant < card.Amount(); variant++ {
			states = append(states, cardObject(card, currentID, opts))
			currentID++
		}
	}

	wrapper := map[string]any{
		"SaveName":      "",
		"Date":          "",
		"VersionNumber": "",
		"GameMode":      "",
		"Gravity":       0.5,
		"PlayArea":      0.5,
		"Note":          "",
		"TabStates":     map[string]any{},
		"LuaScript":     "",
		"XmlUI":         "",
		"ObjectStates":  states,
	}

	raw, err := json.MarshalIndent(wrapper, "", "    ")
	if err != nil {
		return fmt.Errorf("encode saved object: %w", err)
	}
	if err := os.WriteFile(opts.Path, raw, 0o644); err != nil {
		return fmt.Errorf("write saved object: %w", err)
	}
	return nil
}

func transform() map[string]any {
	return map[string]any{
		"posX": 0.0, "posY": 0.0, "posZ": 0.0,
		"rotX": 0.0, "rotY": 270.0, "rotZ": 0.0,
		"scaleX": 1.0, "scaleY": 1.0, "scaleZ": 1.0,
	}
}

// cardObject builds a single TTS card object. Plain player and encounter
// backs use the stock hosted image; everything else points at the exported
// face files.
func cardObject(card *project.Card, id int, opts TTSOptions) map[string]any {
	deck := map[string]any{
		"BackIsHidden": true,
		"NumHeight":    1,
		"NumWidth":     1,
		"Type":         0,
		"UniqueBack":   true,
	}
	tags := []any{}

	if card.Front.Type() == "player" || card.Front.Type() == "encounter" {
		deck["FaceURL"] = cardBackURL
	} else {
		deck["FaceURL"] = "file:///" + ImagePath(opts.ImageFolder, card, "front", opts.ImageFormat)
	}
	if card.Back.Type() == "player" || card.Back.Type() == "encounter" {
		deck["BackURL"] = cardBackURL
	} else {
		deck["BackURL"] = "file:///" + ImagePath(opts.ImageFolder, card, "back", opts.ImageFormat)
	}

	if IsPlayerCard(card) {
		tags = append(tags, "PlayerCard")
	}
	if IsEncounterCard(card) {
		tags = append(tags, "EncounterCard")
	}
	switch card.Front.Type() {
	case "location":
		tags = append(tags, "Location")
	case "asset":
		tags = append(tags, "Asset")
	case "act":
		tags = append(tags, "Act")
	case "agenda":
		tags = append(tags, "Agenda")
	}

	return map[string]any{
		"Name":        "Card",
		"Nickname":    card.Name(),
		"Description": card.Name(),
		"GUID":        card.ID(),
		"CardID":      id * 100,
		"Tags":        tags,
		"Transform":   transform(),
		"CustomDeck":  map[string]any{fmt.Sprintf("%d", id): deck},
	}
}
