package project

import (
	"fmt"
	"sort"
)

var typeOrder = map[string]int{
	"scenario":     0,
	"chaos":        1,
	"agenda":       2,
	"act":          3,
	"location":     4,
	"story":        5,
	"key":          6,
	"treachery":    7,
	"enemy":        8,
	"investigator": 10,
	"other":        11,
}

var classOrder = map[string]int{
	"guardian": 0,
	"seeker":   1,
	"rogue":    2,
	"mystic":   3,
	"survivor": 4,
	"neutral":  5,
	"multi":    6, // multi-class cards sort last
}

// SortCards orders cards for display and numbering: card type, then
// agenda/act index, class, level, and finally name. The index and level
// keys compare as strings since they hold values like "1a".
func SortCards(cards []*Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := sortKey(cards[i]), sortKey(cards[j])
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
}

func sortKey(card *Card) [6]string {
	return [6]string{
		paddedOrder(typeOrder, card.Front.Type()),
		stringOrDefault(card.Front, "agenda_index"),
		stringOrDefault(card.Front, "act_index"),
		paddedOrder(classOrder, card.Class()),
		stringOrDefault(card.Front, "level"),
		card.Name(),
	}
}

func paddedOrder(table map[string]int, key string) string {
	return fmt.Sprintf("%02d", orderValue(table, key))
}

func orderValue(table map[string]int, key string) int {
	if v, ok := table[key]; ok {
		return v
	}
	return 15
}

func stringOrDefault(face *Face, key string) string {
	if value, ok := face.Value(key); ok && value != nil {
		if s := face.GetString(key); s != "" {
			return s
		}
	}
	return "15"
}

func sortEncounterSets(sets []*EncounterSet) {
	sort.SliceStable(sets, func(i, j int) bool {
		if sets[i].Order() != sets[j].Order() {
			return sets[i].Order() < sets[j].Order()
		}
		return sets[i].Name() < sets[j].Name()
	})
}
