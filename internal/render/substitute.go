package render

import (
	"fmt"
	"strings"

	"github.com/tokeeto/shoggoth/internal/project"
)

// Substitute expands the replacement tags of a text field before layout:
// card name, the other face's value, expansion and encounter set icons and
// numbers, and the copyright line.
func Substitute(field, value string, face *project.Face) string {
	card := face.Card()
	value = strings.ReplaceAll(value, "<name>", card.Name())

	value = strings.ReplaceAll(value, "<copy>", face.OtherSide().GetString(field))

	if icon := card.Project().Icon(); icon != "" {
		value = strings.ReplaceAll(value, "<exi>", fmt.Sprintf(`<image src="%s">`, icon))
	} else {
		value = strings.ReplaceAll(value, "<exi>", "")
	}

	value = strings.ReplaceAll(value, "<exn>", fmt.Sprintf("%d", card.ExpansionNumber()))
	value = strings.ReplaceAll(value, "<esn>", card.EncounterNumber())

	set := card.EncounterSet()
	if set != nil && strings.Contains(value, "<est>") {
		value = strings.ReplaceAll(value, "<est>", fmt.Sprintf("%d", set.TotalCards()))
	} else {
		value = strings.ReplaceAll(value, "<est>", "")
	}

	if set != nil && set.Icon() != "" {
		value = strings.ReplaceAll(value, "<esi>", fmt.Sprintf(`<image src="%s">`, set.Icon()))
	} else {
		value = strings.ReplaceAll(value, "<esi>", "")
	}

	value = strings.ReplaceAll(value, "<copyright>", face.GetString("copyright"))

	return value
}
