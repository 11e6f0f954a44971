package project

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// CopyValue marks a field that resolves against the other face of the card.
const CopyValue = "<copy>"

// Face represents one side (front/back) of a card.
//
// A face is a loose field map persisted as part of the card JSON. Reads fall
// back to the layout defaults for the face's type: a class-suffixed key
// (for example "text_color_mystic") wins over the plain key there.
type Face struct {
	Data map[string]any

	card *Card

	mu       sync.Mutex
	fallback map[string]any
}

func newFace(data map[string]any, card *Card) *Face {
	if data == nil {
		data = map[string]any{}
	}
	return &Face{Data: data, card: card}
}

// Card returns the card this face belongs to.
func (f *Face) Card() *Card {
	return f.card
}

// Type returns the face type, which selects the rendering template.
func (f *Face) Type() string {
	t, _ := f.Data["type"].(string)
	return t
}

// Class returns the face class: the single configured class, "multi" for
// several, or the default class when none is configured.
func (f *Face) Class() string {
	raw, ok := f.Data["classes"]
	if !ok {
		return "guardian"
	}
	classes := toStrings(raw)
	switch len(classes) {
	case 0:
		return ""
	case 1:
		return classes[0]
	default:
		return "multi"
	}
}

// Fallback returns the layout defaults for the face's type. A file named
// after the type next to the project file overrides the installed and
// bundled defaults. Safe for concurrent use: the render workers resolve
// both faces of a card at the same time.
func (f *Face) Fallback() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fallback != nil {
		return f.fallback
	}

	data, err := f.card.project.loadDefaults(f.Type())
	if err != nil {
		slog.Debug("no layout defaults for face", "type", f.Type(), "error", err)
		data = map[string]any{}
	}
	f.fallback = data
	return f.fallback
}

// InvalidateFallback drops the cached layout defaults, forcing a reload.
func (f *Face) InvalidateFallback() {
	f.mu.Lock()
	f.fallback = nil
	f.mu.Unlock()
}

// OtherSide returns the opposite face of the card.
func (f *Face) OtherSide() *Face {
	if f == f.card.Front {
		return f.card.Back
	}
	return f.card.Front
}

// lookup resolves a key against the face data and its fallback without
// applying copy semantics.
func (f *Face) lookup(key string) (any, bool) {
	if value, ok := f.Data[key]; ok {
		return value, true
	}
	fallback := f.Fallback()
	if cls := f.Class(); cls != "" {
		if value, ok := fallback[key+"_"+cls]; ok {
			return value, true
		}
	}
	value, ok := fallback[key]
	return value, ok
}

// Value resolves a key through the face, its type defaults, and copy
// semantics against the other face.
func (f *Face) Value(key string) (any, bool) {
	value, ok := f.lookup(key)
	if !ok {
		return nil, false
	}
	if s, isString := value.(string); isString && s == CopyValue {
		return f.OtherSide().lookup(key)
	}
	return value, true
}

// GetString returns the resolved value as a string, or "" when unset.
func (f *Face) GetString(key string) string {
	value, ok := f.Value(key)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetInt returns the resolved value as an int; non-numeric values yield the
// fallback argument.
func (f *Face) GetInt(key string, fallback int) int {
	value, ok := f.Value(key)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// GetBool returns the resolved value as a bool.
func (f *Face) GetBool(key string, fallback bool) bool {
	value, ok := f.Value(key)
	if !ok {
		return fallback
	}
	if b, isBool := value.(bool); isBool {
		return b
	}
	return fallback
}

// GetStrings returns the resolved value as a string slice.
func (f *Face) GetStrings(key string) []string {
	value, ok := f.Value(key)
	if !ok {
		return nil
	}
	return toStrings(value)
}

// GetMap returns the resolved value as an object.
func (f *Face) GetMap(key string) map[string]any {
	value, ok := f.Value(key)
	if !ok {
		return nil
	}
	m, _ := value.(map[string]any)
	return m
}

// Set writes a field on the face. Setting nil removes the field. Changing
// the type invalidates the cached layout defaults.
func (f *Face) Set(key string, value any) {
	if key == "type" {
		f.InvalidateFallback()
	}
	if value == nil {
		delete(f.Data, key)
		return
	}
	f.Data[key] = value
}

func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}
