// Package assets locates the art and layout assets used for card rendering.
//
// The asset directory holds template images, overlays, fonts, icons and the
// per-type layout defaults. A minimal set of layout defaults is bundled with
// the binary so projects render before any assets are installed.
package assets

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed defaults/*.json
var bundled embed.FS

// Dirs holds the resolved asset directory layout.
type Dirs struct {
	Root      string
	Defaults  string
	Fonts     string
	Overlays  string
	Templates string
	Icons     string
}

// DirsFor returns the directory layout rooted at the given asset directory.
func DirsFor(root string) Dirs {
	return Dirs{
		Root:      root,
		Defaults:  filepath.Join(root, "defaults"),
		Fonts:     filepath.Join(root, "fonts"),
		Overlays:  filepath.Join(root, "overlays"),
		Templates: filepath.Join(root, "templates"),
		Icons:     filepath.Join(root, "icons"),
	}
}

// LoadDefaults reads the layout defaults for a face type. Installed defaults
// take priority over the bundled ones.
func (d Dirs) LoadDefaults(faceType string) (map[string]any, error) {
	if faceType == "" {
		return nil, fmt.Errorf("empty face type")
	}

	name := faceType + ".json"
	if raw, err := os.ReadFile(filepath.Join(d.Defaults, name)); err == nil {
		return decodeDefaults(raw, name)
	}

	raw, err := bundled.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("no layout defaults for face type %q", faceType)
	}
	return decodeDefaults(raw, name)
}

func decodeDefaults(raw []byte, name string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing defaults file %s: %v", name, err)
	}
	return data, nil
}

// OverlayPath returns the path of a named overlay image.
func (d Dirs) OverlayPath(name string) string {
	return filepath.Join(d.Overlays, name+".png")
}

// TemplatePath returns the path of a named template image.
func (d Dirs) TemplatePath(name string) string {
	return filepath.Join(d.Templates, name+".png")
}

// IconPath resolves an icon reference, which may already be a full path.
func (d Dirs) IconPath(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(d.Icons, name+".png")
}

// FontPath returns the path of a font file in the fonts directory.
func (d Dirs) FontPath(file string) string {
	return filepath.Join(d.Fonts, file)
}
