// Package render draws card faces onto bled 300dpi canvases from the
// resolved face data and the installed art assets.
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"

	"github.com/tokeeto/shoggoth/internal/assets"
	"github.com/tokeeto/shoggoth/internal/project"
)

// textFields lists every field drawn as rich text, in draw order.
var textFields = []string{
	"cost", "name", "traits", "text", "subtitle", "label", "index",
	"attack", "evade", "health", "stamina", "sanity", "victory",
	"clues", "doom", "shroud", "willpower", "intellect",
	"combat", "agility", "illustrator", "copyright", "collection",
	"difficulty", "text1", "text2", "text3",
}

type resizeKey struct {
	path          string
	width, height int
}

// Renderer draws card faces. It caches decoded and resized images, so a
// single renderer should be shared across a render run.
type Renderer struct {
	assets assets.Dirs
	text   *TextRenderer
	log    *slog.Logger

	mu      sync.Mutex
	images  map[string]image.Image
	resized map[resizeKey]image.Image
}

// New returns a renderer reading art from dirs.
func New(dirs assets.Dirs, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{
		assets:  dirs,
		text:    NewTextRenderer(dirs),
		log:     log,
		images:  map[string]image.Image{},
		resized: map[resizeKey]image.Image{},
	}
}

func openImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding image %s: %v", path, err)
	}
	return img, nil
}

func (r *Renderer) cached(path string) (image.Image, error) {
	r.mu.Lock()
	if img, ok := r.images[path]; ok {
		r.mu.Unlock()
		return img, nil
	}
	r.mu.Unlock()

	img, err := openImage(path)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.images[path] = img
	r.mu.Unlock()
	return img, nil
}

func (r *Renderer) resizedCached(path string, width, height int) (image.Image, error) {
	key := resizeKey{path: path, width: width, height: height}
	r.mu.Lock()
	if img, ok := r.resized[key]; ok {
		r.mu.Unlock()
		return img, nil
	}
	r.mu.Unlock()

	img, err := r.cached(path)
	if err != nil {
		return nil, err
	}
	img = resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	r.mu.Lock()
	r.resized[key] = img
	r.mu.Unlock()
	return img, nil
}

// InvalidateCache drops all cached images. Called when files on disk change.
func (r *Renderer) InvalidateCache() {
	r.mu.Lock()
	r.images = map[string]image.Image{}
	r.resized = map[resizeKey]image.Image{}
	r.mu.Unlock()
}

// FaceHash returns a stable digest of everything that affects how a face
// renders, used as a render cache key.
func FaceHash(face *project.Face) string {
	card := face.Card()
	payload := map[string]any{
		"card":   card.Data,
		"type":   face.Type(),
		"number": card.EncounterNumber(),
		"exn":    card.ExpansionNumber(),
	}
	if set := card.EncounterSet(); set != nil {
		payload["set"] = set.Data
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// CacheKey derives the render cache key for one rendered variant of a face.
// The bleed setting and the asset directory change the output, so both key
// separately from the face data.
func CacheKey(face *project.Face, side string, bleed bool, dirs assets.Dirs) string {
	return fmt.Sprintf("%s|%s|bleed=%t|%s", FaceHash(face), side, bleed, dirs.Root)
}

// RenderFace renders one side of a card, including bleed when asked for.
func (r *Renderer) RenderFace(face *project.Face, includeBleed bool) (image.Image, error) {
	width, height := CardWidth+CardBleed, CardHeight+CardBleed
	if face.GetString("orientation") == "horizontal" {
		width, height = height, width
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	dc := gg.NewContextForRGBA(canvas)

	templateBleed := face.GetBool("template_bleed", false)
	if err := r.renderIllustration(dc, face); err != nil {
		r.log.Debug("illustration skipped", "card", face.Card().Name(), "error", err)
	}
	if err := r.renderTemplate(dc, face, templateBleed, width, height); err != nil {
		r.log.Debug("template skipped", "card", face.Card().Name(), "error", err)
	}
	// investigator portraits sit on top of the template frame
	if face.Type() == "investigator" {
		if err := r.renderIllustration(dc, face); err != nil {
			r.log.Debug("illustration skipped", "card", face.Card().Name(), "error", err)
		}
	}

	if !templateBleed {
		r.mirrorBleed(dc, canvas, width, height)
	}

	passes := []struct {
		name string
		fn   func(*gg.Context, *project.Face) error
	}{
		{"level", r.renderLevel},
		{"encounter_icon", r.renderEncounterIcon},
		{"expansion_icon", r.renderExpansionIcon},
		{"skill_icons", r.renderSkillIcons},
		{"connections", r.renderConnectionIcons},
		{"tokens", r.renderTokens},
		{"health", r.renderHealth},
		{"text", r.renderText},
		{"class_symbols", r.renderClassSymbols},
		{"enemy_stats", r.renderEnemyStats},
		{"slots", r.renderSlots},
		{"chaos", r.renderChaos},
		{"customizable", r.renderCustomizable},
	}
	for _, pass := range passes {
		if err := pass.fn(dc, face); err != nil {
			r.log.Debug("render pass failed", "pass", pass.name, "card", face.Card().Name(), "error", err)
		}
	}

	if !includeBleed {
		cropped := image.NewRGBA(image.Rect(0, 0, width-CardBleed, height-CardBleed))
		draw.Draw(cropped, cropped.Bounds(), canvas, image.Pt(EdgeBleed, EdgeBleed), draw.Src)
		return cropped, nil
	}
	return canvas, nil
}

// RenderCard renders both faces of a card.
func (r *Renderer) RenderCard(card *project.Card, includeBleed bool) (front, back image.Image, err error) {
	front, err = r.RenderFace(card.Front, includeBleed)
	if err != nil {
		return nil, nil, err
	}
	back, err = r.RenderFace(card.Back, includeBleed)
	if err != nil {
		return nil, nil, err
	}
	return front, back, nil
}

// mirrorBleed fills the bleed band by mirroring the card edges outward, for
// templates that carry no bleed of their own.
func (r *Renderer) mirrorBleed(dc *gg.Context, canvas *image.RGBA, width, height int) {
	inner := image.NewRGBA(image.Rect(0, 0, width-CardBleed, height-CardBleed))
	draw.Draw(inner, inner.Bounds(), canvas, image.Pt(EdgeBleed, EdgeBleed), draw.Src)

	flipLR := mirrorHorizontal(inner)
	flipUD := mirrorVertical(inner)
	flipBoth := mirrorVertical(flipLR)

	dc.DrawImage(flipLR, width-EdgeBleed, EdgeBleed)
	dc.DrawImage(flipLR, EdgeBleed-inner.Bounds().Dx(), EdgeBleed)
	dc.DrawImage(flipUD, EdgeBleed, EdgeBleed-inner.Bounds().Dy())
	dc.DrawImage(flipUD, EdgeBleed, height-EdgeBleed)
	dc.DrawImage(flipBoth, EdgeBleed-inner.Bounds().Dx(), EdgeBleed-inner.Bounds().Dy())
	dc.DrawImage(flipBoth, width-EdgeBleed, EdgeBleed-inner.Bounds().Dy())
	dc.DrawImage(flipBoth, EdgeBleed-inner.Bounds().Dx(), height-EdgeBleed)
	dc.DrawImage(flipBoth, width-EdgeBleed, height-EdgeBleed)
}

func mirrorHorizontal(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(bounds.Max.X-1-x, y, src.At(x, y))
		}
	}
	return dst
}

func mirrorVertical(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, bounds.Max.Y-1-y, src.At(x, y))
		}
	}
	return dst
}

func invertKeepAlpha(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			dst.Set(x, y, color.RGBA64{
				R: uint16(0xffff - r),
				G: uint16(0xffff - g),
				B: uint16(0xffff - b),
				A: uint16(a),
			})
		}
	}
	return dst
}

func (r *Renderer) region(face *project.Face, key string) Region {
	return ParseRegion(face.GetMap(key))
}

// fieldString formats a field value for text rendering. Layout data decoded
// from JSON stores numbers as float64.
func fieldString(face *project.Face, key string) string {
	v, ok := face.Value(key)
	if !ok || v == nil {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int(value)) {
			return fmt.Sprintf("%d", int(value))
		}
		return fmt.Sprintf("%v", value)
	case bool:
		return fmt.Sprintf("%v", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func textStyle(face *project.Face, field string, defaultSize float64) TextStyle {
	style := DefaultTextStyle()
	style.Size = defaultSize
	m := face.GetMap(field + "_font")
	if m == nil {
		return style
	}
	if v, ok := m["font"].(string); ok && v != "" {
		style.Font = v
	}
	switch v := m["size"].(type) {
	case float64:
		style.Size = v
	case int:
		style.Size = float64(v)
	}
	if v, ok := m["color"].(string); ok && v != "" {
		style.Color = v
	}
	if v, ok := m["alignment"].(string); ok && v != "" {
		style.Alignment = v
	}
	return style
}

func (r *Renderer) renderIllustration(dc *gg.Context, face *project.Face) error {
	path := face.GetString("illustration")
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		resolved, ok := face.Card().Project().FindFile(path)
		if !ok {
			return fmt.Errorf("illustration not found: %s", path)
		}
		path = resolved
	}

	illustration, err := r.cached(path)
	if err != nil {
		return err
	}
	clip := r.region(face, "illustration_region")

	scale := floatField(face, "illustration_scale")
	if scale == 0 {
		bounds := illustration.Bounds()
		if bounds.Dx() > bounds.Dy() {
			scale = float64(clip.Height) / float64(bounds.Dy())
		} else {
			scale = float64(clip.Width) / float64(bounds.Dx())
		}
	}
	width := int(float64(illustration.Bounds().Dx()) * scale)
	height := int(float64(illustration.Bounds().Dy()) * scale)
	illustration, err = r.resizedCached(path, width, height)
	if err != nil {
		return err
	}

	panX := face.GetInt("illustration_pan_x", 0)
	panY := face.GetInt("illustration_pan_y", 0)
	if rotation := floatField(face, "illustration_rotation"); rotation != 0 {
		// positive angles turn counter-clockwise, about the image center
		cx := float64(clip.X+panX) + float64(width)/2
		cy := float64(clip.Y+panY) + float64(height)/2
		dc.Push()
		dc.RotateAbout(gg.Radians(-rotation), cx, cy)
		dc.DrawImage(illustration, clip.X+panX, clip.Y+panY)
		dc.Pop()
		return nil
	}
	dc.DrawImage(illustration, clip.X+panX, clip.Y+panY)
	return nil
}

func floatField(face *project.Face, key string) float64 {
	v, ok := face.Value(key)
	if !ok {
		return 0
	}
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case string:
		var f float64
		fmt.Sscanf(value, "%f", &f)
		return f
	}
	return 0
}

func (r *Renderer) renderTemplate(dc *gg.Context, face *project.Face, bleed bool, width, height int) error {
	name := face.GetString("template")
	if name == "" {
		return nil
	}
	if strings.Contains(name, "<class>") {
		name = strings.ReplaceAll(name, "<class>", face.Class())
	}
	if strings.Contains(name, "<subtitle>") {
		if face.GetString("subtitle") != "" {
			name = strings.ReplaceAll(name, "<subtitle>", "_subtitle")
		} else {
			name = strings.ReplaceAll(name, "<subtitle>", "")
		}
	}

	path := name
	if _, err := os.Stat(path); err != nil {
		path = r.assets.TemplatePath(name)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("template not found: %s", name)
	}

	if bleed {
		template, err := r.resizedCached(path, width, height)
		if err != nil {
			return err
		}
		dc.DrawImage(template, 0, 0)
		return nil
	}
	template, err := r.resizedCached(path, width-CardBleed, height-CardBleed)
	if err != nil {
		return err
	}
	dc.DrawImage(template, EdgeBleed, EdgeBleed)
	return nil
}

func (r *Renderer) renderLevel(dc *gg.Context, face *project.Face) error {
	region := r.region(face, "level_region")
	if !region.Valid() {
		return nil
	}

	level := fieldString(face, "level")
	if level == "" {
		name := "no_level"
		if override := face.GetString("no_level_overlay"); override != "" {
			name = override
		}
		icon, err := r.cached(r.assets.OverlayPath(name))
		if err != nil {
			return err
		}
		dc.DrawImage(icon, region.X-14, region.Y-63)
		return nil
	}

	icon, err := r.cached(r.assets.OverlayPath("level_" + level))
	if err != nil {
		return err
	}
	dc.DrawImage(icon, region.X, region.Y)
	return nil
}

func (r *Renderer) renderEncounterIcon(dc *gg.Context, face *project.Face) error {
	card := face.Card()
	iconPath := face.GetString("encounter_icon")
	if card.EncounterSet() == nil && iconPath == "" {
		return nil
	}
	region := r.region(face, "encounter_icon_region")
	if !region.Valid() {
		return nil
	}

	if overlay := face.GetString("encounter_overlay"); overlay != "" {
		path := overlay
		if _, err := os.Stat(path); err != nil {
			path = r.assets.OverlayPath(overlay)
		}
		overlayRegion := r.region(face, "encounter_overlay_region")
		img, err := r.resizedCached(path, overlayRegion.Width, overlayRegion.Height)
		if err != nil {
			return err
		}
		dc.DrawImage(img, overlayRegion.X, overlayRegion.Y)
	}

	if iconPath == "" && card.EncounterSet() != nil {
		iconPath = card.EncounterSet().Icon()
	}
	if _, err := os.Stat(iconPath); err != nil {
		iconPath = r.assets.IconPath(iconPath)
	}
	icon, err := r.cached(iconPath)
	if err != nil {
		return err
	}

	bounds := icon.Bounds()
	scale := float64(region.Width) / float64(bounds.Dx())
	if s := float64(region.Height) / float64(bounds.Dy()); s < scale {
		scale = s
	}
	width := int(float64(bounds.Dx()) * scale)
	height := int(float64(bounds.Dy()) * scale)
	icon, err = r.resizedCached(iconPath, width, height)
	if err != nil {
		return err
	}
	dc.DrawImage(icon, region.X+(region.Width-width)/2, region.Y+(region.Height-height)/2)
	return nil
}

// renderExpansionIcon draws the inverted expansion icon into the collection
// strip of player cards.
func (r *Renderer) renderExpansionIcon(dc *gg.Context, face *project.Face) error {
	region := r.region(face, "collection_portrait_clip_region")
	if !region.Valid() {
		return nil
	}
	iconPath := face.Card().Project().Icon()
	if iconPath == "" {
		return nil
	}

	icon, err := r.cached(iconPath)
	if err != nil {
		return err
	}
	bounds := icon.Bounds()
	var width, height int
	if bounds.Dx() > bounds.Dy() {
		width = region.Width
		height = int(float64(region.Height) * float64(bounds.Dy()) / float64(bounds.Dx()))
	} else {
		width = int(float64(region.Width) * float64(bounds.Dx()) / float64(bounds.Dy()))
		height = region.Height
	}
	icon, err = r.resizedCached(iconPath, width, height)
	if err != nil {
		return err
	}
	dc.DrawImage(invertKeepAlpha(icon), region.X, region.Y)
	return nil
}

func (r *Renderer) renderSkillIcons(dc *gg.Context, face *project.Face) error {
	icons := face.GetStrings("icons")
	if len(icons) == 0 {
		return nil
	}

	box, err := r.resizedCached(r.assets.OverlayPath("skill_box_"+face.Class()), 109, 83)
	if err != nil {
		return err
	}
	for index, icon := range icons {
		path := r.assets.OverlayPath("skill_icon_" + icon)
		img, err := r.cached(path)
		if err != nil {
			return err
		}
		img, err = r.resizedCached(path, img.Bounds().Dx()*2, img.Bounds().Dy()*2)
		if err != nil {
			return err
		}
		dc.DrawImage(box, EdgeBleed, index*84+165+EdgeBleed)
		dc.DrawImage(img, 25+EdgeBleed, index*84+181+EdgeBleed)
	}
	return nil
}

func (r *Renderer) renderConnectionIcons(dc *gg.Context, face *project.Face) error {
	if connection := face.GetString("connection"); connection != "" && connection != "None" {
		region := r.region(face, "connection_region")
		base, err := r.cached(r.assets.OverlayPath("location_hi_base"))
		if err != nil {
			return err
		}
		icon, err := r.cached(r.assets.OverlayPath("location_hi_" + connection))
		if err != nil {
			return err
		}
		dc.DrawImage(base, region.X, region.Y)
		dc.DrawImage(icon, region.X+6, region.Y+6)
	}

	for index, connection := range face.GetStrings("connections") {
		if connection == "" || connection == "None" {
			continue
		}
		region := r.region(face, fmt.Sprintf("connection_%d_region", index+1))
		icon, err := r.cached(r.assets.OverlayPath("location_hi_" + connection))
		if err != nil {
			return err
		}
		dc.DrawImage(icon, region.X+6, region.Y+6)
	}
	return nil
}

// renderTokens draws chaos token lines on scenario cards: an icon column
// with a rich text entry per token.
func (r *Renderer) renderTokens(dc *gg.Context, face *project.Face) error {
	tokens := face.GetMap("tokens")
	if len(tokens) == 0 {
		return nil
	}
	region := r.region(face, "chaos_region")
	style := textStyle(face, "chaos", DefaultTextStyle().Size)
	entryHeight := region.Height / len(tokens)

	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	for index, name := range names {
		text, _ := tokens[name].(string)
		textRegion := Region{
			X:      region.X + 94,
			Y:      region.Y + index*entryHeight,
			Width:  region.Width - 94,
			Height: entryHeight,
		}
		if err := r.text.Draw(dc, text, textRegion, style); err != nil {
			return err
		}

		path := r.assets.OverlayPath("chaos_" + name)
		icon, err := r.cached(path)
		if err != nil {
			return err
		}
		icon, err = r.resizedCached(path, icon.Bounds().Dx()*2, icon.Bounds().Dy()*2)
		if err != nil {
			return err
		}
		dc.DrawImage(icon, region.X, region.Y+index*entryHeight)
	}
	return nil
}

func (r *Renderer) renderHealth(dc *gg.Context, face *project.Face) error {
	for _, stat := range []string{"health", "sanity"} {
		if !face.GetBool("draw_"+stat+"_overlay", true) {
			continue
		}
		if _, ok := face.Value(stat); !ok {
			continue
		}
		region := r.region(face, stat+"_region")
		if !region.Valid() {
			continue
		}
		path := r.assets.OverlayPath(stat + "_base")
		overlay, err := r.resizedCached(path, region.Width, region.Height)
		if err != nil {
			return err
		}
		dc.DrawImage(overlay, region.X, region.Y-15)
	}
	return nil
}

func (r *Renderer) renderText(dc *gg.Context, face *project.Face) error {
	for _, field := range textFields {
		value := fieldString(face, field)
		region := r.region(face, field+"_region")
		if region.IsAttached || !region.Valid() {
			continue
		}

		if region.AttachBefore != "" {
			if attachment := fieldString(face, region.AttachBefore); attachment != "" {
				format := face.GetString(region.AttachBefore + "_format")
				if format == "" {
					format = "{value}\n"
				}
				value = strings.ReplaceAll(format, "{value}", attachment) + value
			}
		}
		if region.AttachAfter != "" {
			if attachment := fieldString(face, region.AttachAfter); attachment != "" {
				format := face.GetString(region.AttachAfter + "_format")
				if format == "" {
					format = "\n{value}"
				}
				value = value + strings.ReplaceAll(format, "{value}", attachment)
			}
		}
		if field == "text" {
			if entries, ok := face.Value("checkbox_entries"); ok {
				value += checkboxLines(entries)
			}
		}
		if value == "" {
			continue
		}

		value = Substitute(field, value, face)
		style := textStyle(face, field, DefaultTextStyle().Size)
		if err := r.text.Draw(dc, value, region, style); err != nil {
			r.log.Debug("text field skipped", "field", field, "card", face.Card().Name(), "error", err)
		}
	}
	return nil
}

func (r *Renderer) renderClassSymbols(dc *gg.Context, face *project.Face) error {
	classes := face.GetStrings("classes")
	if len(classes) < 2 {
		return nil
	}
	for index, class := range classes {
		region := r.region(face, fmt.Sprintf("class_symbol_%d_region", index+1))
		symbol, err := r.cached(r.assets.OverlayPath("class_symbol_" + class))
		if err != nil {
			return err
		}
		dc.DrawImage(symbol, region.X, region.Y)
	}
	return nil
}

func (r *Renderer) renderEnemyStats(dc *gg.Context, face *project.Face) error {
	for _, stat := range []string{"damage", "horror"} {
		count := face.GetInt(stat, 0)
		if count == 0 {
			continue
		}
		path := r.assets.OverlayPath(stat)
		for i := 0; i < count; i++ {
			region := r.region(face, fmt.Sprintf("%s%d_region", stat, i+1))
			if !region.Valid() {
				continue
			}
			icon, err := r.resizedCached(path, region.Width, region.Height)
			if err != nil {
				return err
			}
			dc.DrawImage(icon, region.X, region.Y)
		}
	}
	return nil
}

func (r *Renderer) renderSlots(dc *gg.Context, face *project.Face) error {
	slots := face.GetStrings("slots")
	if len(slots) == 0 {
		if slot := face.GetString("slot"); slot != "" {
			slots = []string{slot}
		}
	}
	for index, slot := range slots {
		region := r.region(face, fmt.Sprintf("slot_%d_region", index+1))
		if !region.Valid() {
			continue
		}
		img, err := r.resizedCached(r.assets.OverlayPath("slot_"+slot), region.Width, region.Height)
		if err != nil {
			return err
		}
		dc.DrawImage(img, region.X, region.Y)
	}
	return nil
}

// renderChaos draws the token reference entries of scenario cards, a list of
// token images each with a text block beside it.
func (r *Renderer) renderChaos(dc *gg.Context, face *project.Face) error {
	entries, ok := face.Value("entries")
	if !ok {
		return nil
	}
	list, ok := entries.([]any)
	if !ok || len(list) == 0 {
		return nil
	}

	region := r.region(face, "chaos_region")
	style := textStyle(face, "chaos", 32)

	for index, raw := range list {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		y := region.Y + region.Height/len(list)*index

		tokens, ok := entry["token"].([]any)
		if !ok {
			tokens = []any{entry["token"]}
		}
		size := float64(region.Height) / 5.1
		if s := float64(region.Width) / 3 / float64(len(tokens)); s < size {
			size = s
		}
		for tokenIndex, token := range tokens {
			name, _ := token.(string)
			img, err := r.resizedCached(r.assets.OverlayPath("chaos_"+name), int(size), int(size))
			if err != nil {
				continue
			}
			dc.DrawImage(img, region.X+int(size)*tokenIndex, y)
		}

		text, _ := entry["text"].(string)
		textRegion := Region{
			X:      region.X + region.Width/3 - 32,
			Y:      y - 32,
			Width:  2 * region.Width / 3,
			Height: region.Height / len(list),
		}
		if err := r.text.Draw(dc, text, textRegion, style); err != nil {
			return err
		}
	}
	return nil
}

// renderCustomizable draws the checkbox upgrade list of customizable cards.
func (r *Renderer) renderCustomizable(dc *gg.Context, face *project.Face) error {
	if face.Type() != "customizable" {
		return nil
	}
	entries, ok := face.Value("entries")
	if !ok {
		return nil
	}
	text := checkboxLines(entries)
	if text == "" {
		return nil
	}

	region := r.region(face, "text_region")
	style := textStyle(face, "text", 32)
	return r.text.Draw(dc, text, region, style)
}

// checkboxLines formats [slots, name, text] entries as checkbox rows.
func checkboxLines(entries any) string {
	list, ok := entries.([]any)
	if !ok {
		return ""
	}
	var text strings.Builder
	for _, raw := range list {
		entry, ok := raw.([]any)
		if !ok || len(entry) < 3 {
			continue
		}
		boxes := 0
		if n, ok := entry[0].(float64); ok {
			boxes = int(n)
		}
		text.WriteString("\n" + strings.Repeat("☐", boxes))
		fmt.Fprintf(&text, " <b>%v.</b> %v", entry[1], entry[2])
	}
	return text.String()
}
