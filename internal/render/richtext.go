package render

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"

	"github.com/tokeeto/shoggoth/internal/assets"
)

// MinFontSize is the smallest size text shrinks to before overflowing
// its region.
const MinFontSize = 10

// TextStyle describes how a text field is drawn.
type TextStyle struct {
	Font      string
	Size      float64
	Color     string
	Alignment string
}

// DefaultTextStyle returns the style used when a field specifies nothing.
func DefaultTextStyle() TextStyle {
	return TextStyle{Font: "regular", Size: 20, Color: "#231f20", Alignment: "left"}
}

// fontFiles maps logical font names to files under the fonts directory.
var fontFiles = map[string]string{
	"regular":    "arnopro_regular.otf",
	"bold":       "arnopro_bold.otf",
	"semibold":   "arnopro_semibold.ttf",
	"italic":     "arnopro_italic.otf",
	"bolditalic": "arnopro_bolditalic.otf",
	"icon":       "AHLCGSymbol.otf",
	"cost":       "Arkhamic.ttf",
	"title":      "Arkhamic.ttf",
	"skill":      "Bolton.ttf",
}

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenNewline
	tokenFontIcon
	tokenImageIcon
	tokenFont
	tokenAlign
)

type token struct {
	kind  tokenKind
	value string
	start bool
}

type taggedString struct {
	tag   string
	value string
}

// formattingTags switch the active font or alignment until the closing tag.
var formattingFontTags = []taggedString{
	{"<b>", "bold"}, {"<i>", "italic"}, {"<bi>", "bolditalic"}, {"<icon>", "icon"},
}

var formattingAlignTags = []taggedString{
	{"<center>", "center"}, {"<left>", "left"}, {"<right>", "right"},
}

// fontIconTags render as single glyphs from the symbol font.
var fontIconTags = []taggedString{
	{"<codex>", "#"}, {"<star>", "*"}, {"<dash>", "-"},
	{"<sign_1>", "1"}, {"<sign_2>", "2"}, {"<sign_3>", "3"},
	{"<sign_4>", "4"}, {"<sign_5>", "5"}, {"<question>", "?"},
	{"<tablet>", "A"}, {"<entry>", "B"}, {"<cultist>", "C"},
	{"<blessing>", "D"}, {"<elder_sign>", "E"}, {"<fleur>", "F"},
	{"<guardian>", "G"}, {"<frost>", "h"}, {"<seeker>", "K"},
	{"<elder_thing>", "L"}, {"<mystic>", "M"}, {"<rogue>", "R"},
	{"<skull>", "S"}, {"<auto_fail>", "T"}, {"<curse>", "U"},
	{"<survivor>", "V"}, {"<agility>", "a"}, {"<bullet>", "b"},
	{"<combat>", "c"}, {"<horror>", "d"}, {"<resolution>", "e"},
	{"<free>", "f"}, {"<damage>", "h"}, {"<int>", "i"},
	{"<resource>", "m"}, {"<action>", "n"}, {"<open>", "o"},
	{"<per>", "p"}, {"<reaction>", "r"}, {"<unique>", "u"},
	{"<willpower>", "w"},
}

// imageIconTags render as inline icon images.
var imageIconTags = []taggedString{
	{"<set core>", "AHLCG-CoreSet"},
	{"<set dunwich>", "AHLCG-TheDunwichLegacy"},
	{"<set carcosa>", "AHLCG-ThePathToCarcosa"},
	{"<set forgotten>", "AHLCG-TheForgottenAge"},
	{"<set circle>", "AHLCG-TheCircleUndone"},
	{"<set dream>", "AHLCG-DreamEaters"},
	{"<set innsmouth>", "AHLCG-TheInnsmouthConspiracy"},
	{"<set scarlet>", "AHLCG-TheScarletKeys"},
}

// templateReplacer expands the shorthand keyword templates.
var templateReplacer = strings.NewReplacer(
	"<for>", "<b>Forced –</b>",
	"<prey>", "<b>Prey –</b>",
	"<rev>", "<b>Revelation –</b>",
)

// tokenize splits rich text into drawable tokens, preserving whitespace so
// word wrapping can break on it.
func tokenize(text string) []token {
	text = templateReplacer.Replace(text)

	var tokens []token
	for len(text) > 0 {
		if tok, rest, ok := matchTag(text); ok {
			tokens = append(tokens, tok)
			text = rest
			continue
		}
		if text[0] == '\n' {
			tokens = append(tokens, token{kind: tokenNewline})
			text = text[1:]
			continue
		}
		if text[0] == ' ' {
			tokens = append(tokens, token{kind: tokenText, value: " "})
			text = text[1:]
			continue
		}

		end := len(text)
		for i, r := range text {
			if i == 0 {
				continue
			}
			if r == ' ' || r == '\n' || r == '<' {
				end = i
				break
			}
		}
		// a lone '<' that opened no tag is literal text
		if end == 0 {
			end = 1
		}
		tokens = append(tokens, token{kind: tokenText, value: text[:end]})
		text = text[end:]
	}
	return tokens
}

func matchTag(text string) (token, string, bool) {
	if text[0] != '<' {
		return token{}, text, false
	}
	for _, t := range formattingFontTags {
		if strings.HasPrefix(text, t.tag) {
			return token{kind: tokenFont, value: t.value, start: true}, text[len(t.tag):], true
		}
		closing := "</" + t.tag[1:]
		if strings.HasPrefix(text, closing) {
			return token{kind: tokenFont, value: t.value}, text[len(closing):], true
		}
	}
	for _, t := range formattingAlignTags {
		if strings.HasPrefix(text, t.tag) {
			return token{kind: tokenAlign, value: t.value, start: true}, text[len(t.tag):], true
		}
		closing := "</" + t.tag[1:]
		if strings.HasPrefix(text, closing) {
			return token{kind: tokenAlign, value: t.value}, text[len(closing):], true
		}
	}
	for _, t := range fontIconTags {
		if strings.HasPrefix(text, t.tag) {
			return token{kind: tokenFontIcon, value: t.value}, text[len(t.tag):], true
		}
	}
	for _, t := range imageIconTags {
		if strings.HasPrefix(text, t.tag) {
			return token{kind: tokenImageIcon, value: t.value}, text[len(t.tag):], true
		}
	}
	if attrs, length, ok := matchImageTag(text); ok {
		if src, present := attrs["src"]; present {
			return token{kind: tokenImageIcon, value: src}, text[length:], true
		}
		return token{kind: tokenText, value: " "}, text[length:], true
	}
	return token{}, text, false
}

// matchImageTag parses a leading `<image key="value" ...>` tag and returns
// its attributes and total length.
func matchImageTag(text string) (map[string]string, int, bool) {
	if !strings.HasPrefix(text, "<image ") {
		return nil, 0, false
	}
	end := strings.IndexByte(text, '>')
	if end < 0 {
		return nil, 0, false
	}
	attrs := map[string]string{}
	body := text[len("<image"):end]
	for {
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(body[:eq])
		rest := body[eq+1:]
		rest = strings.TrimLeft(rest, " ")
		if len(rest) == 0 || rest[0] != '"' {
			break
		}
		closeQuote := strings.IndexByte(rest[1:], '"')
		if closeQuote < 0 {
			break
		}
		attrs[key] = rest[1 : 1+closeQuote]
		body = rest[closeQuote+2:]
	}
	if len(attrs) == 0 {
		return nil, 0, false
	}
	return attrs, end + 1, true
}

type iconKey struct {
	path   string
	height int
}

// TextRenderer draws rich text onto card canvases with word wrapping,
// nested style tags, inline icons and automatic size reduction.
//
// Parsed fonts and scaled icons are cached and shared; font faces are
// created per draw because a face is not safe for concurrent use.
type TextRenderer struct {
	assets assets.Dirs

	mu    sync.Mutex
	fonts map[string]*truetype.Font
	icons map[iconKey]image.Image
}

// NewTextRenderer returns a renderer loading fonts and icons from dirs.
func NewTextRenderer(dirs assets.Dirs) *TextRenderer {
	return &TextRenderer{
		assets: dirs,
		fonts:  map[string]*truetype.Font{},
		icons:  map[iconKey]image.Image{},
	}
}

func (t *TextRenderer) font(name string) (*truetype.Font, error) {
	file, ok := fontFiles[name]
	if !ok {
		file = fontFiles["regular"]
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.fonts[file]; ok {
		return f, nil
	}
	data, err := os.ReadFile(t.assets.FontPath(file))
	if err != nil {
		return nil, fmt.Errorf("error loading font %s: %v", file, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing font %s: %v", file, err)
	}
	t.fonts[file] = f
	return f, nil
}

// faceSet holds the font faces for one draw at one size.
type faceSet struct {
	text  *TextRenderer
	size  float64
	faces map[string]font.Face
}

func (s *faceSet) face(name string) (font.Face, error) {
	if f, ok := s.faces[name]; ok {
		return f, nil
	}
	fnt, err := s.text.font(name)
	if err != nil {
		return nil, err
	}
	f := truetype.NewFace(fnt, &truetype.Options{Size: s.size})
	s.faces[name] = f
	return f, nil
}

// icon loads an inline icon image scaled to the given height. The path may
// be an icon name or a full path to an image file.
func (t *TextRenderer) icon(path string, height int) (image.Image, error) {
	key := iconKey{path: path, height: height}

	t.mu.Lock()
	if img, ok := t.icons[key]; ok {
		t.mu.Unlock()
		return img, nil
	}
	t.mu.Unlock()

	img, err := openImage(t.assets.IconPath(path))
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	width := uint(float64(height) * float64(bounds.Dx()) / float64(bounds.Dy()))
	img = resize.Resize(width, uint(height), img, resize.Lanczos3)

	t.mu.Lock()
	t.icons[key] = img
	t.mu.Unlock()
	return img, nil
}

// item is a laid-out token with its resolved font and measured width.
type item struct {
	kind  tokenKind
	value string
	font  string
	width float64
	icon  image.Image
}

type line struct {
	items []item
	width float64
	align string
}

// Draw renders rich text into the region, shrinking the font size one point
// at a time until the text fits vertically. At MinFontSize the text is drawn
// regardless of overflow.
func (t *TextRenderer) Draw(dc *gg.Context, text string, region Region, style TextStyle) error {
	if text == "" || !region.Valid() {
		return nil
	}
	if style.Font == "" {
		style.Font = "regular"
	}
	if style.Size <= 0 {
		style.Size = DefaultTextStyle().Size
	}
	if style.Alignment == "" {
		style.Alignment = "left"
	}

	tokens := tokenize(text)
	for size := style.Size; size >= MinFontSize; size-- {
		faces := &faceSet{text: t, size: size, faces: map[string]font.Face{}}
		lines, err := t.layout(dc, faces, tokens, size, style, float64(region.Width))
		if err != nil {
			return err
		}
		lineHeight := size * 1.34
		fits := float64(len(lines))*lineHeight <= float64(region.Height)
		if fits || size == MinFontSize {
			return t.drawLines(dc, faces, lines, region, size, style)
		}
	}
	return nil
}

// layout resolves formatting state and wraps tokens into lines that fit the
// given width.
func (t *TextRenderer) layout(dc *gg.Context, faces *faceSet, tokens []token, size float64, style TextStyle, maxWidth float64) ([]line, error) {
	var (
		lines     []line
		current   line
		fontStack []string
		alignment = style.Alignment
	)
	currentFont := style.Font
	current.align = alignment

	flush := func() {
		// trailing spaces do not count against alignment
		for len(current.items) > 0 {
			last := current.items[len(current.items)-1]
			if last.kind != tokenText || last.value != " " {
				break
			}
			current.width -= last.width
			current.items = current.items[:len(current.items)-1]
		}
		lines = append(lines, current)
		current = line{align: alignment}
	}

	for _, tok := range tokens {
		switch tok.kind {
		case tokenFont:
			if tok.start {
				fontStack = append(fontStack, currentFont)
				currentFont = tok.value
			} else if len(fontStack) > 0 {
				currentFont = fontStack[len(fontStack)-1]
				fontStack = fontStack[:len(fontStack)-1]
			} else {
				currentFont = style.Font
			}
			continue
		case tokenAlign:
			if tok.start {
				alignment = tok.value
			} else {
				alignment = style.Alignment
			}
			if len(current.items) == 0 {
				current.align = alignment
			}
			continue
		case tokenNewline:
			flush()
			continue
		}

		it := item{kind: tok.kind, value: tok.value, font: currentFont}
		switch tok.kind {
		case tokenText:
			f, err := faces.face(currentFont)
			if err != nil {
				return nil, err
			}
			dc.SetFontFace(f)
			it.width, _ = dc.MeasureString(tok.value)
		case tokenFontIcon:
			f, err := faces.face("icon")
			if err != nil {
				return nil, err
			}
			it.font = "icon"
			dc.SetFontFace(f)
			it.width, _ = dc.MeasureString(tok.value)
		case tokenImageIcon:
			icon, err := t.icon(tok.value, int(size))
			if err != nil {
				// missing icons collapse to nothing
				continue
			}
			it.icon = icon
			it.width = float64(icon.Bounds().Dx())
		}

		if current.width+it.width > maxWidth && len(current.items) > 0 {
			flush()
			if it.kind == tokenText && it.value == " " {
				continue
			}
		}
		current.items = append(current.items, it)
		current.width += it.width
	}
	if len(current.items) > 0 {
		flush()
	}
	return lines, nil
}

func (t *TextRenderer) drawLines(dc *gg.Context, faces *faceSet, lines []line, region Region, size float64, style TextStyle) error {
	color := style.Color
	if color == "" {
		color = DefaultTextStyle().Color
	}
	c, err := colorful.Hex(color)
	if err != nil {
		return fmt.Errorf("error parsing text color %q: %v", color, err)
	}
	dc.SetColor(c)

	lineHeight := size * 1.34
	y := float64(region.Y) + size
	for _, ln := range lines {
		x := float64(region.X)
		switch ln.align {
		case "center":
			x += (float64(region.Width) - ln.width) / 2
		case "right":
			x += float64(region.Width) - ln.width
		}
		for _, it := range ln.items {
			switch it.kind {
			case tokenText, tokenFontIcon:
				f, err := faces.face(it.font)
				if err != nil {
					return err
				}
				dc.SetFontFace(f)
				dc.DrawString(it.value, x, y)
			case tokenImageIcon:
				dc.DrawImage(it.icon, int(x), int(y-size))
			}
			x += it.width
		}
		y += lineHeight
	}
	return nil
}
