package cmd

import (
	"fmt"
	"image"
	"image/color" // This is the standard library color package
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	"github.com/tokeeto/shoggoth/internal/project"
	"github.com/tokeeto/shoggoth/internal/render"

	colorize "github.com/fatih/color" // Rename this import to avoid the conflict
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [card]",
	Short: "Display a card in the terminal with ANSI art",
	Long: `Show renders a card face and displays it as ANSI terminal art next to
the card's details. Cards can be looked up by name, id or code.

Examples:
  shoggoth show "Ravenous Ghoul" --project path/to/project.json
  shoggoth show "Ravenous Ghoul" --project path/to/project.json --back`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		showBack, _ := cmd.Flags().GetBool("back")

		p, dirs, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}

		c, err := findCard(p, args[0])
		if err != nil {
			return err
		}
		face := c.Front
		if showBack {
			face = c.Back
		}

		renderer := render.New(dirs, newLogger())
		img, err := renderer.RenderFace(face, false)
		if err != nil {
			return fmt.Errorf("error rendering card: %v", err)
		}

		ansiArt, err := imageToAnsi(img, 24, 32, true)
		if err != nil {
			return fmt.Errorf("error converting card to ANSI: %v", err)
		}

		displayCard(c, face, ansiArt, p.Name())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("project", "p", "", "project file containing the card")
	showCmd.MarkFlagRequired("project")
	showCmd.Flags().BoolP("back", "b", false, "show the back face instead of the front")
}

// imageToAnsi converts an image to ANSI art
func imageToAnsi(img image.Image, width, height int, use256Colors bool) (string, error) {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	// Create a buffer for the ANSI output
	var buffer strings.Builder

	// Process the image
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Get the four pixels that will make up one character cell
			c1 := getColorAt(resized, x, y)
			c2 := getColorAt(resized, x+1, y)
			c3 := getColorAt(resized, x, y+1)
			c4 := getColorAt(resized, x+1, y+1)

			// Use the upper half block character for simplicity and reliability
			// Top pixels as foreground, bottom pixels as background
			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			// Calculate average colors
			upperHalfFg := averageColor(col1, col2)
			lowerHalfBg := averageColor(col3, col4)

			// Convert to standard colors
			fg := colorfulToColor(upperHalfFg)
			bg := colorfulToColor(lowerHalfBg)

			// Append to buffer with the upper half block character
			buffer.WriteString(ansiColorString('▀', fg, bg, use256Colors))
		}
		buffer.WriteString("\n")
	}

	return buffer.String(), nil
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255} // Return black for out-of-bounds
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// colorfulToColor converts a colorful.Color to a standard color.Color
func colorfulToColor(c colorful.Color) color.Color {
	// Always return direct RGB values rather than mapping
	r := uint8(c.R * 255)
	g := uint8(c.G * 255)
	b := uint8(c.B * 255)

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ansiColorString formats a character with ANSI color codes
func ansiColorString(char rune, fg, bg color.Color, use256Colors bool) string {
	// Get RGB values for foreground and background
	r1, g1, b1, _ := fg.RGBA()
	r2, g2, b2, _ := bg.RGBA()

	// Convert from uint32 to uint8 (RGBA() returns values in range 0-65535)
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	if use256Colors {
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
			r1, g1, b1, r2, g2, b2, char)
	}

	// Simplified 16-color version as fallback
	return string(char)
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	// Ensure width is reasonable
	if width < 10 {
		width = 40 // Use a sensible default if width is too small
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		// Check if adding this word would exceed the width
		if len(currentLine) == 0 {
			// First word on the line, always add it
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			// Word fits on current line with a space
			currentLine += " " + word
		} else {
			// Word doesn't fit, start a new line
			result = append(result, currentLine)
			currentLine = word
		}
	}

	// Add the last line if not empty
	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// stripTags removes markup tags from card text for plain terminal output.
func stripTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, c := range s {
		switch {
		case inTag:
			if c == '>' {
				inTag = false
			}
		case c == '<':
			inTag = true
		default:
			result.WriteRune(c)
		}
	}
	return result.String()
}

// displayCard displays the card information with ANSI art
func displayCard(c *project.Card, face *project.Face, ansiArt, projectName string) {
	// Split the ANSI art into lines
	ansiLines := strings.Split(ansiArt, "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		// Calculate the visible width (excluding ANSI escape sequences)
		visibleWidth := len(stripAnsi(line))
		if visibleWidth > maxAnsiWidth {
			maxAnsiWidth = visibleWidth
		}
	}

	// Get terminal width
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80 // Default if we can't get terminal width
	}

	// Prepare the info lines
	var infoLines []string

	infoLines = append(infoLines, colorize.CyanString("Card:    ")+colorize.HiWhiteString("%s", c.Name()))
	infoLines = append(infoLines, colorize.CyanString("Project: ")+colorize.HiWhiteString(projectName))
	infoLines = append(infoLines, colorize.CyanString("Type:    ")+colorize.HiWhiteString(face.Type()))

	if class := c.Class(); class != "" {
		infoLines = append(infoLines, colorize.CyanString("Class:   ")+colorize.HiWhiteString(class))
	}
	if set := c.EncounterSet(); set != nil {
		infoLines = append(infoLines, colorize.CyanString("Set:     ")+colorize.HiWhiteString(set.Name()))
	}
	if traits := face.GetString("traits"); traits != "" {
		infoLines = append(infoLines, colorize.CyanString("Traits:  ")+colorize.HiWhiteString(traits))
	}

	// Calculate layout
	// We'll display the ANSI art on the left and info on the right
	spacing := 4
	infoStartCol := maxAnsiWidth + spacing

	// Calculate available width for text, ensuring it's at least 20 characters
	infoWidth := width - infoStartCol - 2 // Leave a small margin
	if infoWidth < 20 {
		infoWidth = 20 // Minimum width for text
	}

	// Add the card text with word wrapping
	if text := stripTags(face.GetString("text")); text != "" {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.CyanString("Text:"))
		infoLines = append(infoLines, wrapText(text, infoWidth)...)
	}
	if flavor := stripTags(face.GetString("flavor")); flavor != "" {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.CyanString("Flavor:"))
		infoLines = append(infoLines, wrapText(flavor, infoWidth)...)
	}

	// Print the header
	fmt.Println()

	// Print each line
	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		// Print 2-character wide left padding
		fmt.Print("  ")
		// Print ANSI art line if available
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			// Pad to infoStartCol
			visibleWidth := len(stripAnsi(ansiLines[i]))
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		// Print info line if available
		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}

		fmt.Println()
	}

	fmt.Println()
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// max returns the maximum of two integers
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
