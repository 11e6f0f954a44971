package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"

	"github.com/tokeeto/shoggoth/internal/project"
)

// renderFacer is the part of render.Renderer the sheet export needs.
type renderFacer interface {
	RenderFace(face *project.Face, includeBleed bool) (image.Image, error)
}

// Poker card dimensions in millimeters.
const (
	cardWidthMM  = 63.5
	cardHeightMM = 88.9

	gridCols = 3
	gridRows = 3
)

// PDFOptions controls print-and-play sheet export.
type PDFOptions struct {
	Path  string
	Bleed bool
}

// PDF writes print-and-play sheets: A4 pages with a 3x3 grid of card
// fronts, each followed by a page of the matching backs mirrored per row so
// duplex printing lines the sides up. Card copies follow the amount field.
func PDF(renderer renderFacer, cards []*project.Card, opts PDFOptions) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	pageWidth, pageHeight := doc.GetPageSize()
	marginX := (pageWidth - gridCols*cardWidthMM) / 2
	marginY := (pageHeight - gridRows*cardHeightMM) / 2

	var sheet []*project.Card
	flush := func() error {
		if len(sheet) == 0 {
			return nil
		}
		if err := addSheetPage(doc, renderer, sheet, true, marginX, marginY, opts.Bleed); err != nil {
			return err
		}
		if err := addSheetPage(doc, renderer, sheet, false, marginX, marginY, opts.Bleed); err != nil {
			return err
		}
		sheet = sheet[:0]
		return nil
	}

	for _, card := range cards {
		for copies := 0; copies < card.Amount(); copies++ {
			sheet = append(sheet, card)
			if len(sheet) == gridCols*gridRows {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if err := doc.OutputFileAndClose(opts.Path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func addSheetPage(doc *fpdf.Fpdf, renderer renderFacer, sheet []*project.Card, fronts bool, marginX, marginY float64, bleed bool) error {
	doc.AddPage()
	doc.SetDrawColor(160, 160, 160)
	doc.SetLineWidth(0.1)

	for index, card := range sheet {
		row := index / gridCols
		col := index % gridCols
		face := card.Front
		side := "front"
		if !fronts {
			face = card.Back
			side = "back"
			// mirror columns so the back lands behind its front
			col = gridCols - 1 - col
		}

		img, err := renderer.RenderFace(face, bleed)
		if err != nil {
			return fmt.Errorf("render %s of %s: %w", side, card.Name(), err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode %s of %s: %w", side, card.Name(), err)
		}

		x := marginX + float64(col)*cardWidthMM
		y := marginY + float64(row)*cardHeightMM
		name := fmt.Sprintf("%s_%s_%d", card.ID(), side, doc.PageNo())
		doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
		doc.ImageOptions(name, x, y, cardWidthMM, cardHeightMM, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	drawCutLines(doc, marginX, marginY)
	return nil
}

// drawCutLines marks the grid edges in the page margins.
func drawCutLines(doc *fpdf.Fpdf, marginX, marginY float64) {
	pageWidth, pageHeight := doc.GetPageSize()
	for col := 0; col <= gridCols; col++ {
		x := marginX + float64(col)*cardWidthMM
		doc.Line(x, 0, x, marginY/2)
		doc.Line(x, pageHeight-marginY/2, x, pageHeight)
	}
	for row := 0; row <= gridRows; row++ {
		y := marginY + float64(row)*cardHeightMM
		doc.Line(0, y, marginX/2, y)
		doc.Line(pageWidth-marginX/2, y, pageWidth, y)
	}
}
