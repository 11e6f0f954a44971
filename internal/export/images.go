package export

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/tokeeto/shoggoth/internal/project"
	"github.com/tokeeto/shoggoth/internal/render"
)

// ImageOptions controls face image export.
type ImageOptions struct {
	Folder       string
	Format       string // png or jpg
	Quality      int    // jpeg quality
	IncludeBacks bool   // also export plain player/encounter backs
	Bleed        bool
	Workers      int
}

// Images renders every card in the list to image files, spreading the work
// over a pool of render workers. Plain player and encounter backs are
// skipped unless asked for.
func Images(ctx context.Context, renderer *render.Renderer, cards []*project.Card, opts ImageOptions) error {
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.Quality <= 0 {
		opts.Quality = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if err := os.MkdirAll(opts.Folder, 0o755); err != nil {
		return fmt.Errorf("create export folder: %w", err)
	}

	jobs := make(chan *project.Card)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for card := range jobs {
				if err := exportCard(renderer, card, opts); err != nil {
					fail(err)
				}
			}
		}()
	}

	for _, card := range cards {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- card:
		}
	}
	close(jobs)
	wg.Wait()
	return firstErr
}

func exportCard(renderer *render.Renderer, card *project.Card, opts ImageOptions) error {
	sides := []struct {
		face *project.Face
		name string
	}{
		{card.Front, "front"},
		{card.Back, "back"},
	}
	for _, side := range sides {
		faceType := side.face.Type()
		if !opts.IncludeBacks && (faceType == "player" || faceType == "encounter") {
			continue
		}
		img, err := renderer.RenderFace(side.face, opts.Bleed)
		if err != nil {
			return fmt.Errorf("render %s of %s: %w", side.name, card.Name(), err)
		}
		path := ImagePath(opts.Folder, card, side.name, opts.Format)
		if err := writeImage(path, img, opts.Format, opts.Quality); err != nil {
			return fmt.Errorf("write %s of %s: %w", side.name, card.Name(), err)
		}
	}
	return nil
}

// ImagePath returns the file an exported face image lands in. Other export
// formats reference these files.
func ImagePath(folder string, card *project.Card, side, format string) string {
	return filepath.Join(folder, fmt.Sprintf("%s_%s.%s", card.Name(), side, format))
}

func writeImage(path string, img image.Image, format string, quality int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format {
	case "jpg", "jpeg":
		return jpeg.Encode(file, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(file, img)
	}
}
