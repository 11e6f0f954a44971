package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tokeeto/shoggoth/internal/config"
	"github.com/tokeeto/shoggoth/internal/export"
	"github.com/tokeeto/shoggoth/internal/project"
	"github.com/tokeeto/shoggoth/internal/render"
	"github.com/tokeeto/shoggoth/internal/rendercache"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [card]",
	Short: "Render card faces to image files",
	Long: `Render draws card faces and writes them as PNG files. Without arguments
the whole project is rendered; naming a card renders just that card.

Rendered faces are cached between runs, keyed by the card data, so
unchanged cards are written straight from the cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		output, _ := cmd.Flags().GetString("output")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		p, dirs, settings, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		bleed := settings.ShowBleed

		cards := p.Cards()
		if len(args) == 1 {
			card, err := findCard(p, args[0])
			if err != nil {
				return err
			}
			cards = []*project.Card{card}
		}
		if output == "" {
			output = filepath.Join(p.Folder(), "render_of_"+p.Name())
		}
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("error creating output folder: %v", err)
		}

		ctx := context.Background()
		var cache *rendercache.Store
		if !noCache {
			cache, err = rendercache.Open(ctx, filepath.Join(config.GetCacheDir(), "render.db"))
			if err != nil {
				return fmt.Errorf("error opening render cache: %v", err)
			}
			defer cache.Close()
		}

		renderer := render.New(dirs, newLogger())

		type job struct {
			card *project.Card
			face *project.Face
			side string
		}
		jobs := make(chan job)
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			rendered int
			cached   int
			firstErr error
		)
		fail := func(err error) {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}

		for i := 0; i < runtime.NumCPU(); i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := range jobs {
					path := export.ImagePath(output, j.card, j.side, "png")
					hash := render.CacheKey(j.face, j.side, bleed, dirs)
					if cache != nil {
						if data, found, err := cache.Lookup(ctx, hash); err == nil && found {
							if err := os.WriteFile(path, data, 0o644); err != nil {
								fail(fmt.Errorf("error writing %s: %v", path, err))
								continue
							}
							mu.Lock()
							cached++
							mu.Unlock()
							continue
						}
					}

					img, err := renderer.RenderFace(j.face, bleed)
					if err != nil {
						fail(fmt.Errorf("error rendering %s of %s: %v", j.side, j.card.Name(), err))
						continue
					}
					var buf bytes.Buffer
					if err := png.Encode(&buf, img); err != nil {
						fail(fmt.Errorf("error encoding %s of %s: %v", j.side, j.card.Name(), err))
						continue
					}
					if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
						fail(fmt.Errorf("error writing %s: %v", path, err))
						continue
					}
					if cache != nil {
						if err := cache.Record(ctx, hash, j.card.ID(), j.side, buf.Bytes()); err != nil {
							fail(fmt.Errorf("error caching %s of %s: %v", j.side, j.card.Name(), err))
							continue
						}
					}
					mu.Lock()
					rendered++
					mu.Unlock()
				}
			}()
		}
		for _, card := range cards {
			jobs <- job{card, card.Front, "front"}
			jobs <- job{card, card.Back, "back"}
		}
		close(jobs)
		wg.Wait()

		if firstErr != nil {
			return firstErr
		}
		fmt.Printf("Rendered %d faces (%d from cache) into %s\n", rendered+cached, cached, output)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("project", "p", "", "project file to render")
	renderCmd.MarkFlagRequired("project")
	renderCmd.Flags().StringP("output", "o", "", "output folder (defaults to render_of_<project> next to the project file)")
	renderCmd.Flags().Bool("no-cache", false, "render everything from scratch")
}
