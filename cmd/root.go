package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tokeeto/shoggoth/internal/assets"
	"github.com/tokeeto/shoggoth/internal/config"
	"github.com/tokeeto/shoggoth/internal/logging"
	"github.com/tokeeto/shoggoth/internal/project"
)

var (
	viewFile string
	logLevel string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "shoggoth",
	Short: "Tool for building and rendering custom card expansions",
	Long: `Shoggoth is a command-line tool for building custom card expansions for
a certain Lovecraftian living card game. It manages project files, renders
card faces from layout data and art assets, and exports finished cards to
images, print-and-play PDF sheets and community formats.

Passing -v with a project file opens the live viewer:
  shoggoth -v path/to/project.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if viewFile != "" {
			return runViewer(viewFile)
		}
		return cmd.Help()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	RootCmd.Flags().StringVarP(&viewFile, "view", "v", "", "open a project file in viewer mode")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

func newLogger() *slog.Logger {
	return logging.New(logging.Options{Level: logLevel, Format: "text"})
}

// assetDirs resolves the asset directory layout from settings, falling back
// to the XDG data location.
func assetDirs() (assets.Dirs, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return assets.Dirs{}, nil, fmt.Errorf("error loading settings: %v", err)
	}
	dir := settings.AssetDir
	if dir == "" {
		dir = config.GetAssetDir()
	}
	return assets.DirsFor(dir), settings, nil
}

func loadProject(path string) (*project.Project, assets.Dirs, *config.Settings, error) {
	dirs, settings, err := assetDirs()
	if err != nil {
		return nil, assets.Dirs{}, nil, err
	}
	p, err := project.Load(path, dirs)
	if err != nil {
		return nil, assets.Dirs{}, nil, fmt.Errorf("error loading project: %v", err)
	}
	return p, dirs, settings, nil
}

// findCard locates a card by name, id or code.
func findCard(p *project.Project, key string) (*project.Card, error) {
	for _, card := range p.Cards() {
		if card.Name() == key || card.ID() == key || card.Code() == key {
			return card, nil
		}
	}
	return nil, fmt.Errorf("card not found: %s", key)
}
