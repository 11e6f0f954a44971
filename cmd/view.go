package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tokeeto/shoggoth/internal/viewer"
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view [project_file]",
	Short: "Open a project in the live viewer",
	Long: `View opens a project file in viewer mode: a local web page showing the
current card's front and back, re-rendered whenever the project file, its
illustrations or the asset directory change on disk.

Arrow keys (or the on-page buttons) move between cards. The viewer runs
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer(args[0])
	},
}

func init() {
	RootCmd.AddCommand(viewCmd)
}

func runViewer(projectFile string) error {
	if _, err := os.Stat(projectFile); os.IsNotExist(err) {
		return fmt.Errorf("project file not found: %s", projectFile)
	}

	dirs, settings, err := assetDirs()
	if err != nil {
		return err
	}
	server, err := viewer.NewServer(projectFile, dirs, newLogger())
	if err != nil {
		return fmt.Errorf("error starting viewer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Viewing %s at http://%s/ (ctrl-c to stop)\n", projectFile, settings.Viewer.Bind)
	return server.Run(ctx, settings.Viewer.Bind)
}
