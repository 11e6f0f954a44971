package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tokeeto/shoggoth/internal/export"
	"github.com/tokeeto/shoggoth/internal/render"
)

// exportCmd represents the export command group
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a project to shareable formats",
	Long: `Commands for exporting a project: face images, print-and-play PDF sheets,
an arkham.build fan-made-content document or a Tabletop Simulator saved
object.`,
}

var exportImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Export card faces as image files",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		output, _ := cmd.Flags().GetString("output")

		p, dirs, settings, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		opts := imageOptions(cmd, p.Folder(), p.Name(), output, settings.Export.Format,
			settings.Export.Quality, settings.Export.IncludeBacks)

		renderer := render.New(dirs, newLogger())
		if err := export.Images(context.Background(), renderer, p.Cards(), opts); err != nil {
			return fmt.Errorf("error exporting images: %v", err)
		}
		fmt.Printf("Exported %d cards into %s\n", len(p.Cards()), opts.Folder)
		return nil
	},
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export print-and-play PDF sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		output, _ := cmd.Flags().GetString("output")

		p, dirs, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		if output == "" {
			output = filepath.Join(p.Folder(), p.Name()+".pdf")
		}

		bleed, _ := cmd.Flags().GetBool("bleed")
		renderer := render.New(dirs, newLogger())
		if err := export.PDF(renderer, p.Cards(), export.PDFOptions{Path: output, Bleed: bleed}); err != nil {
			return fmt.Errorf("error exporting pdf: %v", err)
		}
		fmt.Printf("Exported sheets to %s\n", output)
		return nil
	},
}

var exportArkhamBuildCmd = &cobra.Command{
	Use:   "arkhambuild",
	Short: "Export an arkham.build project document",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		output, _ := cmd.Flags().GetString("output")

		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		if output == "" {
			output = filepath.Join(p.Folder(), p.Name()+".arkhambuild.json")
		}

		if err := export.WriteArkhamBuild(p, output); err != nil {
			return fmt.Errorf("error exporting arkham.build document: %v", err)
		}
		fmt.Printf("Exported arkham.build document to %s\n", output)
		return nil
	},
}

var exportTTSCmd = &cobra.Command{
	Use:   "tts",
	Short: "Export a Tabletop Simulator saved object",
	Long: `Export a Tabletop Simulator saved object referencing exported face
images. The images are exported first into the image folder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		output, _ := cmd.Flags().GetString("output")

		p, dirs, settings, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		opts := imageOptions(cmd, p.Folder(), p.Name(), "", settings.Export.Format,
			settings.Export.Quality, settings.Export.IncludeBacks)
		if output == "" {
			output = filepath.Join(p.Folder(), p.Name()+".tts.json")
		}

		renderer := render.New(dirs, newLogger())
		if err := export.Images(context.Background(), renderer, p.Cards(), opts); err != nil {
			return fmt.Errorf("error exporting images: %v", err)
		}
		err = export.TTS(p, export.TTSOptions{
			Path:        output,
			ImageFolder: opts.Folder,
			ImageFormat: opts.Format,
		})
		if err != nil {
			return fmt.Errorf("error exporting saved object: %v", err)
		}
		fmt.Printf("Exported saved object to %s\n", output)
		return nil
	},
}

// imageOptions merges flags and settings into image export options.
func imageOptions(cmd *cobra.Command, folder, name, output, format string, quality int, includeBacks bool) export.ImageOptions {
	if flag, _ := cmd.Flags().GetString("format"); flag != "" {
		format = flag
	}
	if flag, _ := cmd.Flags().GetInt("quality"); flag > 0 {
		quality = flag
	}
	if cmd.Flags().Changed("include-backs") {
		includeBacks, _ = cmd.Flags().GetBool("include-backs")
	}
	if output == "" {
		output = filepath.Join(folder, "export_of_"+name)
	}
	bleed, _ := cmd.Flags().GetBool("bleed")
	return export.ImageOptions{
		Folder:       output,
		Format:       format,
		Quality:      quality,
		IncludeBacks: includeBacks,
		Bleed:        bleed,
	}
}

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportImagesCmd, exportPDFCmd, exportArkhamBuildCmd, exportTTSCmd)

	for _, sub := range []*cobra.Command{exportImagesCmd, exportPDFCmd, exportArkhamBuildCmd, exportTTSCmd} {
		sub.Flags().StringP("project", "p", "", "project file to export")
		sub.MarkFlagRequired("project")
		sub.Flags().StringP("output", "o", "", "output file or folder")
	}
	for _, sub := range []*cobra.Command{exportImagesCmd, exportTTSCmd} {
		sub.Flags().String("format", "", "image format (png or jpg)")
		sub.Flags().Int("quality", 0, "jpeg quality")
		sub.Flags().Bool("include-backs", false, "also export plain player/encounter backs")
	}
	for _, sub := range []*cobra.Command{exportImagesCmd, exportPDFCmd, exportTTSCmd} {
		sub.Flags().Bool("bleed", false, "keep the print bleed on exported faces")
	}
}
