package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokeeto/shoggoth/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [project_file]",
	Short: "Validate a project file",
	Long: `Validate checks a project file for structural problems: missing names and
icons, unknown face types, mismatched front/back pairs and missing
illustration files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile := args[0]

		if _, err := os.Stat(projectFile); os.IsNotExist(err) {
			return fmt.Errorf("project file not found: %s", projectFile)
		}

		v := validator.NewValidator(projectFile)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %v", err)
		}

		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Project '%s' looks valid.\n", projectFile)
		} else {
			fmt.Printf("❌ Project '%s' has %d validation errors:\n", projectFile, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
