package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// numberCmd represents the number command
var numberCmd = &cobra.Command{
	Use:   "number",
	Short: "Assign card numbers across a project",
	Long: `Number walks the project and assigns numbers: encounter sets get per-set
numbers (ranges for cards with multiple copies), then every card gets its
position in the expansion, encounter sets first, player cards after.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}

		p.AssignCardNumbers()
		if err := p.Save(); err != nil {
			return fmt.Errorf("error saving project: %v", err)
		}
		fmt.Printf("Numbered %d cards in %d encounter sets\n",
			len(p.Cards()), len(p.EncounterSets()))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(numberCmd)

	numberCmd.Flags().StringP("project", "p", "", "project file to number")
	numberCmd.MarkFlagRequired("project")
}
