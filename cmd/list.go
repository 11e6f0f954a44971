package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cards of a project",
	Long:  `List prints every card of a project in sorted order, with numbers, types, classes and encounter sets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}

		writer := table.NewWriter()
		writer.SetOutputMirror(os.Stdout)
		writer.SetStyle(table.StyleLight)
		writer.AppendHeader(table.Row{"#", "Name", "Type", "Class", "Set", "Amount"})

		for _, card := range p.Cards() {
			number := card.EncounterNumber()
			if number == "" && card.ExpansionNumber() > 0 {
				number = card.Code()
			}
			setName := ""
			if set := card.EncounterSet(); set != nil {
				setName = set.Name()
			}
			writer.AppendRow(table.Row{
				number,
				card.Name(),
				card.Front.Type(),
				card.Class(),
				setName,
				card.Amount(),
			})
		}

		writer.Render()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("project", "p", "", "project file to list")
	listCmd.MarkFlagRequired("project")
}
