package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tokeeto/shoggoth/internal/project"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [template] [name]",
	Short: "Add a card to a project",
	Long: `Add creates a new card from a template and appends it to the project,
either as a player card or inside an encounter set.

Available templates: ` + strings.Join(project.TemplateNames, ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		template, name := args[0], args[1]
		projectFile, _ := cmd.Flags().GetString("project")
		setName, _ := cmd.Flags().GetString("set")

		known := false
		for _, candidate := range project.TemplateNames {
			if template == candidate {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown template %q (available: %s)",
				template, strings.Join(project.TemplateNames, ", "))
		}

		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}

		data := project.NewCardData(template)
		data["name"] = name

		if setName != "" {
			var target *project.EncounterSet
			for _, set := range p.EncounterSets() {
				if set.Name() == setName || set.ID() == setName {
					target = set
					break
				}
			}
			if target == nil {
				return fmt.Errorf("encounter set not found: %s", setName)
			}
			target.AddCard(data)
		} else {
			p.AddCard(data)
		}

		if err := p.Save(); err != nil {
			return fmt.Errorf("error saving project: %v", err)
		}
		fmt.Printf("Added %s '%s'\n", template, name)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("project", "p", "", "project file to modify")
	addCmd.MarkFlagRequired("project")
	addCmd.Flags().StringP("set", "s", "", "encounter set to add the card to (by name)")
}
