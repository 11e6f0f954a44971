package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokeeto/shoggoth/internal/project"
)

// newCmd represents the new command group
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create projects and scaffold common content",
	Long:  `Commands for creating new projects and scaffolding scenarios, campaigns, player card expansions and investigator sets.`,
}

var newProjectCmd = &cobra.Command{
	Use:   "project [name]",
	Short: "Create a new project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		code, _ := cmd.Flags().GetString("code")
		icon, _ := cmd.Flags().GetString("icon")
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = name + ".json"
		}
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("file already exists: %s", output)
		}

		dirs, _, err := assetDirs()
		if err != nil {
			return err
		}
		p, err := project.FromData(output, project.New(name, code, icon), dirs)
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return fmt.Errorf("error saving project: %v", err)
		}
		fmt.Printf("Created project '%s' in %s\n", name, output)
		return nil
	},
}

var newScenarioCmd = &cobra.Command{
	Use:   "scenario [name]",
	Short: "Scaffold a scenario encounter set",
	Long: `Scaffold a scenario: an encounter set pre-filled with acts, agendas,
enemies, treacheries and locations ready to be fleshed out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")
		order, _ := cmd.Flags().GetInt("order")

		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		set, err := p.CreateScenario(args[0], order)
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return fmt.Errorf("error saving project: %v", err)
		}
		fmt.Printf("Created scenario '%s' with %d cards\n", set.Name(), len(set.Cards()))
		return nil
	},
}

var newCampaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Scaffold a full campaign",
	Long:  `Scaffold a campaign: one scenario encounter set per campaign chapter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")

		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		if err := p.CreateCampaign(); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return fmt.Errorf("error saving project: %v", err)
		}
		fmt.Printf("Created campaign with %d encounter sets\n", len(p.EncounterSets()))
		return nil
	},
}

var newExpansionCmd = &cobra.Command{
	Use:   "expansion",
	Short: "Scaffold a player card expansion",
	Long: `Scaffold a player card expansion: a spread of assets, events and skills
at level zero and with experience for every class, plus investigator sets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")

		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		p.CreatePlayerExpansion()
		if err := p.Save(); err != nil {
			return fmt.Errorf("error saving project: %v", err)
		}
		fmt.Printf("Created player expansion, project now has %d cards\n", len(p.Cards()))
		return nil
	},
}

var newInvestigatorsCmd = &cobra.Command{
	Use:   "investigators [name]",
	Short: "Scaffold an investigator set",
	Long:  `Scaffold an investigator set: the investigator plus signature and weakness cards.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFile, _ := cmd.Flags().GetString("project")

		p, _, _, err := loadProject(projectFile)
		if err != nil {
			return err
		}
		p.AddInvestigatorSet(args[0])
		if err := p.Save(); err != nil {
			return fmt.Errorf("error saving project: %v", err)
		}
		fmt.Printf("Added investigator set '%s'\n", args[0])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(newCmd)
	newCmd.AddCommand(newProjectCmd, newScenarioCmd, newCampaignCmd, newExpansionCmd, newInvestigatorsCmd)

	newProjectCmd.Flags().StringP("code", "c", "", "short project code used in card codes")
	newProjectCmd.Flags().StringP("icon", "i", "", "path to the expansion icon image")
	newProjectCmd.Flags().StringP("output", "o", "", "output file (defaults to <name>.json)")

	for _, sub := range []*cobra.Command{newScenarioCmd, newCampaignCmd, newExpansionCmd, newInvestigatorsCmd} {
		sub.Flags().StringP("project", "p", "", "project file to modify")
		sub.MarkFlagRequired("project")
	}
	newScenarioCmd.Flags().Int("order", 0, "position of the scenario in the campaign")
}
