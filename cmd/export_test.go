package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestExportCommandsCarryBleedFlag(t *testing.T) {
	for _, sub := range []*cobra.Command{exportImagesCmd, exportPDFCmd, exportTTSCmd} {
		if sub.Flags().Lookup("bleed") == nil {
			t.Errorf("%s: bleed flag not registered", sub.Name())
		}
	}
}
