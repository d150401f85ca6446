package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"voxtext/internal/domain"
	"voxtext/internal/transcribe"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available whisper.cpp model presets",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	initLogger()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	provider := transcribe.NewWhisperProvider(settings.ModelDir)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tSIZE\tSTATUS\tPATH\tDESCRIPTION")
	for _, model := range domain.ModelCatalog {
		if path, ok := provider.LocalPath(model.Tier); ok {
			model.Downloaded = true
			model.LocalPath = path
		}
		status := "not downloaded"
		if model.Downloaded {
			status = "downloaded"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", model.Tier, model.SizeLabel, status, model.LocalPath, model.Description)
	}
	return w.Flush()
}
