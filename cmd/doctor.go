package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voxtext/internal/diagnostics"
	"voxtext/internal/domain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ffmpeg, whisper.cpp, and the configured directories are usable",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	initLogger()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	report := diagnostics.NewChecker().Run(settings)
	for _, item := range report.Items {
		marker := "PASS"
		if item.Status == domain.DiagnosticStatusFail {
			marker = "FAIL"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", marker, item.Name, item.Message)
		if item.Hint != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "       %s\n", item.Hint)
		}
	}

	if report.HasFailures {
		return fmt.Errorf("environment checks failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All checks passed.")
	return nil
}
