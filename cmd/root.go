// Package cmd implements the voxtext command line interface.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"voxtext/internal/config"
	"voxtext/internal/domain"
	"voxtext/internal/export"
	"voxtext/internal/jobs"
	"voxtext/internal/logging"
	"voxtext/internal/metrics"
	"voxtext/internal/transcribe"
)

const eventHistoryLimit = 1000

var (
	flagSettingsPath string
	flagModel        string
	flagFormats      []string
	flagOutputDir    string
	flagCueSettings  string
	flagCaptionCSS   string
	flagMetricsAddr  string
	flagLogLevel     string
	flagSave         bool
)

var rootCmd = &cobra.Command{
	Use:   "voxtext <media-file>",
	Short: "Transcribe local audio and video files with whisper.cpp",
	Long: `Voxtext turns a local audio or video file into a transcript and
caption files. It preprocesses the media with ffmpeg, runs whisper.cpp
inference, and writes the requested output formats next to each other
in the output directory.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTranscribe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSettingsPath, "settings", config.DefaultSettingsPath(), "path to the settings file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "whisper model tier (tiny, base, small, medium, large)")
	rootCmd.Flags().StringSliceVarP(&flagFormats, "formats", "f", nil, "output formats (txt, srt, vtt, html, md, json)")
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory transcript files are written to")
	rootCmd.Flags().StringVar(&flagCueSettings, "vtt-cue", "", "WebVTT cue settings appended to each cue timing line")
	rootCmd.Flags().StringVar(&flagCaptionCSS, "vtt-css", "", "CSS embedded in a WebVTT STYLE block")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "listen address for the Prometheus /metrics endpoint")
	rootCmd.Flags().BoolVar(&flagSave, "save", false, "persist the effective model, formats, and output settings")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initLogger configures the global logger from the persistent flags.
func initLogger() zerolog.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = flagLogLevel
	return logging.Init(cfg)
}

// loadSettings reads persisted settings and folds in any flag overrides.
func loadSettings(cmd *cobra.Command) (domain.Settings, error) {
	settings, err := config.NewJSONStore(flagSettingsPath).Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if cmd.Flags().Changed("model") {
		settings.Model = flagModel
	}
	if cmd.Flags().Changed("formats") {
		settings.Formats = flagFormats
	}
	if cmd.Flags().Changed("output-dir") {
		settings.OutputDir = flagOutputDir
	}
	if cmd.Flags().Changed("vtt-cue") {
		settings.CaptionStyle.Enabled = true
		settings.CaptionStyle.CueSettings = flagCueSettings
	}
	if cmd.Flags().Changed("vtt-css") {
		settings.CaptionStyle.Enabled = true
		settings.CaptionStyle.CSS = flagCaptionCSS
	}
	return settings, nil
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	logger := initLogger()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	tier, err := domain.ParseModelTier(settings.Model)
	if err != nil {
		return err
	}
	formats, err := domain.ParseFormats(settings.Formats)
	if err != nil {
		return err
	}

	if flagSave {
		if err := config.NewJSONStore(flagSettingsPath).Save(settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	jobMetrics := metrics.New(registry)
	if flagMetricsAddr != "" {
		go serveMetrics(logger, flagMetricsAddr, registry)
	}

	var failure string
	var artifacts []string
	onEvent := func(event jobs.Event) {
		switch event.Type {
		case jobs.EventTypeProgress:
			jobLogger := logging.WithJob(event.JobID)
			jobLogger.Info().
				Int("percent", event.Percent).
				Msg(event.Message)
		case jobs.EventTypeCompleted:
			artifacts = event.Artifacts
		case jobs.EventTypeFailed:
			failure = event.Message
		}
	}

	controller := jobs.NewController(
		transcribe.NewWhisperProvider(settings.ModelDir),
		export.NewWriter(),
		jobs.NewEventBus(eventHistoryLimit),
		jobMetrics,
		logger,
		onEvent,
	)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			logger.Warn().Msg("interrupt received, cancelling job")
			_ = controller.Cancel()
		}
	}()

	if _, err := controller.Start(domain.Request{
		InputPath: args[0],
		Model:     tier,
		Formats:   formats,
		OutputDir: settings.OutputDir,
		Style:     settings.CaptionStyle,
	}); err != nil {
		return err
	}
	controller.Wait()

	switch controller.Current().Status {
	case domain.JobStatusDone:
		for _, path := range artifacts {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	case domain.JobStatusCancelled:
		logger.Warn().Msg("job cancelled, partial outputs may remain")
		return nil
	default:
		return fmt.Errorf("transcription failed: %s", failure)
	}
}

// serveMetrics exposes the Prometheus endpoint for the lifetime of the job.
func serveMetrics(logger zerolog.Logger, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
