package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rm-hull/imgpipe/cmd"
	"github.com/rm-hull/imgpipe/internal"
	"github.com/rm-hull/imgpipe/internal/config"
	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var settingsPath string
	var configPath string
	var settings *config.Settings
	var debug bool
	var asJSON bool
	var quality int
	var dpi int
	var outputDir string
	var format string
	var schedule string
	var limit int

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:           "imgpipe",
		Long:          `Image transformation pipeline: colour grading, filters, geometry, decorations and watermarks`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			settings, err = config.Load(settingsPath)
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(settings.Level())
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to settings YAML (IMGPIPE_ environment variables otherwise)")

	flagged := transform.DefaultConfig()

	transformCmd := &cobra.Command{
		Use:   "transform <input> <output> [--config <file>] [flags]",
		Short: "Apply the transformation pipeline and save the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := cmd.ResolveConfig(c.Flags(), configPath, flagged)
			if err != nil {
				return err
			}
			return cmd.Transform(args[0], args[1], cfg, settings)
		},
	}

	previewCmd := &cobra.Command{
		Use:   "preview <input> [--config <file>] [flags]",
		Short: "Run the pipeline without writing, reporting the enabled stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := cmd.ResolveConfig(c.Flags(), configPath, flagged)
			if err != nil {
				return err
			}
			return cmd.Preview(args[0], cfg, settings)
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir> [--format <ext>] [--schedule <cron>] [--limit <n>]",
		Short: "Transform every image in a directory, optionally on a schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			internal.ShowVersion()
			internal.UserInfo()
			internal.EnvironmentVars()

			cfg, err := cmd.ResolveConfig(c.Flags(), configPath, flagged)
			if err != nil {
				return err
			}
			return cmd.Batch(args[0], args[1], format, schedule, limit, cfg, settings)
		},
	}
	batchCmd.Flags().StringVar(&format, "format", "jpg", "Output format extension")
	batchCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of images to process per run (0 for all)")
	batchCmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule to keep re-running the batch, e.g. \"*/5 * * * *\"")

	for _, c := range []*cobra.Command{transformCmd, previewCmd, batchCmd} {
		c.Flags().StringVar(&configPath, "config", "", "Path to a YAML or JSON transform config")
		cmd.BindTransformFlags(c.Flags(), flagged)
	}

	convertCmd := &cobra.Command{
		Use:   "convert <input> <output> [--quality <n>]",
		Short: "Convert between image formats",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Convert(args[0], args[1], quality)
		},
	}
	convertCmd.Flags().IntVar(&quality, "quality", 90, "Output quality for lossy formats")

	pdfCmd := &cobra.Command{
		Use:   "pdf2img <input.pdf> [--out <dir>] [--dpi <n>] [--format <ext>]",
		Short: "Render each page of a PDF to an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.PdfToImages(args[0], outputDir, dpi, format, quality)
		},
	}
	defaults := raster.DefaultPdfOptions()
	pdfCmd.Flags().StringVar(&outputDir, "out", ".", "Output directory")
	pdfCmd.Flags().IntVar(&dpi, "dpi", defaults.DPI, "Rendering resolution")
	pdfCmd.Flags().StringVar(&format, "format", defaults.Format.Ext(), "Output format extension")
	pdfCmd.Flags().IntVar(&quality, "quality", defaults.Quality, "Output quality for lossy formats")

	infoCmd := &cobra.Command{
		Use:   "info <file> [--json]",
		Short: "Show image dimensions, format and size",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Info(args[0], asJSON)
		},
	}
	infoCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--config <file>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			internal.ShowVersion()
			internal.UserInfo()
			internal.EnvironmentVars()

			cfg := transform.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = transform.Load(configPath); err != nil {
					return err
				}
			}
			cmd.ApiServer(settings, cfg, debug)
			return nil
		},
	}
	apiServerCmd.Flags().StringVar(&configPath, "config", "", "Transform config applied to inbox images and uploads without one")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(_ *cobra.Command, _ []string) {
			internal.ShowVersion()
		},
	}

	rootCmd.AddCommand(transformCmd, previewCmd, batchCmd, convertCmd, pdfCmd, infoCmd, apiServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
