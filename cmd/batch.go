package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rm-hull/imgpipe/internal"
	"github.com/rm-hull/imgpipe/internal/config"
	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rs/zerolog/log"
)

// Batch transforms the images in inputDir, at most limit per run when limit is
// positive. With a cron schedule it keeps running, picking up new arrivals
// until interrupted
func Batch(inputDir, outputDir, format, schedule string, limit int, cfg *transform.Config, settings *config.Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f, err := raster.ParseFormat(format)
	if err != nil {
		return err
	}

	job := &internal.BatchJob{
		InputDir:    inputDir,
		OutputDir:   outputDir,
		Format:      f,
		PoolSize:    max(1, settings.Workers),
		Limit:       limit,
		Config:      cfg,
		Transformer: NewTransformer(settings),
	}

	if schedule == "" {
		return job.Run()
	}

	c, err := internal.StartCron(schedule, job)
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("stopping CRON job")
	<-c.Stop().Done()
	return nil
}
