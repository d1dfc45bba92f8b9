package internal

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StartCron runs the batch job on a standard five field cron schedule
func StartCron(schedule string, job *BatchJob) (*cron.Cron, error) {
	c := cron.New()

	log.Info().Str("schedule", schedule).Str("input", job.InputDir).Msg("starting CRON job to process images")
	_, err := c.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			log.Error().Err(err).Msg("scheduled batch failed")
		}
	})

	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
