package internal

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// NewScheduler sweeps the job's input directory every interval. The first
// sweep runs synchronously so configuration problems surface at startup
func NewScheduler(interval time.Duration, job *BatchJob) (gocron.Scheduler, error) {

	if err := job.Run(); err != nil {
		return nil, fmt.Errorf("initial run of job failed: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := job.Run(); err != nil {
				log.Error().Err(err).Str("inbox", job.InputDir).Msg("inbox sweep failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}
