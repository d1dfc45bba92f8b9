package cmd

import (
	"fmt"

	"github.com/rm-hull/imgpipe/internal/config"
	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rs/zerolog/log"
)

func Transform(input, output string, cfg *transform.Config, settings *config.Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return NewTransformer(settings).Save(input, output, cfg)
}

func Preview(input string, cfg *transform.Config, settings *config.Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	tr := NewTransformer(settings)
	steps, err := tr.Plan(cfg)
	if err != nil {
		return err
	}
	for _, step := range steps {
		log.Info().Stringer("stage", step.ID).Msg("enabled")
	}

	img, err := tr.Preview(input, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %dx%d (alpha=%t, stages=%d)\n", input, img.Width(), img.Height(), img.Alpha, len(steps))
	return nil
}

// Convert re-encodes an image into the format implied by the output name
func Convert(input, output string, quality int) error {
	img, err := raster.Open(input)
	if err != nil {
		return err
	}
	if err := img.Save(output, quality); err != nil {
		return err
	}
	log.Info().Str("input", input).Str("output", output).Msg("image converted")
	return nil
}
