package cmd

import (
	"github.com/rm-hull/imgpipe/internal"
	"github.com/rm-hull/imgpipe/internal/config"
	"github.com/rm-hull/imgpipe/internal/raster/stage"
	"github.com/rm-hull/imgpipe/internal/transformer"
)

func NewTransformer(settings *config.Settings) *transformer.Transformer {
	dirs := append(append([]string{}, settings.FontDirs...), stage.SystemFontDirs()...)
	return transformer.New(
		transformer.WithFonts(stage.NewFontResolver(dirs, settings.DefaultFont)),
		transformer.WithFetcher(internal.NewRemoteSource(settings.FetchTimeout)),
	)
}
