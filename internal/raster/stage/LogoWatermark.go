package stage

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rs/zerolog/log"
)

type LogoWatermarkStage struct {
	Path        string
	SizePercent float64
	Opacity     float64
	Anchor      Anchor
	Load        func(path string) (image.Image, error)
}

// Process overlays the logo, keeping its own transparency. When SizePercent
// is positive the logo is scaled to that share of the image width with its
// aspect ratio kept. A logo that cannot be loaded is skipped with a warning
func (s *LogoWatermarkStage) Process(p *raster.Image) error {
	if s.Path == "" {
		return nil
	}

	load := s.Load
	if load == nil {
		load = raster.Load
	}
	src, err := load(s.Path)
	if err != nil {
		log.Warn().Err(err).Str("logo", s.Path).Msg("skipping logo watermark")
		return nil
	}

	logo := imaging.Clone(src)
	w, h := p.Width(), p.Height()
	if s.SizePercent > 0 {
		lw, lh := logo.Bounds().Dx(), logo.Bounds().Dy()
		newW := int(float64(w) * s.SizePercent / 100)
		if newW > 0 && lw > 0 {
			newH := max(1, int(float64(lh)*float64(newW)/float64(lw)))
			logo = imaging.Resize(logo, newW, newH, imaging.Lanczos)
		}
	}

	if s.Opacity < 1.0 {
		opacity := max(0, s.Opacity)
		for i := 3; i < len(logo.Pix); i += 4 {
			logo.Pix[i] = uint8(float64(logo.Pix[i]) * opacity)
		}
	}

	at := s.Anchor.Resolve(logo.Bounds().Dx(), logo.Bounds().Dy(), w, h)
	p.Set(imaging.Overlay(p.Img, logo, at.Add(p.Bounds.Min), 1.0))
	p.Alpha = true
	return nil
}
