package stage

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rs/zerolog/log"
)

type TextWatermarkStage struct {
	Text     string
	Font     string
	FontSize float64
	Opacity  float64
	Color    color.NRGBA
	Anchor   Anchor
	Rotation float64
	Shadow   bool
	Outline  bool
	Fonts    *FontResolver
}

// Process draws the text on a transparent layer at the anchored position,
// optionally with a drop shadow offset by (2, 2) and a one pixel black
// outline, rotates the layer about the text centre and composites it
func (s *TextWatermarkStage) Process(p *raster.Image) error {
	if s.Text == "" {
		return nil
	}

	fonts := s.Fonts
	if fonts == nil {
		fonts = DefaultFonts()
	}
	face, err := fonts.Face(s.Font, s.FontSize)
	if err != nil {
		log.Warn().Err(err).Str("font", s.Font).Msg("text watermark font fallback")
	}
	defer func() {
		_ = face.Close()
	}()

	w, h := p.Width(), p.Height()
	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	box := measure(face, s.Text)
	at := s.Anchor.Resolve(box.Width, box.Height, w, h)

	if s.Shadow {
		shadow := color.NRGBA{0, 0, 0, uint8(max(0, min(255, s.Opacity*128)))}
		drawText(layer, face, s.Text, box, at.Add(image.Pt(2, 2)), shadow)
	}

	if s.Outline {
		outline := color.NRGBA{0, 0, 0, 255}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					drawText(layer, face, s.Text, box, at.Add(image.Pt(dx, dy)), outline)
				}
			}
		}
	}

	drawText(layer, face, s.Text, box, at, withAlpha(s.Color, s.Opacity))

	if angle := math.Mod(s.Rotation, 360); angle != 0 {
		cx := float64(at.X + box.Width/2)
		cy := float64(at.Y + box.Height/2)
		layer = rotateLayer(layer, angle, cx, cy)
	}

	p.Set(imaging.Overlay(p.Img, layer, p.Bounds.Min, 1.0))
	p.Alpha = true
	return nil
}
