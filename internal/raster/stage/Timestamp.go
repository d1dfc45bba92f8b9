package stage

import (
	"fmt"
	"image/color"
	"time"
	_ "time/tzdata"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rs/zerolog/log"
)

const DefaultTimezone = "Asia/Ho_Chi_Minh"

type TimestampStage struct {
	Font     string
	FontSize float64
	Opacity  float64
	Color    color.NRGBA
	Anchor   Anchor
	Timezone string
	Fonts    *FontResolver
	Now      func() time.Time
}

// Process stamps the current time in the configured zone, e.g.
// "05/03/2024 (+07), 21:07:09", at the anchored position
func (s *TimestampStage) Process(p *raster.Image) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t, abbr, err := ResolveTime(s.Timezone, now())
	if err != nil {
		log.Warn().Err(err).Msg("falling back to local time")
	}
	text := FormatTimestamp(t, abbr)

	fonts := s.Fonts
	if fonts == nil {
		fonts = DefaultFonts()
	}
	face, err := fonts.Face(s.Font, s.FontSize)
	if err != nil {
		log.Warn().Err(err).Str("font", s.Font).Msg("timestamp font fallback")
	}
	defer func() {
		_ = face.Close()
	}()

	out := imaging.Clone(p.Img)
	box := measure(face, text)
	at := s.Anchor.Resolve(box.Width, box.Height, p.Width(), p.Height())
	drawText(out, face, text, box, at, withAlpha(s.Color, s.Opacity))

	p.Set(out)
	p.Alpha = true
	return nil
}

// ResolveTime converts t into the named zone, returning its abbreviation.
// Unknown zones yield local time labelled "LOCAL" and an ErrTimezone
func ResolveTime(name string, t time.Time) (time.Time, string, error) {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			t = t.In(loc)
			return t, t.Format("MST"), nil
		}
	}
	return t.Local(), "LOCAL", fmt.Errorf("%w: %q", raster.ErrTimezone, name)
}

func FormatTimestamp(t time.Time, abbr string) string {
	return fmt.Sprintf("%s (%s), %s", t.Format("02/01/2006"), abbr, t.Format("15:04:05"))
}
