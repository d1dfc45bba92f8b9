package stage

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rm-hull/imgpipe/internal/raster"
)

// ParseColor reads a #RRGGBB (or #RGB) hex string. On failure it still
// returns white, together with an error the caller can log
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{255, 255, 255, 255}, fmt.Errorf("%w: colour %q: %v", raster.ErrInvalidParameter, hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}, nil
}

func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(max(0, min(255, opacity*255)))
	return c
}
