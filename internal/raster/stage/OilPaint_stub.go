//go:build !imagick

package stage

import (
	"fmt"
	"image"

	"github.com/rm-hull/imgpipe/internal/raster"
)

func oilPaint(_ image.Image, _ float64) (image.Image, error) {
	return nil, fmt.Errorf("%w: oil painting requires a build with the imagick tag", raster.ErrUnsupportedFeature)
}
