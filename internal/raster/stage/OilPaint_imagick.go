//go:build imagick

package stage

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/rm-hull/imgpipe/internal/raster"
	"gopkg.in/gographics/imagick.v3/imagick"
)

var initMagick sync.Once

func oilPaint(img image.Image, radius float64) (image.Image, error) {
	initMagick.Do(imagick.Initialize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrEncode, err)
	}

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImageBlob(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrDecode, err)
	}
	if err := mw.OilPaintImage(radius, 1.0); err != nil {
		return nil, fmt.Errorf("oil paint: %w", err)
	}
	if err := mw.SetImageFormat("PNG"); err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrEncode, err)
	}

	out, err := png.Decode(bytes.NewReader(mw.GetImageBlob()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrDecode, err)
	}
	return out, nil
}
