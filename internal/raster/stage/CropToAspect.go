package stage

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

// AspectRatios lists the crop presets by tag, as width over height
var AspectRatios = map[string]float64{
	"1:1":  1.0,
	"16:9": 16.0 / 9.0,
	"4:3":  4.0 / 3.0,
	"9:16": 9.0 / 16.0,
	"3:4":  3.0 / 4.0,
}

type CropToAspectStage struct {
	Ratio string
}

// Process takes the largest centred region matching the ratio. Images wider
// than the target lose columns equally from both sides, otherwise rows are
// trimmed from top and bottom. Unknown ratio tags leave the image as is
func (s *CropToAspectStage) Process(p *raster.Image) error {
	target, ok := AspectRatios[s.Ratio]
	if !ok {
		return nil
	}

	w, h := p.Width(), p.Height()
	current := float64(w) / float64(h)

	var rect image.Rectangle
	if current > target {
		newW := max(1, int(float64(h)*target))
		left := (w - newW) / 2
		rect = image.Rect(left, 0, left+newW, h)
	} else {
		newH := max(1, int(float64(w)/target))
		top := (h - newH) / 2
		rect = image.Rect(0, top, w, top+newH)
	}

	p.Set(imaging.Crop(p.Img, rect.Add(p.Bounds.Min)))
	return nil
}
