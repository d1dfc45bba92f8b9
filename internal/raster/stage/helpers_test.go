package stage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

func solid(w, h int, c color.NRGBA) *raster.Image {
	return raster.New(imaging.New(w, h, c))
}

func gradient(w, h int) *raster.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), uint8((x + y) % 256), 255})
		}
	}
	return raster.New(img)
}

func pixel(p *raster.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(p.Img.At(x, y)).(color.NRGBA)
}

// changed counts pixels that differ between two same-sized images
func changed(a, b *raster.Image) int {
	n := 0
	for y := range a.Height() {
		for x := range a.Width() {
			if pixel(a, x, y) != pixel(b, x, y) {
				n++
			}
		}
	}
	return n
}

func changedIn(a, b *raster.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if pixel(a, x, y) != pixel(b, x, y) {
				n++
			}
		}
	}
	return n
}
