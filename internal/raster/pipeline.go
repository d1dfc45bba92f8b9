package raster

import (
	"image"
)

// Image is the working buffer threaded through a pipeline. Alpha is set by
// any stage that introduces transparency, and decides whether the encoder
// has to flatten the result onto white.
type Image struct {
	Img    image.Image
	Bounds image.Rectangle
	Alpha  bool
}

type PipelineStage interface {
	Process(img *Image) error
}

func New(img image.Image) *Image {
	return &Image{
		Img:    img,
		Bounds: img.Bounds(),
	}
}

// Set replaces the buffer, keeping Bounds in step with it
func (p *Image) Set(img image.Image) {
	p.Img = img
	p.Bounds = img.Bounds()
}

func (p *Image) Width() int {
	return p.Bounds.Dx()
}

func (p *Image) Height() int {
	return p.Bounds.Dy()
}

func (p *Image) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
