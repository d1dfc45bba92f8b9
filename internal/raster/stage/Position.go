package stage

import (
	"fmt"
	"image"

	"github.com/rm-hull/imgpipe/internal/raster"
)

// Padding is the gap kept between an overlay and the image edge
const Padding = 10

type Anchor int

const (
	TopLeft Anchor = iota
	TopRight
	BottomLeft
	BottomRight
	Center
)

var anchorNames = map[string]Anchor{
	"tl":           TopLeft,
	"top-left":     TopLeft,
	"tr":           TopRight,
	"top-right":    TopRight,
	"bl":           BottomLeft,
	"bottom-left":  BottomLeft,
	"br":           BottomRight,
	"bottom-right": BottomRight,
	"c":            Center,
	"center":       Center,
}

func ParseAnchor(name string) (Anchor, error) {
	if a, ok := anchorNames[name]; ok {
		return a, nil
	}
	return BottomRight, fmt.Errorf("%w: position %q", raster.ErrInvalidParameter, name)
}

func (a Anchor) String() string {
	switch a {
	case TopLeft:
		return "tl"
	case TopRight:
		return "tr"
	case BottomLeft:
		return "bl"
	case Center:
		return "c"
	default:
		return "br"
	}
}

// Resolve returns the top-left point at which a w x h overlay is placed on a
// W x H image
func (a Anchor) Resolve(w, h, W, H int) image.Point {
	switch a {
	case TopLeft:
		return image.Pt(Padding, Padding)
	case TopRight:
		return image.Pt(W-w-Padding, Padding)
	case BottomLeft:
		return image.Pt(Padding, H-h-Padding)
	case Center:
		return image.Pt(floorDiv(W-w, 2), floorDiv(H-h, 2))
	default:
		return image.Pt(W-w-Padding, H-h-Padding)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
