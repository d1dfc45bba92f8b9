package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

type Info struct {
	Filename    string  `json:"filename"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio string  `json:"aspect_ratio"`
	Format      string  `json:"format"`
	ColorMode   string  `json:"color_mode"`
	FileSizeKB  float64 `json:"file_size_kb"`
	FileSizeMB  float64 `json:"file_size_mb"`
	HasEXIF     bool    `json:"has_exif"`
}

// LoadInfo reports dimensions, encoding and size without decoding pixel data
func LoadInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer func() {
		_ = f.Close()
	}()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	mode := colorMode(cfg.ColorModel)
	if format == "png" {
		if m, ok := pngColorMode(f); ok {
			mode = m
		}
	}

	hasExif := false
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if _, err := exif.Decode(f); err == nil {
			hasExif = true
		}
	}

	size := float64(stat.Size())
	return &Info{
		Filename:    filepath.Base(path),
		Width:       cfg.Width,
		Height:      cfg.Height,
		AspectRatio: fmt.Sprintf("%d:%d", cfg.Width, cfg.Height),
		Format:      strings.ToUpper(format),
		ColorMode:   mode,
		FileSizeKB:  round2(size / 1024),
		FileSizeMB:  round2(size / (1024 * 1024)),
		HasEXIF:     hasExif,
	}, nil
}

func colorMode(model color.Model) string {
	switch model {
	case color.GrayModel, color.Gray16Model:
		return "L"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "RGB"
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	}
	if _, ok := model.(color.Palette); ok {
		return "P"
	}
	return "unknown"
}

// the decoder reports RGBA for any truecolour PNG, so read the IHDR colour
// type to tell RGB from RGBA
var pngModes = map[byte]string{0: "L", 2: "RGB", 3: "P", 4: "LA", 6: "RGBA"}

func pngColorMode(r io.ReadSeeker) (string, bool) {
	header := make([]byte, 26)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", false
	}
	if _, err := io.ReadFull(r, header); err != nil || string(header[12:16]) != "IHDR" {
		return "", false
	}
	mode, ok := pngModes[header[25]]
	return mode, ok
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
