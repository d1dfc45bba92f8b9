package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInfo(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.png")
		require.NoError(t, imaging.Save(imaging.New(640, 480, color.White), path))

		info, err := LoadInfo(path)
		require.NoError(t, err)
		assert.Equal(t, "sample.png", info.Filename)
		assert.Equal(t, 640, info.Width)
		assert.Equal(t, 480, info.Height)
		assert.Equal(t, "640:480", info.AspectRatio)
		assert.Equal(t, "PNG", info.Format)
		assert.Equal(t, "RGB", info.ColorMode)
		assert.False(t, info.HasEXIF)
		assert.Greater(t, info.FileSizeKB, 0.0)
		assert.Less(t, info.FileSizeMB, 1.0)
	})

	t.Run("png colour types", func(t *testing.T) {
		palette := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
		tests := map[string]struct {
			img  image.Image
			mode string
		}{
			"opaque":      {imaging.New(4, 4, color.NRGBA{10, 20, 30, 255}), "RGB"},
			"translucent": {translucent(4, 4), "RGBA"},
			"grey":        {image.NewGray(image.Rect(0, 0, 4, 4)), "L"},
			"palette":     {palette, "P"},
		}
		for name, tc := range tests {
			t.Run(name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), name+".png")
				f, err := os.Create(path)
				require.NoError(t, err)
				require.NoError(t, png.Encode(f, tc.img))
				require.NoError(t, f.Close())

				info, err := LoadInfo(path)
				require.NoError(t, err)
				assert.Equal(t, tc.mode, info.ColorMode)
			})
		}
	})

	t.Run("jpeg", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.jpg")
		require.NoError(t, imaging.Save(imaging.New(30, 20, color.White), path))

		info, err := LoadInfo(path)
		require.NoError(t, err)
		assert.Equal(t, "JPEG", info.Format)
		assert.Equal(t, "RGB", info.ColorMode)
		assert.False(t, info.HasEXIF)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadInfo(filepath.Join(t.TempDir(), "nope.png"))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.2345))
	assert.Equal(t, 0.01, round2(0.005))
}
