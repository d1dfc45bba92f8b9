package transformer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rm-hull/imgpipe/internal/raster/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	data map[string][]byte
}

func (f *stubFetcher) Fetch(url string) (io.ReadCloser, error) {
	if b, ok := f.data[url]; ok {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	return nil, errors.New("404 Not Found")
}

func newTestTransformer(opts ...Option) *Transformer {
	opts = append([]Option{WithFonts(stage.NewFontResolver(nil, "missing.ttf"))}, opts...)
	return New(opts...)
}

func colourful(w, h int) *raster.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 7), uint8(y * 11), uint8(200 - x), 255})
		}
	}
	return raster.New(img)
}

func savePNG(t *testing.T, img image.Image, name string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func ids(steps []Step) []StageID {
	out := make([]StageID, len(steps))
	for i, s := range steps {
		out[i] = s.ID
	}
	return out
}

func TestOrder(t *testing.T) {
	names := make([]string, len(Order))
	for i, id := range Order {
		names[i] = id.String()
	}
	assert.Equal(t, []string{
		"aspect-crop", "resize", "mirror",
		"brightness", "contrast", "saturation", "temperature",
		"blur-sharpen", "artistic-filter", "motion-blur",
		"grayscale", "invert", "pixelate", "rotate",
		"border", "rounded-corners", "shadow",
		"text-watermark", "logo-watermark", "timestamp",
	}, names)
	assert.Equal(t, "unknown", StageID(99).String())
}

func TestPlan(t *testing.T) {
	tr := newTestTransformer()

	t.Run("defaults enable nothing", func(t *testing.T) {
		steps, err := tr.Plan(transform.DefaultConfig())
		require.NoError(t, err)
		assert.Empty(t, steps)
	})

	t.Run("stages follow the fixed order regardless of config layout", func(t *testing.T) {
		cfg := transform.DefaultConfig()
		cfg.Timestamp.Enabled = true
		cfg.Border.Width = 3
		cfg.Grayscale = true
		cfg.Brightness = 1.2
		cfg.AspectRatio = "16:9"
		cfg.Rotate = transform.RotateFlipVertical

		steps, err := tr.Plan(cfg)
		require.NoError(t, err)
		assert.Equal(t, []StageID{AspectCrop, Brightness, Grayscale, Rotate, Border, Timestamp}, ids(steps))
		assert.IsType(t, &stage.MirrorStage{}, steps[3].Stage)
	})

	t.Run("unrecognised aspect ratio is skipped", func(t *testing.T) {
		cfg := transform.DefaultConfig()
		cfg.AspectRatio = "2:1"
		steps, err := tr.Plan(cfg)
		require.NoError(t, err)
		assert.Empty(t, steps)
	})

	t.Run("invalid resize aborts", func(t *testing.T) {
		cfg := transform.DefaultConfig()
		cfg.Resize = "huge"
		_, err := tr.Plan(cfg)
		assert.ErrorIs(t, err, raster.ErrInvalidParameter)
	})

	t.Run("invalid rotation aborts", func(t *testing.T) {
		cfg := transform.DefaultConfig()
		cfg.Rotate = "45"
		_, err := tr.Plan(cfg)
		assert.ErrorIs(t, err, raster.ErrInvalidParameter)
	})

	t.Run("every artistic filter maps to a stage", func(t *testing.T) {
		for _, f := range []transform.ArtisticFilter{
			transform.ArtisticSepia,
			transform.ArtisticEmboss,
			transform.ArtisticEdgeDetect,
			transform.ArtisticVintage,
			transform.ArtisticOilPainting,
		} {
			cfg := transform.DefaultConfig()
			cfg.Artistic = f
			steps, err := tr.Plan(cfg)
			require.NoError(t, err)
			assert.Equal(t, []StageID{ArtisticFilter}, ids(steps), string(f))
		}
	})
}

func TestApply(t *testing.T) {
	tr := newTestTransformer()

	t.Run("neutral config leaves pixels untouched", func(t *testing.T) {
		img := colourful(40, 30)
		before := img.Img
		require.NoError(t, tr.Apply(img, transform.DefaultConfig()))
		assert.Same(t, before, img.Img)
	})

	t.Run("grayscale then border", func(t *testing.T) {
		img := colourful(40, 30)
		cfg := transform.DefaultConfig()
		cfg.Grayscale = true
		cfg.Border.Width = 5

		require.NoError(t, tr.Apply(img, cfg))
		assert.Equal(t, 50, img.Width())
		assert.Equal(t, 40, img.Height())
		for y := range img.Height() {
			for x := range img.Width() {
				r, g, b, _ := img.Img.At(x, y).RGBA()
				assert.Equal(t, r, g)
				assert.Equal(t, g, b)
			}
		}
	})

	t.Run("rotation swaps dimensions", func(t *testing.T) {
		img := colourful(40, 30)
		cfg := transform.DefaultConfig()
		cfg.Rotate = transform.Rotate90
		require.NoError(t, tr.Apply(img, cfg))
		assert.Equal(t, 30, img.Width())
		assert.Equal(t, 40, img.Height())
	})

	t.Run("logo is sized against the resized image", func(t *testing.T) {
		logo := savePNG(t, imaging.New(50, 50, color.NRGBA{0, 0, 255, 255}), "logo.png")
		img := raster.New(imaging.New(400, 200, color.NRGBA{255, 0, 0, 255}))

		cfg := transform.DefaultConfig()
		cfg.Resize = "100x50"
		cfg.ImageWatermark.Path = logo
		cfg.ImageWatermark.SizePercent = 20
		cfg.TextWatermark.Opacity = 1

		require.NoError(t, tr.Apply(img, cfg))
		assert.Equal(t, 100, img.Width())
		assert.True(t, img.Alpha)
		assert.Equal(t, color.NRGBA{0, 0, 255, 255}, color.NRGBAModel.Convert(img.Img.At(75, 25)))
		assert.Equal(t, color.NRGBA{255, 0, 0, 255}, color.NRGBAModel.Convert(img.Img.At(65, 25)))
	})

	t.Run("missing logo does not fail the run", func(t *testing.T) {
		img := colourful(40, 30)
		cfg := transform.DefaultConfig()
		cfg.ImageWatermark.Path = filepath.Join(t.TempDir(), "nope.png")
		assert.NoError(t, tr.Apply(img, cfg))
	})

	t.Run("decorations introduce transparency", func(t *testing.T) {
		img := colourful(40, 30)
		cfg := transform.DefaultConfig()
		cfg.RoundedRadius = 8
		cfg.Shadow.Enabled = true
		cfg.Shadow.Offset = 4
		cfg.Shadow.Blur = 2
		require.NoError(t, tr.Apply(img, cfg))
		assert.True(t, img.Alpha)
		assert.Equal(t, 48, img.Width())
		assert.Equal(t, 38, img.Height())
	})
}

func TestSave(t *testing.T) {
	fixed := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	tr := newTestTransformer(WithClock(fixed))

	input := savePNG(t, colourful(60, 40).Img, "in.png")
	output := filepath.Join(t.TempDir(), "out.bmp")

	cfg := transform.DefaultConfig()
	cfg.RoundedRadius = 10
	cfg.Timestamp.Enabled = true
	cfg.Timestamp.FontSize = 10
	cfg.Quality = 80

	require.NoError(t, tr.Save(input, output, cfg))

	info, err := raster.LoadInfo(output)
	require.NoError(t, err)
	assert.Equal(t, "BMP", info.Format)
	assert.Equal(t, 60, info.Width)

	out, err := imaging.Open(output)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, color.NRGBAModel.Convert(out.At(0, 0)))
}

func TestPreview(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		_, err := newTestTransformer().Preview(filepath.Join(t.TempDir(), "nope.png"), transform.DefaultConfig())
		assert.ErrorIs(t, err, raster.ErrDecode)
	})

	t.Run("remote source", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, imaging.Encode(&buf, colourful(20, 10).Img, imaging.PNG))
		tr := newTestTransformer(WithFetcher(&stubFetcher{data: map[string][]byte{
			"https://example.com/in.png": buf.Bytes(),
		}}))

		cfg := transform.DefaultConfig()
		cfg.Invert = true
		img, err := tr.Preview("https://example.com/in.png", cfg)
		require.NoError(t, err)
		assert.Equal(t, 20, img.Width())

		_, err = tr.Preview("https://example.com/missing.png", cfg)
		assert.ErrorIs(t, err, raster.ErrDecode)
	})

	t.Run("remote logo failure is skipped", func(t *testing.T) {
		tr := newTestTransformer(WithFetcher(&stubFetcher{}))
		input := savePNG(t, colourful(20, 10).Img, "in.png")
		cfg := transform.DefaultConfig()
		cfg.ImageWatermark.Path = "https://example.com/logo.png"

		img, err := tr.Preview(input, cfg)
		require.NoError(t, err)
		assert.False(t, img.Alpha)
	})
}
