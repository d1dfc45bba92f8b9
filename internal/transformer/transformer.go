package transformer

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"time"

	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rm-hull/imgpipe/internal/raster/stage"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves remote sources and logos given as http(s) URLs
type Fetcher interface {
	Fetch(url string) (io.ReadCloser, error)
}

type Step struct {
	ID    StageID
	Stage raster.PipelineStage
}

type Transformer struct {
	fonts   *stage.FontResolver
	fetcher Fetcher
	now     func() time.Time
}

type Option func(*Transformer)

func WithFonts(fonts *stage.FontResolver) Option {
	return func(t *Transformer) { t.fonts = fonts }
}

func WithFetcher(fetcher Fetcher) Option {
	return func(t *Transformer) { t.fetcher = fetcher }
}

func WithClock(now func() time.Time) Option {
	return func(t *Transformer) { t.now = now }
}

func New(opts ...Option) *Transformer {
	t := &Transformer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	if t.fonts == nil {
		t.fonts = stage.DefaultFonts()
	}
	return t
}

// Plan lists the stages the configuration enables, in Order. Stages whose
// settings are neutral are left out
func (t *Transformer) Plan(cfg *transform.Config) ([]Step, error) {
	steps := make([]Step, 0, len(Order))
	for _, id := range Order {
		s, err := t.build(id, cfg)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", id, err)
		}
		if s != nil {
			steps = append(steps, Step{ID: id, Stage: s})
		}
	}
	return steps, nil
}

// Apply runs every enabled stage over img in place
func (t *Transformer) Apply(img *raster.Image, cfg *transform.Config) error {
	steps, err := t.Plan(cfg)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := step.Stage.Process(img); err != nil {
			return fmt.Errorf("stage %s: %w", step.ID, err)
		}
		log.Debug().
			Stringer("stage", step.ID).
			Int("width", img.Width()).
			Int("height", img.Height()).
			Msg("stage applied")
	}
	return nil
}

// Preview loads the source and returns the transformed buffer without
// writing anything
func (t *Transformer) Preview(path string, cfg *transform.Config) (*raster.Image, error) {
	img, err := t.Open(path)
	if err != nil {
		return nil, err
	}
	if err := t.Apply(img, cfg); err != nil {
		return nil, err
	}
	return img, nil
}

// Save transforms input and encodes the result to output, choosing the format
// from its extension
func (t *Transformer) Save(input, output string, cfg *transform.Config) error {
	img, err := t.Preview(input, cfg)
	if err != nil {
		return err
	}
	if err := img.Save(output, cfg.Quality); err != nil {
		return err
	}
	log.Info().Str("input", input).Str("output", output).Msg("image saved")
	return nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Open decodes a local file, or a URL when a Fetcher is configured
func (t *Transformer) Open(path string) (*raster.Image, error) {
	if !isRemote(path) || t.fetcher == nil {
		return raster.Open(path)
	}
	body, err := t.fetcher.Fetch(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrDecode, err)
	}
	defer func() {
		_ = body.Close()
	}()
	return raster.NewImageFromReader(body)
}

func (t *Transformer) loadLogo(path string) (image.Image, error) {
	if !isRemote(path) || t.fetcher == nil {
		return raster.Load(path)
	}
	body, err := t.fetcher.Fetch(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrMissingResource, err)
	}
	defer func() {
		_ = body.Close()
	}()
	img, _, err := raster.Decode(body)
	return img, err
}

func parseColor(hex, field string) color.NRGBA {
	c, err := stage.ParseColor(hex)
	if err != nil {
		log.Warn().Err(err).Str("field", field).Msg("using white")
	}
	return c
}

func parseAnchor(name, field string) stage.Anchor {
	a, err := stage.ParseAnchor(name)
	if err != nil {
		log.Warn().Err(err).Str("field", field).Msg("using bottom-right")
	}
	return a
}

func factor(f float64, build func(float64) raster.PipelineStage) raster.PipelineStage {
	if f == 1.0 {
		return nil
	}
	return build(f)
}

func (t *Transformer) build(id StageID, cfg *transform.Config) (raster.PipelineStage, error) {
	switch id {
	case AspectCrop:
		if _, ok := stage.AspectRatios[string(cfg.AspectRatio)]; ok {
			return &stage.CropToAspectStage{Ratio: string(cfg.AspectRatio)}, nil
		}

	case Resize:
		if cfg.Resize == "" {
			return nil, nil
		}
		w, h, err := transform.ParseResize(cfg.Resize)
		if err != nil {
			return nil, err
		}
		return &stage.ResizeStage{Width: w, Height: h}, nil

	case Mirror:
		switch cfg.Mirror {
		case transform.MirrorHorizontal:
			return &stage.MirrorStage{Horizontal: true}, nil
		case transform.MirrorVertical:
			return &stage.MirrorStage{Vertical: true}, nil
		case transform.MirrorBoth:
			return &stage.MirrorStage{Horizontal: true, Vertical: true}, nil
		}

	case Brightness:
		return factor(cfg.Brightness, func(f float64) raster.PipelineStage {
			return &stage.BrightnessStage{Factor: f}
		}), nil

	case Contrast:
		return factor(cfg.Contrast, func(f float64) raster.PipelineStage {
			return &stage.ContrastStage{Factor: f}
		}), nil

	case Saturation:
		return factor(cfg.Saturation, func(f float64) raster.PipelineStage {
			return &stage.SaturationStage{Factor: f}
		}), nil

	case Temperature:
		return factor(cfg.Temperature, func(f float64) raster.PipelineStage {
			return &stage.TemperatureStage{Factor: f}
		}), nil

	case BlurSharpen:
		switch cfg.Filter {
		case transform.FilterBlur:
			return &stage.GaussianBlurStage{Sigma: 2}, nil
		case transform.FilterSharpen:
			return &stage.SharpenStage{}, nil
		}

	case ArtisticFilter:
		switch cfg.Artistic {
		case transform.ArtisticSepia:
			return &stage.SepiaStage{}, nil
		case transform.ArtisticEmboss:
			return &stage.EmbossStage{}, nil
		case transform.ArtisticEdgeDetect:
			return &stage.EdgeDetectStage{}, nil
		case transform.ArtisticVintage:
			return &stage.VintageStage{}, nil
		case transform.ArtisticOilPainting:
			return &stage.OilPaintStage{Radius: cfg.OilPaintRadius}, nil
		}

	case MotionBlur:
		if cfg.MotionBlur.Enabled {
			return &stage.MotionBlurStage{Size: cfg.MotionBlur.Size, Angle: cfg.MotionBlur.Angle}, nil
		}

	case Grayscale:
		if cfg.Grayscale {
			return &stage.GreyscaleStage{}, nil
		}

	case Invert:
		if cfg.Invert {
			return &stage.InvertStage{}, nil
		}

	case Pixelate:
		if cfg.PixelateSize > 1 {
			return &stage.PixelateStage{BlockSize: cfg.PixelateSize}, nil
		}

	case Rotate:
		switch cfg.Rotate {
		case transform.Rotate90:
			return &stage.RotateStage{Degrees: 90}, nil
		case transform.Rotate180:
			return &stage.RotateStage{Degrees: 180}, nil
		case transform.Rotate270:
			return &stage.RotateStage{Degrees: 270}, nil
		case transform.RotateFlipHorizontal:
			return &stage.MirrorStage{Horizontal: true}, nil
		case transform.RotateFlipVertical:
			return &stage.MirrorStage{Vertical: true}, nil
		case transform.RotateNone:
		default:
			return nil, fmt.Errorf("%w: rotation %q", raster.ErrInvalidParameter, cfg.Rotate)
		}

	case Border:
		if cfg.Border.Width > 0 {
			return &stage.BorderStage{Width: cfg.Border.Width, Color: parseColor(cfg.Border.Color, "border.color")}, nil
		}

	case RoundedCorners:
		if cfg.RoundedRadius > 0 {
			return &stage.RoundedCornersStage{Radius: cfg.RoundedRadius}, nil
		}

	case Shadow:
		if cfg.Shadow.Enabled {
			return &stage.ShadowStage{
				Offset: cfg.Shadow.Offset,
				Blur:   cfg.Shadow.Blur,
				Color:  parseColor(cfg.Shadow.Color, "shadow.color"),
			}, nil
		}

	case TextWatermark:
		wm := cfg.TextWatermark
		if wm.Text != "" {
			return &stage.TextWatermarkStage{
				Text:     wm.Text,
				Font:     wm.Font,
				FontSize: wm.FontSize,
				Opacity:  wm.Opacity,
				Color:    parseColor(wm.Color, "text_watermark.color"),
				Anchor:   parseAnchor(wm.Position, "text_watermark.position"),
				Rotation: wm.Rotation,
				Shadow:   wm.Shadow,
				Outline:  wm.Outline,
				Fonts:    t.fonts,
			}, nil
		}

	case LogoWatermark:
		if cfg.ImageWatermark.Path != "" {
			return &stage.LogoWatermarkStage{
				Path:        cfg.ImageWatermark.Path,
				SizePercent: cfg.ImageWatermark.SizePercent,
				Opacity:     cfg.TextWatermark.Opacity,
				Anchor:      parseAnchor(cfg.TextWatermark.Position, "text_watermark.position"),
				Load:        t.loadLogo,
			}, nil
		}

	case Timestamp:
		ts := cfg.Timestamp
		if ts.Enabled {
			return &stage.TimestampStage{
				Font:     ts.Font,
				FontSize: ts.FontSize,
				Opacity:  ts.Opacity,
				Color:    parseColor(ts.Color, "timestamp.color"),
				Anchor:   parseAnchor(ts.Position, "timestamp.position"),
				Timezone: ts.Timezone,
				Fonts:    t.fonts,
				Now:      t.now,
			}, nil
		}
	}
	return nil, nil
}
