package transform

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rm-hull/imgpipe/internal/raster"
	"gopkg.in/yaml.v3"
)

type AspectRatio string

type Mirror string

const (
	MirrorNone       Mirror = ""
	MirrorHorizontal Mirror = "horizontal"
	MirrorVertical   Mirror = "vertical"
	MirrorBoth       Mirror = "both"
)

type Rotation string

const (
	RotateNone           Rotation = ""
	Rotate90             Rotation = "90"
	Rotate180            Rotation = "180"
	Rotate270            Rotation = "270"
	RotateFlipHorizontal Rotation = "flip-horizontal"
	RotateFlipVertical   Rotation = "flip-vertical"
)

type BlurSharpen string

const (
	FilterNone    BlurSharpen = ""
	FilterBlur    BlurSharpen = "blur"
	FilterSharpen BlurSharpen = "sharpen"
)

type ArtisticFilter string

const (
	ArtisticNone        ArtisticFilter = "none"
	ArtisticSepia       ArtisticFilter = "sepia"
	ArtisticEmboss      ArtisticFilter = "emboss"
	ArtisticEdgeDetect  ArtisticFilter = "edge-detection"
	ArtisticVintage     ArtisticFilter = "vintage"
	ArtisticOilPainting ArtisticFilter = "oil-painting"
)

type MotionBlur struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Angle   float64 `yaml:"angle" json:"angle" validate:"gte=0,lte=360"`
	Size    int     `yaml:"size" json:"size" validate:"gte=1,lte=255"`
}

type Border struct {
	Width int    `yaml:"width" json:"width" validate:"gte=0,lte=1000"`
	Color string `yaml:"color" json:"color"`
}

type Shadow struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Offset  int     `yaml:"offset" json:"offset" validate:"gte=0,lte=1000"`
	Blur    float64 `yaml:"blur" json:"blur" validate:"gte=0,lte=100"`
	Color   string  `yaml:"color" json:"color"`
}

// TextWatermark also supplies the opacity and position of the logo watermark
type TextWatermark struct {
	Text     string  `yaml:"text" json:"text"`
	Font     string  `yaml:"font" json:"font"`
	FontSize float64 `yaml:"font_size" json:"font_size" validate:"gt=0,lte=1000"`
	Opacity  float64 `yaml:"opacity" json:"opacity" validate:"gte=0.1,lte=1"`
	Color    string  `yaml:"color" json:"color"`
	Position string  `yaml:"position" json:"position" validate:"oneof=tl tr bl br c top-left top-right bottom-left bottom-right center"`
	Rotation float64 `yaml:"rotation" json:"rotation" validate:"gte=0,lte=360"`
	Shadow   bool    `yaml:"shadow" json:"shadow"`
	Outline  bool    `yaml:"outline" json:"outline"`
}

type ImageWatermark struct {
	Path        string  `yaml:"path" json:"path"`
	SizePercent float64 `yaml:"size_percent" json:"size_percent" validate:"gte=0,lte=50"`
}

type Timestamp struct {
	Enabled  bool    `yaml:"enabled" json:"enabled"`
	Font     string  `yaml:"font" json:"font"`
	FontSize float64 `yaml:"font_size" json:"font_size" validate:"gt=0,lte=1000"`
	Opacity  float64 `yaml:"opacity" json:"opacity" validate:"gte=0.1,lte=1"`
	Color    string  `yaml:"color" json:"color"`
	Position string  `yaml:"position" json:"position" validate:"oneof=tl tr bl br c top-left top-right bottom-left bottom-right center"`
	Timezone string  `yaml:"timezone" json:"timezone"`
}

// Config is the full set of options for one transformation. The zero value of
// each enum, and a factor of 1.0, leave the corresponding stage out
type Config struct {
	Resize         string         `yaml:"resize" json:"resize"`
	AspectRatio    AspectRatio    `yaml:"aspect_ratio" json:"aspect_ratio"`
	Mirror         Mirror         `yaml:"mirror" json:"mirror" validate:"omitempty,oneof=horizontal vertical both"`
	Brightness     float64        `yaml:"brightness" json:"brightness" validate:"gte=0"`
	Contrast       float64        `yaml:"contrast" json:"contrast" validate:"gte=0"`
	Saturation     float64        `yaml:"saturation" json:"saturation" validate:"gte=0"`
	Temperature    float64        `yaml:"temperature" json:"temperature" validate:"gte=0.5,lte=1.5"`
	Filter         BlurSharpen    `yaml:"filter" json:"filter" validate:"omitempty,oneof=blur sharpen"`
	Artistic       ArtisticFilter `yaml:"artistic" json:"artistic" validate:"omitempty,oneof=none sepia emboss edge-detection vintage oil-painting"`
	OilPaintRadius int            `yaml:"oil_paint_radius" json:"oil_paint_radius" validate:"gte=1,lte=32"`
	MotionBlur     MotionBlur     `yaml:"motion_blur" json:"motion_blur"`
	Grayscale      bool           `yaml:"grayscale" json:"grayscale"`
	Invert         bool           `yaml:"invert" json:"invert"`
	PixelateSize   int            `yaml:"pixelate" json:"pixelate" validate:"gte=0"`
	Rotate         Rotation       `yaml:"rotate" json:"rotate" validate:"omitempty,oneof=90 180 270 flip-horizontal flip-vertical"`
	Border         Border         `yaml:"border" json:"border"`
	RoundedRadius  int            `yaml:"rounded_corners" json:"rounded_corners" validate:"gte=0,lte=10000"`
	Shadow         Shadow         `yaml:"shadow" json:"shadow"`
	TextWatermark  TextWatermark  `yaml:"text_watermark" json:"text_watermark"`
	ImageWatermark ImageWatermark `yaml:"image_watermark" json:"image_watermark"`
	Timestamp      Timestamp      `yaml:"timestamp" json:"timestamp"`
	Quality        int            `yaml:"quality" json:"quality" validate:"gte=1,lte=100"`
}

func DefaultConfig() *Config {
	return &Config{
		Brightness:     1.0,
		Contrast:       1.0,
		Saturation:     1.0,
		Temperature:    1.0,
		Artistic:       ArtisticNone,
		OilPaintRadius: 4,
		MotionBlur:     MotionBlur{Size: 15},
		Border:         Border{Color: "#000000"},
		Shadow:         Shadow{Offset: 10, Blur: 10, Color: "#000000"},
		TextWatermark: TextWatermark{
			Font:     "arial.ttf",
			FontSize: 40,
			Opacity:  0.5,
			Color:    "#FFFFFF",
			Position: "br",
		},
		ImageWatermark: ImageWatermark{SizePercent: 15},
		Timestamp: Timestamp{
			Font:     "arial.ttf",
			FontSize: 30,
			Opacity:  0.7,
			Color:    "#FFFFFF",
			Position: "bl",
			Timezone: "Asia/Ho_Chi_Minh",
		},
		Quality: 90,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", raster.ErrInvalidParameter, err)
	}
	if c.Resize != "" {
		if _, _, err := ParseResize(c.Resize); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads a YAML (or JSON) document over the defaults, so omitted keys
// keep their default values
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", raster.ErrInvalidParameter, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// ParseResize reads a "WxH" token such as "1920x1080"
func ParseResize(token string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(token)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: resize %q is not WxH", raster.ErrInvalidParameter, token)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("%w: resize width %q", raster.ErrInvalidParameter, w)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("%w: resize height %q", raster.ErrInvalidParameter, h)
	}
	if err := raster.CheckDimensions(width, height); err != nil {
		return 0, 0, fmt.Errorf("resize %q: %w", token, err)
	}
	return width, height, nil
}
