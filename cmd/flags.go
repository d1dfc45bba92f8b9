package cmd

import (
	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/spf13/pflag"
)

// BindTransformFlags registers the transform options on fs, using the current
// values in cfg as defaults and writing parsed values back into it
func BindTransformFlags(fs *pflag.FlagSet, cfg *transform.Config) {
	fs.StringVar(&cfg.Resize, "resize", cfg.Resize, "Resize to WxH, e.g. 1920x1080")
	fs.StringVar((*string)(&cfg.AspectRatio), "crop", string(cfg.AspectRatio), "Centre crop to 1:1, 16:9, 4:3, 9:16 or 3:4")
	fs.StringVar((*string)(&cfg.Mirror), "mirror", string(cfg.Mirror), "Mirror: horizontal, vertical or both")
	fs.Float64Var(&cfg.Brightness, "brightness", cfg.Brightness, "Brightness factor (1.0 = unchanged)")
	fs.Float64Var(&cfg.Contrast, "contrast", cfg.Contrast, "Contrast factor (1.0 = unchanged)")
	fs.Float64Var(&cfg.Saturation, "saturation", cfg.Saturation, "Saturation factor (1.0 = unchanged)")
	fs.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Colour temperature, 0.5 (cool) to 1.5 (warm)")
	fs.StringVar((*string)(&cfg.Filter), "filter", string(cfg.Filter), "Filter: blur or sharpen")
	fs.StringVar((*string)(&cfg.Artistic), "artistic", string(cfg.Artistic), "Artistic filter: sepia, emboss, edge-detection, vintage or oil-painting")
	fs.BoolVar(&cfg.MotionBlur.Enabled, "motion-blur", cfg.MotionBlur.Enabled, "Enable motion blur")
	fs.Float64Var(&cfg.MotionBlur.Angle, "motion-angle", cfg.MotionBlur.Angle, "Motion blur angle in degrees")
	fs.BoolVar(&cfg.Grayscale, "grayscale", cfg.Grayscale, "Convert to greyscale")
	fs.BoolVar(&cfg.Invert, "invert", cfg.Invert, "Invert colours")
	fs.IntVar(&cfg.PixelateSize, "pixelate", cfg.PixelateSize, "Pixelate with this block size")
	fs.StringVar((*string)(&cfg.Rotate), "rotate", string(cfg.Rotate), "Rotate clockwise by 90, 180 or 270, or flip-horizontal / flip-vertical")
	fs.IntVar(&cfg.Border.Width, "border", cfg.Border.Width, "Border width in pixels")
	fs.StringVar(&cfg.Border.Color, "border-color", cfg.Border.Color, "Border colour as #RRGGBB")
	fs.IntVar(&cfg.RoundedRadius, "rounded", cfg.RoundedRadius, "Rounded corner radius in pixels")
	fs.BoolVar(&cfg.Shadow.Enabled, "shadow", cfg.Shadow.Enabled, "Add a drop shadow")
	fs.StringVar(&cfg.TextWatermark.Text, "watermark", cfg.TextWatermark.Text, "Text watermark")
	fs.StringVar(&cfg.TextWatermark.Position, "position", cfg.TextWatermark.Position, "Watermark position: tl, tr, bl, br or c")
	fs.Float64Var(&cfg.TextWatermark.Opacity, "opacity", cfg.TextWatermark.Opacity, "Watermark opacity, 0.1 to 1.0")
	fs.StringVar(&cfg.ImageWatermark.Path, "logo", cfg.ImageWatermark.Path, "Logo image path or URL")
	fs.Float64Var(&cfg.ImageWatermark.SizePercent, "logo-size", cfg.ImageWatermark.SizePercent, "Logo width as a percentage of the image width")
	fs.BoolVar(&cfg.Timestamp.Enabled, "timestamp", cfg.Timestamp.Enabled, "Stamp the current date and time")
	fs.StringVar(&cfg.Timestamp.Timezone, "timezone", cfg.Timestamp.Timezone, "IANA timezone for the timestamp")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "Output quality for lossy formats, 1 to 100")
}

// ResolveConfig loads the config file when one is given, then re-applies any
// flag the user set explicitly so the command line wins
func ResolveConfig(fs *pflag.FlagSet, path string, flagged *transform.Config) (*transform.Config, error) {
	if path == "" {
		return flagged, nil
	}

	cfg, err := transform.Load(path)
	if err != nil {
		return nil, err
	}

	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	BindTransformFlags(overlay, cfg)

	var setErr error
	fs.Visit(func(f *pflag.Flag) {
		if overlay.Lookup(f.Name) == nil || setErr != nil {
			return
		}
		setErr = overlay.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return nil, setErr
	}
	return cfg, nil
}
