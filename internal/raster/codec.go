package raster

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	WEBP Format = "webp"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

var extensions = map[string]Format{
	".jpg":  JPEG,
	".jpeg": JPEG,
	".png":  PNG,
	".webp": WEBP,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
}

// FormatFromExt picks the output format from a file name, falling back to
// PNG when the extension is not one we know how to write
func FormatFromExt(path string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return PNG
}

// ParseFormat accepts either a bare extension ("jpg") or a format name
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	if f, ok := extensions["."+name]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: unsupported output format %q", ErrInvalidParameter, name)
}

// IsImageFile reports whether the file name carries a decodable extension
func IsImageFile(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (f Format) SupportsAlpha() bool {
	return f == PNG || f == WEBP || f == TIFF
}

func (f Format) ContentType() string {
	return "image/" + string(f)
}

func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return string(f)
}

// Decode reads any registered format, returning the image untouched along
// with the name of the decoder that recognised it
func Decode(r io.Reader) (image.Image, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, name, nil
}

// Load opens an image file keeping its transparency, used for overlays
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingResource, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := Decode(f)
	return img, err
}

// NewImageFromReader decodes the source and normalises it to an opaque 8-bit
// RGB buffer: any alpha channel in the source is dropped, not composited
func NewImageFromReader(r io.Reader) (*Image, error) {
	img, _, err := Decode(r)
	if err != nil {
		return nil, err
	}

	rgb := imaging.Clone(img)
	for i := 3; i < len(rgb.Pix); i += 4 {
		rgb.Pix[i] = 0xff
	}
	return New(rgb), nil
}

// MaxPixels caps the area of any buffer produced from untrusted input
const MaxPixels = 100_000_000

func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameter, width, height)
	}
	if int64(width)*int64(height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidParameter, width, height, MaxPixels)
	}
	return nil
}

// ReadBounded checks the header dimensions against MaxPixels before decoding
// the pixel data
func ReadBounded(r io.ReadSeeker) (*Image, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := CheckDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return NewImageFromReader(r)
}

func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := NewImageFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return img, nil
}

// Flatten composites the buffer over a white background
func (p *Image) Flatten() image.Image {
	bg := imaging.New(p.Width(), p.Height(), color.White)
	return imaging.Overlay(bg, p.Img, image.Pt(0, 0), 1.0)
}

func (p *Image) Write(w io.Writer, format Format, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("%w: quality %d must be between 1 and 100", ErrInvalidParameter, quality)
	}

	img := p.Img
	if p.Alpha && !format.SupportsAlpha() {
		img = p.Flatten()
	}

	var err error
	switch format {
	case WEBP:
		var options *encoder.Options
		options, err = encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
		if err == nil {
			err = webp.Encode(w, img, options)
		}
	case JPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case GIF:
		err = imaging.Encode(w, img, imaging.GIF)
	case BMP:
		err = imaging.Encode(w, img, imaging.BMP)
	case TIFF:
		err = imaging.Encode(w, img, imaging.TIFF)
	default:
		err = imaging.Encode(w, img, imaging.PNG)
	}

	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// Save encodes to a temporary file alongside the destination, then renames it
// into place so a failed write never leaves a truncated output behind
func (p *Image) Save(path string, quality int) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".imgpipe-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %v", ErrEncode, err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := p.Write(tmpFile, FormatFromExt(path), quality); err != nil {
		return err
	}

	if err := tmpFile.Chmod(0644); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temporary file before rename: %v", ErrEncode, err)
	}

	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("%w: failed to rename temporary file: %v", ErrEncode, err)
	}

	cleanupTemp = false
	return nil
}
