package stage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rm-hull/imgpipe/internal/raster"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const DefaultFontName = "arial.ttf"

// SystemFontDirs lists the conventional font locations for the current OS
func SystemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	case "darwin":
		return []string{"/Library/Fonts", "/System/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
		}
	}
}

// FontResolver turns a font name or path into a face, degrading through the
// configured default font, the bundled Go Regular face and finally a fixed
// bitmap face, so it always has something to draw with
type FontResolver struct {
	Dirs        []string
	DefaultFont string

	mu    sync.Mutex
	paths map[string]string
	fonts map[string]*opentype.Font
}

func NewFontResolver(dirs []string, defaultFont string) *FontResolver {
	if defaultFont == "" {
		defaultFont = DefaultFontName
	}
	return &FontResolver{
		Dirs:        dirs,
		DefaultFont: defaultFont,
		paths:       make(map[string]string),
		fonts:       make(map[string]*opentype.Font),
	}
}

var defaultFonts = sync.OnceValue(func() *FontResolver {
	return NewFontResolver(SystemFontDirs(), DefaultFontName)
})

// DefaultFonts searches the system font directories
func DefaultFonts() *FontResolver {
	return defaultFonts()
}

// Face returns a usable face at the given size. The error is non-nil when
// the requested font could not be used, and describes which fallback was taken
func (r *FontResolver) Face(name string, size float64) (font.Face, error) {
	var diag []error
	for i, candidate := range []string{name, r.DefaultFont} {
		if candidate == "" || (i == 1 && candidate == name) {
			continue
		}
		face, err := r.open(candidate, size)
		if err == nil {
			return face, errors.Join(diag...)
		}
		diag = append(diag, err)
	}

	f, err := opentype.Parse(goregular.TTF)
	if err == nil {
		var face font.Face
		if face, err = newFace(f, size); err == nil {
			return face, errors.Join(diag...)
		}
	}
	diag = append(diag, err, fmt.Errorf("%w: using fixed bitmap font", raster.ErrMissingResource))
	return basicfont.Face7x13, errors.Join(diag...)
}

func (r *FontResolver) open(name string, size float64) (font.Face, error) {
	f, err := r.load(name)
	if err != nil {
		return nil, err
	}
	return newFace(f, size)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: font size %v", raster.ErrInvalidParameter, size)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (r *FontResolver) load(name string) (*opentype.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[name]; ok {
		return f, nil
	}

	path, err := r.locate(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", raster.ErrMissingResource, path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", raster.ErrDecode, path, err)
	}
	r.fonts[name] = f
	return f, nil
}

// locate finds the file for a font name. Misses are cached as an empty path
// so a missing font only walks the directories once
func (r *FontResolver) locate(name string) (string, error) {
	path, ok := r.paths[name]
	if !ok {
		path = r.search(name)
		r.paths[name] = path
	}
	if path == "" {
		return "", fmt.Errorf("%w: font %q not found", raster.ErrMissingResource, name)
	}
	return path, nil
}

func (r *FontResolver) search(name string) string {
	if strings.ContainsRune(name, os.PathSeparator) || filepath.IsAbs(name) {
		if isRegular(name) {
			return name
		}
	}

	for _, dir := range r.Dirs {
		candidate := filepath.Join(dir, name)
		if isRegular(candidate) {
			return candidate
		}
	}

	base := filepath.Base(name)
	for _, dir := range r.Dirs {
		found := ""
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), base) && isRegular(path) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// device nodes and pipes are never fonts
func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
