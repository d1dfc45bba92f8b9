package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

type PdfOptions struct {
	DPI     int
	Format  Format
	Quality int
}

func DefaultPdfOptions() PdfOptions {
	return PdfOptions{DPI: 300, Format: JPEG, Quality: 90}
}

// RasterizePdf renders every page of the document to
// <outputDir>/<basename>_page_<n>.<ext>, numbering pages from 1, and returns
// the written paths
func RasterizePdf(path, outputDir string, opts PdfOptions) ([]string, error) {
	if opts.DPI <= 0 {
		return nil, fmt.Errorf("%w: dpi %d must be positive", ErrInvalidParameter, opts.DPI)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer func() {
		_ = doc.Close()
	}()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", ErrEncode, outputDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pages := doc.NumPage()
	log.Info().Str("pdf", path).Int("pages", pages).Int("dpi", opts.DPI).Msg("rasterizing document")

	written := make([]string, 0, pages)
	for n := range pages {
		rgba, err := doc.ImageDPI(n, float64(opts.DPI))
		if err != nil {
			return written, fmt.Errorf("%w: page %d: %v", ErrDecode, n+1, err)
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_page_%d.%s", base, n+1, opts.Format.Ext()))
		if err := New(rgba).Save(filename, opts.Quality); err != nil {
			return written, fmt.Errorf("page %d: %w", n+1, err)
		}
		written = append(written, filename)
	}
	return written, nil
}
