package cmd

import (
	"fmt"

	"github.com/rm-hull/imgpipe/internal/raster"
)

func PdfToImages(input, outputDir string, dpi int, format string, quality int) error {
	f, err := raster.ParseFormat(format)
	if err != nil {
		return err
	}

	written, err := raster.RasterizePdf(input, outputDir, raster.PdfOptions{DPI: dpi, Format: f, Quality: quality})
	for _, path := range written {
		fmt.Println(path)
	}
	return err
}
