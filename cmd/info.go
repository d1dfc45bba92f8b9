package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rm-hull/imgpipe/internal/raster"
)

func Info(path string, asJSON bool) error {
	info, err := raster.LoadInfo(path)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("Filename:     %s\n", info.Filename)
	fmt.Printf("Dimensions:   %dx%d\n", info.Width, info.Height)
	fmt.Printf("Aspect ratio: %s\n", info.AspectRatio)
	fmt.Printf("Format:       %s\n", info.Format)
	fmt.Printf("Color mode:   %s\n", info.ColorMode)
	fmt.Printf("File size:    %.2f KB (%.2f MB)\n", info.FileSizeKB, info.FileSizeMB)
	fmt.Printf("EXIF:         %t\n", info.HasEXIF)
	return nil
}
