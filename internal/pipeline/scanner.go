package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the manifest key (relpath without extension).
	Key string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff).
	Format string
	Size   int64
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// Scan returns the sources under input. A regular file is returned as the
// only source whatever its extension; directories are walked for known
// image extensions.
func Scan(input string) ([]Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []Source{newSource(input, filepath.Base(input), info.Size())}, nil
	}
	return ScanImages(input)
}

// ScanImages walks the input directory and returns all image sources.
// Hidden directories are skipped.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		sources = append(sources, newSource(path, relPath, info.Size()))
		return nil
	})

	return sources, err
}

func newSource(path, relPath string, size int64) Source {
	ext := filepath.Ext(relPath)

	format := strings.ToLower(strings.TrimPrefix(ext, "."))
	switch format {
	case "jpg":
		format = "jpeg"
	case "tif":
		format = "tiff"
	}

	return Source{
		AbsPath: path,
		RelPath: filepath.ToSlash(relPath),
		Key:     filepath.ToSlash(strings.TrimSuffix(relPath, ext)),
		Format:  format,
		Size:    size,
	}
}
