package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgvariant/internal/manifest"
	"github.com/AnyUserName/imgvariant/internal/producer"
	"github.com/AnyUserName/imgvariant/internal/upload"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	image manifest.Image
	err   error
}

// processImage uploads one source file and converts the result into its
// manifest entry.
func processImage(ctx context.Context, up Processor, src Source, cfg Config) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}

	res, err := up.Process(ctx, upload.Request{
		Data:       data,
		FileName:   filepath.Base(src.RelPath),
		ImageName:  cfg.ImageName,
		Type:       cfg.Type,
		OriginalID: cfg.OriginalID,
		Crop:       cfg.Crop,
		Session:    cfg.Session,
	})
	if err != nil {
		result.err = fmt.Errorf("process %s: %w", src.RelPath, err)
		return result
	}

	img := res.Image
	result.image = manifest.Image{
		ID:        img.ID,
		TypeID:    img.ImageTypeID,
		FileName:  img.FileName,
		ImageName: img.ImageName,
		Path:      img.Path,
		Original: manifest.OriginalInfo{
			Width:  img.Width,
			Height: img.Height,
			Format: src.Format,
			Size:   int64(len(data)),
		},
		Crop:    cfg.Crop,
		Primary: toVariant(res.Output.Primary),
	}
	for _, v := range res.Output.Extras {
		result.image.Extras = append(result.image.Extras, toVariant(v))
	}
	return result
}

func toVariant(v producer.Variant) manifest.Variant {
	return manifest.Variant{
		Profile: v.Profile,
		Format:  string(v.Geometry.Format),
		Width:   v.Geometry.Width,
		Height:  v.Geometry.Height,
		Size:    v.Size,
		Hash:    v.Hash,
		Path:    v.Path,
		Reused:  v.Reused,
	}
}
