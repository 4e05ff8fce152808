package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/AnyUserName/imgvariant/internal/plan"
)

// PNGEncoder encodes images to PNG using Go's standard library.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() plan.Format { return plan.FormatPNG }
func (e *PNGEncoder) Available() bool     { return true }

func (e *PNGEncoder) Encode(img image.Image, opts plan.EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(64 * 1024)

	enc := &png.Encoder{CompressionLevel: compressionLevel(opts.CompressionLevel)}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressionLevel maps a zlib style 0-9 level onto the four levels the
// standard encoder knows.
func compressionLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.DefaultCompression
	case level <= 3:
		return png.BestSpeed
	case level >= 7:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}
