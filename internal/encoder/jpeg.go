package encoder

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/AnyUserName/imgvariant/internal/plan"
)

// JPEGEncoder encodes images to JPEG using Go's standard library.
// The standard encoder is baseline only, so opts.Progressive is ignored.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() plan.Format { return plan.FormatJPEG }
func (e *JPEGEncoder) Available() bool     { return true }

func (e *JPEGEncoder) Encode(img image.Image, opts plan.EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(64 * 1024)

	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality(opts.Quality)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
