// Package encoder turns decoded images into bytes for each output format.
package encoder

import (
	"image"

	"github.com/AnyUserName/imgvariant/internal/plan"
)

// DefaultQuality is used when the plan carries no quality.
const DefaultQuality = 80

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format this encoder produces.
	Format() plan.Format

	// Encode converts the image to bytes using the planned options.
	Encode(img image.Image, opts plan.EncodeOptions) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp) may not be installed.
	Available() bool
}

func quality(q int) int {
	if q <= 0 || q > 100 {
		return DefaultQuality
	}
	return q
}
