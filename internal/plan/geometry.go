// Package plan computes output geometry, crop corrections and encode
// options for image variants. It never touches pixels.
package plan

import (
	"math"

	"github.com/AnyUserName/imgvariant/internal/profile"
)

// Format is an encoder format name as reported by image.DecodeConfig.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// FormatFor maps a stored file type to the encoder format.
func FormatFor(ft profile.FileType) Format {
	switch ft {
	case profile.PNG:
		return FormatPNG
	case profile.WebP:
		return FormatWebP
	default:
		return FormatJPEG
	}
}

// FileType maps the format back to the stored file extension.
func (f Format) FileType() profile.FileType {
	switch f {
	case FormatPNG:
		return profile.PNG
	case FormatWebP:
		return profile.WebP
	default:
		return profile.JPG
	}
}

// Meta describes a decoded or planned image.
type Meta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format Format `json:"format"`
}

// AspectRatio is width over height, or 1 for a degenerate image.
func (m Meta) AspectRatio() float64 {
	if m.Width <= 0 || m.Height <= 0 {
		return 1
	}
	return float64(m.Width) / float64(m.Height)
}

// EncodeOptions are the format-specific encoder settings.
type EncodeOptions struct {
	Quality          int  `json:"quality,omitempty"`
	CompressionLevel int  `json:"compressionLevel,omitempty"`
	Progressive      bool `json:"progressive,omitempty"`
	Force            bool `json:"force"`
}

// Geometry is the planned output of one variant.
type Geometry struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Format  Format        `json:"format"`
	Options EncodeOptions `json:"options"`
}

// Meta returns the metadata the planned output will have.
func (g Geometry) Meta() Meta {
	return Meta{Width: g.Width, Height: g.Height, Format: g.Format}
}

// Reusable reports whether the source bytes can be stored as-is: same size,
// same format and nothing applied to the working image.
func (g Geometry) Reusable(src Meta, modified bool) bool {
	return !modified && g.Meta() == src
}

// PlanGeometry computes the output size and encode options for target.
//
// Exact width and height win. A single exact side derives the other from
// the target aspect ratio, falling back to the source ratio. Otherwise the
// source size is bounded by MaxHeight and then MaxWidth, so the width bound
// wins on conflict. With nothing set the source size passes through.
func PlanGeometry(src Meta, t profile.Target) Geometry {
	g := Geometry{Format: FormatFor(t.FileType)}
	switch g.Format {
	case FormatPNG:
		g.Options = EncodeOptions{CompressionLevel: 9, Force: true}
	case FormatWebP:
		g.Options = EncodeOptions{Quality: t.Quality, Force: true}
	default:
		g.Options = EncodeOptions{Quality: t.Quality, Progressive: true, Force: true}
	}

	ratio := t.AspectRatio
	if ratio <= 0 {
		ratio = src.AspectRatio()
	}

	switch {
	case t.Height != 0 && t.Width != 0:
		g.Height, g.Width = t.Height, t.Width
	case t.Height != 0:
		g.Height = t.Height
		g.Width = round(float64(t.Height) * ratio)
	case t.Width != 0:
		g.Width = t.Width
		g.Height = round(float64(t.Width) / ratio)
	case t.MaxHeight != 0 || t.MaxWidth != 0:
		g.Height, g.Width = src.Height, src.Width
		if t.MaxHeight != 0 && g.Height > t.MaxHeight {
			g.Height = t.MaxHeight
			g.Width = round(float64(g.Height) * ratio)
		}
		if t.MaxWidth != 0 && g.Width > t.MaxWidth {
			g.Width = t.MaxWidth
			g.Height = round(float64(g.Width) / ratio)
		}
	default:
		g.Height, g.Width = src.Height, src.Width
	}

	g.Width = atLeastOne(g.Width)
	g.Height = atLeastOne(g.Height)
	return g
}

// round rounds half toward positive infinity.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
