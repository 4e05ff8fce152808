// Package codec decodes, crops, resizes and encodes images with
// disintegration/imaging and the encoder registry.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/imgvariant/internal/encoder"
	"github.com/AnyUserName/imgvariant/internal/plan"
)

// Fill is the color of canvas extensions.
var Fill color.Color = color.White

// Imaging is the pixel backend used by the producer.
type Imaging struct {
	registry *encoder.Registry
}

// NewImaging creates a codec that encodes through registry.
func NewImaging(registry *encoder.Registry) *Imaging {
	if registry == nil {
		registry = encoder.NewRegistry()
	}
	return &Imaging{registry: registry}
}

// Metadata reads the size and format without decoding pixels.
func (c *Imaging) Metadata(data []byte) (plan.Meta, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return plan.Meta{}, fmt.Errorf("read metadata: %w", err)
	}
	return plan.Meta{Width: cfg.Width, Height: cfg.Height, Format: plan.Format(format)}, nil
}

// Decode decodes the full image.
func (c *Imaging) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// ApplyCrop pads the left and top edges, extracts the crop rectangle, then
// pads the bottom and right edges.
func (c *Imaging) ApplyCrop(img image.Image, p plan.CropPlan) image.Image {
	out := img
	if p.Extend.Left > 0 || p.Extend.Top > 0 {
		out = extend(out, p.Extend.Top, 0, p.Extend.Left, 0)
	}
	if p.Crop != nil {
		origin := out.Bounds().Min
		r := image.Rect(p.Crop.Left, p.Crop.Top, p.Crop.Left+p.Crop.Width, p.Crop.Top+p.Crop.Height)
		out = imaging.Crop(out, r.Add(origin))
	}
	if p.Extend.Bottom > 0 || p.Extend.Right > 0 {
		out = extend(out, 0, p.Extend.Bottom, 0, p.Extend.Right)
	}
	return out
}

// Encode resizes img to the planned size when needed and encodes it.
func (c *Imaging) Encode(img image.Image, g plan.Geometry) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() != g.Width || b.Dy() != g.Height {
		img = imaging.Resize(img, g.Width, g.Height, imaging.Lanczos)
	}
	data, err := c.registry.Encode(g.Format, img, g.Options)
	if err != nil {
		return nil, fmt.Errorf("encode %s %dx%d: %w", g.Format, g.Width, g.Height, err)
	}
	return data, nil
}

func extend(img image.Image, top, bottom, left, right int) image.Image {
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+left+right, b.Dy()+top+bottom, Fill)
	return imaging.Paste(canvas, img, image.Pt(left, top))
}
