package plan

import "fmt"

// CropRequest is a caller-supplied crop window in source pixels. Values
// may be fractional or negative. A zero Width or Height means "to the
// edge of the source".
type CropRequest struct {
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// String formats the request the way the --crop flag accepts it.
func (r CropRequest) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X, r.Y, r.Width, r.Height)
}

// Rect is an extract region on the (left/top extended) canvas.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Extension is white padding added around the image.
type Extension struct {
	Top    int `json:"top,omitempty"`
	Bottom int `json:"bottom,omitempty"`
	Left   int `json:"left,omitempty"`
	Right  int `json:"right,omitempty"`
}

// IsZero reports whether no padding is needed.
func (e Extension) IsZero() bool { return e == Extension{} }

// CropPlan is the corrected crop for one source image.
//
// The codec applies it in three steps: pad Left and Top, extract Crop when
// set, then pad Bottom and Right. Crop is expressed against the canvas
// produced by the first step.
type CropPlan struct {
	Crop   *Rect     `json:"crop,omitempty"`
	Extend Extension `json:"extend"`
	Result Meta      `json:"result"`
}

// PlanCrop corrects r against the source bounds. Negative offsets grow the
// canvas on the left or top; windows running past the bottom or right edge
// are shortened and the shortfall is padded back afterwards, so the output
// always has the requested size.
func PlanCrop(src Meta, r CropRequest) CropPlan {
	var p CropPlan
	srcW, srcH := src.Width, src.Height

	left := round(r.X)
	top := round(r.Y)

	height := round(float64(srcH - top))
	if r.Height != 0 {
		height = round(r.Height)
	}
	width := round(float64(srcW - left))
	if r.Width != 0 {
		width = round(r.Width)
	}
	height = atLeastOne(height)
	width = atLeastOne(width)

	if left < 0 {
		p.Extend.Left = -left
		srcW += p.Extend.Left
		left = 0
	}
	if top < 0 {
		p.Extend.Top = -top
		srcH += p.Extend.Top
		top = 0
	}

	// An offset past the far edge keeps a one pixel strip so the extract
	// region stays on the canvas.
	if srcW > 0 && left > srcW-1 {
		left = srcW - 1
	}
	if srcH > 0 && top > srcH-1 {
		top = srcH - 1
	}

	if over := height + top - srcH; over > 0 {
		p.Extend.Bottom = over
		height -= over
	}
	if over := width + left - srcW; over > 0 {
		p.Extend.Right = over
		width -= over
	}

	if height < srcH || width < srcW {
		p.Crop = &Rect{Left: left, Top: top, Width: width, Height: height}
		p.Result = Meta{
			Width:  width + p.Extend.Right,
			Height: height + p.Extend.Bottom,
			Format: src.Format,
		}
		return p
	}

	p.Result = Meta{
		Width:  srcW + p.Extend.Right,
		Height: srcH + p.Extend.Bottom,
		Format: src.Format,
	}
	return p
}
