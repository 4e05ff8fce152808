// Package profile defines image types, image profiles and the dimension
// rules shared by selection and geometry planning.
package profile

// EstimateArea returns the pixel area d describes, filling unknown sides
// from the aspect ratio or with 1.
func EstimateArea(d Dimensions) float64 {
	height := float64(firstSet(d.Height, d.MaxHeight))
	width := float64(firstSet(d.Width, d.MaxWidth))

	if height == 0 {
		if d.AspectRatio != 0 && width != 0 {
			height = width / d.AspectRatio
		} else {
			height = 1
		}
	}
	if width == 0 {
		if d.AspectRatio != 0 && height != 0 {
			width = height * d.AspectRatio
		} else {
			width = 1
		}
	}
	return height * width
}

// Area is EstimateArea(d).
func (d Dimensions) Area() float64 { return EstimateArea(d) }

func firstSet(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
