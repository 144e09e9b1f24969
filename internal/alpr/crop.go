package alpr

import (
	"image"
	"image/draw"
)

// DefaultVehiclePad is the padding, in pixels, applied in each direction
// around a plate box to capture the surrounding vehicle.
const DefaultVehiclePad = 300

// PlateRect returns the plate box clamped to the frame bounds.
func PlateRect(b Box, width, height int) image.Rectangle {
	return image.Rect(
		clamp(b.X1, 0, width),
		clamp(b.Y1, 0, height),
		clamp(b.X2, 0, width),
		clamp(b.Y2, 0, height),
	)
}

// VehicleRect returns the plate box expanded by pad pixels in each
// direction and clamped to the frame bounds. Boxes touching a frame edge
// clamp to the boundary rather than going out of range.
func VehicleRect(b Box, width, height, pad int) image.Rectangle {
	return image.Rect(
		clamp(b.X1-pad, 0, width),
		clamp(b.Y1-pad, 0, height),
		clamp(b.X2+pad, 0, width),
		clamp(b.Y2+pad, 0, height),
	)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CropImage extracts the pixels under r. Image types that support
// SubImage share the backing array; anything else is copied.
func CropImage(img image.Image, r image.Rectangle) image.Image {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil
	}
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
