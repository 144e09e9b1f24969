// Package alpr implements the plate detection, tracking, and decoding
// pipeline: consolidating per-frame plate detections into persistent tracks,
// transcribing plate glyphs into Latin and Arabic text, and classifying the
// issuing governorate from the Arabic letter pattern.
package alpr

import "image"

// Box is an axis-aligned bounding box in frame pixel coordinates.
// X1 < X2 and Y1 < Y2.
type Box struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// Width returns the horizontal extent of the box in pixels.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent of the box in pixels.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Area returns the box area in square pixels. Degenerate boxes report 0.
func (b Box) Area() int {
	if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
		return 0
	}
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// PlateBox is one plate region reported by the detector capability.
type PlateBox struct {
	Box   Box
	Score float64 // detector confidence in [0, 1]
}

// Detection is one plate detection bound to its originating frame. The
// frame reference is retained so the highest-confidence observation of a
// track can be cropped and decoded after the stream ends.
type Detection struct {
	Box        Box
	Score      float64
	Frame      image.Image
	FrameIndex int
}

// GlyphToken is one classified character-like region reported by the OCR
// capability on a plate crop. Labels are either digit characters ("0".."9")
// or symbolic letter names ("alif", "baa", ...).
type GlyphToken struct {
	Label string
	XMin  float64 // left edge of the glyph within the crop
}

// PlateRecord is the finalized result for one track (video mode) or one
// detection (image mode). Records are immutable once emitted.
type PlateRecord struct {
	TrackID          int64
	Plate            string // Latin rendering, e.g. "baa alif 3 2 1"
	PlateArabic      string // Arabic rendering, e.g. "ب ا ٣ ٢ ١"
	Governorate      string
	Confidence       float64
	FrameIndex       int
	TimestampInVideo string // MM:SS offset from the start of the stream
	SourceFile       string
	PlateImagePath   string
	CarImagePath     string
}
