package alpr

import (
	"fmt"
	"image"
)

// PlateDetector locates plate regions in a full frame. Implementations wrap
// an inference backend; no ordering of the returned boxes is assumed.
type PlateDetector interface {
	DetectPlates(frame image.Image) ([]PlateBox, error)
}

// GlyphReader reads classified glyph tokens off a cropped plate image.
type GlyphReader interface {
	ReadGlyphs(crop image.Image) ([]GlyphToken, error)
}

// StorageSink persists a cropped image under a suggested name and returns a
// stable reference for it. Failures are the sink's concern; the pipeline
// records an empty reference and continues.
type StorageSink interface {
	SaveCrop(img image.Image, kind string) (string, error)
}

// ProgressFunc receives (frameIndex, totalFrames) once per processed frame.
// The raw frame index is reported, so with a stride of N progress advances
// in steps of N and may stop short of totalFrames on the last call.
type ProgressFunc func(frameIndex, totalFrames int)

// FrameSource is an ordered, finite, non-restartable sequence of frames.
// TotalFrames and FPS return 0 when the underlying container does not
// expose them; callers substitute defaults.
type FrameSource interface {
	// Next returns the next frame, or io.EOF once the source is exhausted.
	Next() (image.Image, error)
	TotalFrames() int
	FPS() float64
	Close() error
}

// SourceOpenError reports a frame source that could not be opened. It is
// fatal for the whole run: no frames are processed.
type SourceOpenError struct {
	Path string
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("open frame source %q: %v", e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error { return e.Err }
