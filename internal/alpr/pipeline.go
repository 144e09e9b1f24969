package alpr

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sort"

	"github.com/masr-vision/platetrack/internal/monitoring"
)

// PipelineOptions configures a pipeline run.
type PipelineOptions struct {
	FrameStride  int     // process a frame iff index % stride == 0
	IoUThreshold float64 // tracker association threshold
	VehiclePad   int     // vehicle crop padding in pixels
	DefaultFPS   float64 // substituted when the source reports 0 fps
}

// DefaultPipelineOptions returns the standard pipeline tuning.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		FrameStride:  5,
		IoUThreshold: DefaultIoUThreshold,
		VehiclePad:   DefaultVehiclePad,
		DefaultFPS:   25,
	}
}

// Pipeline drives frame sampling, detection, tracking, and end-of-stream
// plate decoding. All stages run inline on the calling goroutine; a run is
// dispatched as one unit and the tracker is the sole owner of its state.
type Pipeline struct {
	Detector PlateDetector
	Reader   GlyphReader
	Store    StorageSink
	Progress ProgressFunc
	Options  PipelineOptions
}

// NewPipeline constructs a pipeline around the injected detector and OCR
// capabilities. Store and progress may be nil.
func NewPipeline(detector PlateDetector, reader GlyphReader, store StorageSink, progress ProgressFunc, opts PipelineOptions) *Pipeline {
	if opts.FrameStride < 1 {
		opts.FrameStride = 1
	}
	if opts.DefaultFPS <= 0 {
		opts.DefaultFPS = 25
	}
	return &Pipeline{
		Detector: detector,
		Reader:   reader,
		Store:    store,
		Progress: progress,
		Options:  opts,
	}
}

// ProcessVideo runs the full video pipeline: frames are sampled at the
// configured stride, sampled frames go through the detector and tracker,
// and each track's highest-confidence observation is decoded after the
// last frame. Records whose Latin text is empty or unrecognized are
// dropped silently.
//
// Each track's best observation holds a reference to its full source
// frame until finalization, so memory grows with the number of live
// tracks rather than with video length.
func (p *Pipeline) ProcessVideo(src FrameSource, sourceName string) ([]PlateRecord, error) {
	defer src.Close()

	total := src.TotalFrames()
	fps := src.FPS()
	if fps <= 0 {
		fps = p.Options.DefaultFPS
	}

	tracker := NewTracker(TrackerConfig{IoUThreshold: p.Options.IoUThreshold})
	best := make(map[int64]Detection)

	frameIdx := 0
	for {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", frameIdx, err)
		}
		if frameIdx%p.Options.FrameStride != 0 {
			frameIdx++
			continue
		}

		boxes, err := p.Detector.DetectPlates(frame)
		if err != nil {
			return nil, fmt.Errorf("detect plates on frame %d: %w", frameIdx, err)
		}
		if len(boxes) > 0 {
			detections := make([]Detection, len(boxes))
			for i, pb := range boxes {
				detections[i] = Detection{
					Box:        pb.Box,
					Score:      pb.Score,
					Frame:      frame,
					FrameIndex: frameIdx,
				}
			}
			for _, u := range tracker.Update(detections) {
				if u.Improved {
					best[u.TrackID] = u.Detection
				}
			}
		}

		if p.Progress != nil && total > 0 {
			p.Progress(frameIdx, total)
		}
		frameIdx++
	}

	trackIDs := make([]int64, 0, len(best))
	for id := range best {
		trackIDs = append(trackIDs, id)
	}
	sort.Slice(trackIDs, func(i, j int) bool { return trackIDs[i] < trackIDs[j] })

	records := make([]PlateRecord, 0, len(trackIDs))
	for _, id := range trackIDs {
		det := best[id]
		if rec, ok := p.finalize(id, det, fps, sourceName); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// ProcessImage runs detection once on a single frame. Detections are
// processed independently with synthetic sequential ids: no tracking and
// no deduplication within the image. The drop rule matches video mode.
func (p *Pipeline) ProcessImage(img image.Image, sourceName string) ([]PlateRecord, error) {
	boxes, err := p.Detector.DetectPlates(img)
	if err != nil {
		return nil, fmt.Errorf("detect plates: %w", err)
	}

	records := make([]PlateRecord, 0, len(boxes))
	for i, pb := range boxes {
		det := Detection{Box: pb.Box, Score: pb.Score, Frame: img, FrameIndex: 0}
		if rec, ok := p.finalize(int64(i+1), det, p.Options.DefaultFPS, sourceName); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// finalize decodes one best observation into a PlateRecord. The false
// return means the record was dropped: degenerate crop, or empty or
// sentinel Latin text.
func (p *Pipeline) finalize(trackID int64, det Detection, fps float64, sourceName string) (PlateRecord, bool) {
	bounds := det.Frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	plateRect := PlateRect(det.Box, width, height)
	plateCrop := CropImage(det.Frame, plateRect)
	if plateCrop == nil {
		return PlateRecord{}, false
	}

	tr := Transcriber{Reader: p.Reader}
	latin, arabic := tr.Transcribe(plateCrop)
	if latin == "" || latin == UnrecognizedLatin {
		return PlateRecord{}, false
	}

	platePath := p.saveCrop(plateCrop, "plate")
	carPath := p.saveCrop(CropImage(det.Frame, VehicleRect(det.Box, width, height, p.Options.VehiclePad)), "car")

	return PlateRecord{
		TrackID:          trackID,
		Plate:            latin,
		PlateArabic:      arabic,
		Governorate:      ClassifyGovernorate(arabic),
		Confidence:       math.Round(det.Score*1e4) / 1e4,
		FrameIndex:       det.FrameIndex,
		TimestampInVideo: formatTimestamp(det.FrameIndex, fps),
		SourceFile:       sourceName,
		PlateImagePath:   platePath,
		CarImagePath:     carPath,
	}, true
}

func (p *Pipeline) saveCrop(crop image.Image, kind string) string {
	if p.Store == nil || crop == nil {
		return ""
	}
	path, err := p.Store.SaveCrop(crop, kind)
	if err != nil {
		monitoring.Logf("save %s crop: %v", kind, err)
		return ""
	}
	return path
}

// formatTimestamp renders the frame's offset into the stream as MM:SS.
func formatTimestamp(frameIdx int, fps float64) string {
	sec := int(float64(frameIdx) / fps)
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
