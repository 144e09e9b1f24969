package alpr

import (
	"sort"
	"sync"
)

// DefaultIoUThreshold is the minimum overlap for a detection to be
// associated with an existing track.
const DefaultIoUThreshold = 0.3

// TrackerConfig holds configuration parameters for the plate tracker.
type TrackerConfig struct {
	IoUThreshold float64 // Minimum IoU for detection-to-track association
}

// DefaultTrackerConfig returns default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{IoUThreshold: DefaultIoUThreshold}
}

// Track is a persistent identity assigned to detections believed to
// represent the same physical plate across frames.
//
// Box always reflects the most recent matched detection, while BestConf
// is the maximum score ever observed and never decreases. The two are
// independent: a low-confidence match still moves the box.
type Track struct {
	ID       int64
	Box      Box
	BestConf float64
}

// TrackUpdate reports the outcome for one detection consumed by Update.
// Improved is true when the detection set a new best confidence for its
// track, including the track's first detection.
type TrackUpdate struct {
	TrackID   int64
	Detection Detection
	Improved  bool
}

// Tracker consolidates per-frame plate detections into persistent tracks
// using greedy IoU association. Tracks are never expired: an unmatched
// track persists unchanged for the rest of the run, and ids are assigned
// monotonically and never reused. Association is greedy best-overlap-first,
// not a globally optimal assignment.
type Tracker struct {
	Tracks      map[int64]*Track
	NextTrackID int64
	Config      TrackerConfig

	mu sync.Mutex
}

// NewTracker creates a new tracker with the specified configuration.
func NewTracker(config TrackerConfig) *Tracker {
	if config.IoUThreshold <= 0 {
		config.IoUThreshold = DefaultIoUThreshold
	}
	return &Tracker{
		Tracks:      make(map[int64]*Track),
		NextTrackID: 1,
		Config:      config,
	}
}

// IoU returns the intersection-over-union of two axis-aligned boxes.
// A zero-area union reports 0.
func IoU(a, b Box) float64 {
	x1 := max(a.X1, b.X1)
	y1 := max(a.Y1, b.Y1)
	x2 := min(a.X2, b.X2)
	y2 := min(a.Y2, b.Y2)

	inter := max(0, x2-x1) * max(0, y2-y1)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Update consumes the detections for one frame and returns one TrackUpdate
// per detection. Matched tracks take the detection's box unconditionally;
// best confidence only rises, and only on a strict improvement. Detections
// left unmatched after the greedy pass spawn new tracks.
func (t *Tracker) Update(detections []Detection) []TrackUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(detections) == 0 {
		return nil
	}

	if len(t.Tracks) == 0 {
		updates := make([]TrackUpdate, 0, len(detections))
		for _, det := range detections {
			updates = append(updates, TrackUpdate{
				TrackID:   t.spawnTrack(det),
				Detection: det,
				Improved:  true,
			})
		}
		return updates
	}

	// Enumerate tracks in creation order so candidate ties resolve the
	// same way on every run. Ascending id is creation order because ids
	// are assigned monotonically.
	trackIDs := make([]int64, 0, len(t.Tracks))
	for id := range t.Tracks {
		trackIDs = append(trackIDs, id)
	}
	sort.Slice(trackIDs, func(i, j int) bool { return trackIDs[i] < trackIDs[j] })

	type candidate struct {
		iou      float64
		trackIdx int
		detIdx   int
	}
	candidates := make([]candidate, 0, len(trackIDs)*len(detections))
	for ti, id := range trackIDs {
		for di, det := range detections {
			candidates = append(candidates, candidate{
				iou:      IoU(t.Tracks[id].Box, det.Box),
				trackIdx: ti,
				detIdx:   di,
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].iou > candidates[j].iou
	})

	matchedTracks := make(map[int64]bool, len(trackIDs))
	matchedDets := make([]bool, len(detections))
	updates := make([]TrackUpdate, 0, len(detections))

	for _, c := range candidates {
		if c.iou < t.Config.IoUThreshold {
			// Sorted descending, so nothing below this can match.
			break
		}
		trackID := trackIDs[c.trackIdx]
		if matchedTracks[trackID] || matchedDets[c.detIdx] {
			continue
		}
		matchedTracks[trackID] = true
		matchedDets[c.detIdx] = true

		track := t.Tracks[trackID]
		det := detections[c.detIdx]
		improved := det.Score > track.BestConf
		if improved {
			track.BestConf = det.Score
		}
		track.Box = det.Box

		updates = append(updates, TrackUpdate{
			TrackID:   trackID,
			Detection: det,
			Improved:  improved,
		})
	}

	for di, det := range detections {
		if !matchedDets[di] {
			updates = append(updates, TrackUpdate{
				TrackID:   t.spawnTrack(det),
				Detection: det,
				Improved:  true,
			})
		}
	}

	return updates
}

// spawnTrack creates a new track from an unmatched detection.
// Caller must hold t.mu.
func (t *Tracker) spawnTrack(det Detection) int64 {
	id := t.NextTrackID
	t.NextTrackID++
	t.Tracks[id] = &Track{
		ID:       id,
		Box:      det.Box,
		BestConf: det.Score,
	}
	return id
}

// TrackCount returns the number of tracks created so far. Tracks are never
// removed, so the count is non-decreasing over a run.
func (t *Tracker) TrackCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Tracks)
}

// GetTrack returns a track by id, or nil if not found.
func (t *Tracker) GetTrack(id int64) *Track {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Tracks[id]
}
