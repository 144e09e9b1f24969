// Package imgseq provides file-backed frame sources for the pipeline: an
// ordered image sequence on disk stands in for a decoded video stream.
package imgseq

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/masr-vision/platetrack/internal/alpr"
)

// DirSource walks a directory of numbered image frames in lexical order.
// The sequence is finite and not restartable.
type DirSource struct {
	dir   string
	paths []string
	fps   float64
	next  int
}

// OpenDir opens a directory of jpeg/png frames as a frame source. The fps
// is supplied by the caller because still frames carry no timing; pass 0
// if unknown and the pipeline substitutes its default. A missing,
// unreadable, or frameless directory fails with a SourceOpenError.
func OpenDir(dir string, fps float64) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &alpr.SourceOpenError{Path: dir, Err: err}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, &alpr.SourceOpenError{Path: dir, Err: errors.New("no image frames found")}
	}
	sort.Strings(paths)

	return &DirSource{dir: dir, paths: paths, fps: fps}, nil
}

// Next decodes and returns the next frame, or io.EOF once the sequence is
// exhausted.
func (s *DirSource) Next() (image.Image, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

// TotalFrames returns the number of frame files in the sequence.
func (s *DirSource) TotalFrames() int { return len(s.paths) }

// FPS returns the caller-supplied frame rate, 0 if unknown.
func (s *DirSource) FPS() float64 { return s.fps }

func (s *DirSource) Close() error { return nil }

// SliceSource serves pre-decoded frames from memory. Used by tests and by
// single-image runs routed through the video path.
type SliceSource struct {
	Frames          []image.Image
	FramesPerSecond float64

	next int
}

func (s *SliceSource) Next() (image.Image, error) {
	if s.next >= len(s.Frames) {
		return nil, io.EOF
	}
	img := s.Frames[s.next]
	s.next++
	return img, nil
}

func (s *SliceSource) TotalFrames() int { return len(s.Frames) }

func (s *SliceSource) FPS() float64 { return s.FramesPerSecond }

func (s *SliceSource) Close() error { return nil }
