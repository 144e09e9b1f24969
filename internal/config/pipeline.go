// Package config loads pipeline tuning parameters from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical pipeline defaults file.
const DefaultConfigPath = "config/pipeline.defaults.json"

// PipelineConfig represents tunable pipeline parameters. All fields are
// optional pointers so partial config files are safe: the Get* methods
// fall back to defaults for any field left unset.
type PipelineConfig struct {
	// Sampling and tracking params
	FrameStride  *int     `json:"frame_stride,omitempty"`
	IoUThreshold *float64 `json:"iou_threshold,omitempty"`

	// Crop params
	VehiclePadPixels *int `json:"vehicle_pad_pixels,omitempty"`

	// Timing params
	DefaultFPS *float64 `json:"default_fps,omitempty"`

	// OCR params
	OCRMinConfidence *float64 `json:"ocr_min_confidence,omitempty"`
}

// EmptyPipelineConfig returns a PipelineConfig with all fields unset.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file. The path must
// have a .json extension and the file must be under the max size. Fields
// omitted from the JSON retain their defaults.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any values present are within operating ranges.
func (c *PipelineConfig) Validate() error {
	if c.FrameStride != nil && *c.FrameStride < 1 {
		return fmt.Errorf("frame_stride must be >= 1, got %d", *c.FrameStride)
	}
	if c.IoUThreshold != nil {
		if *c.IoUThreshold <= 0 || *c.IoUThreshold > 1 {
			return fmt.Errorf("iou_threshold must be in (0, 1], got %f", *c.IoUThreshold)
		}
	}
	if c.VehiclePadPixels != nil && *c.VehiclePadPixels < 0 {
		return fmt.Errorf("vehicle_pad_pixels must be non-negative, got %d", *c.VehiclePadPixels)
	}
	if c.DefaultFPS != nil && *c.DefaultFPS <= 0 {
		return fmt.Errorf("default_fps must be positive, got %f", *c.DefaultFPS)
	}
	if c.OCRMinConfidence != nil {
		if *c.OCRMinConfidence < 0 || *c.OCRMinConfidence > 1 {
			return fmt.Errorf("ocr_min_confidence must be between 0 and 1, got %f", *c.OCRMinConfidence)
		}
	}
	return nil
}

// GetFrameStride returns the frame_stride value or the default.
func (c *PipelineConfig) GetFrameStride() int {
	if c.FrameStride == nil {
		return 5 // default
	}
	return *c.FrameStride
}

// GetIoUThreshold returns the iou_threshold value or the default.
func (c *PipelineConfig) GetIoUThreshold() float64 {
	if c.IoUThreshold == nil {
		return 0.3 // default
	}
	return *c.IoUThreshold
}

// GetVehiclePadPixels returns the vehicle_pad_pixels value or the default.
func (c *PipelineConfig) GetVehiclePadPixels() int {
	if c.VehiclePadPixels == nil {
		return 300 // default
	}
	return *c.VehiclePadPixels
}

// GetDefaultFPS returns the default_fps value or the default.
func (c *PipelineConfig) GetDefaultFPS() float64 {
	if c.DefaultFPS == nil {
		return 25 // default
	}
	return *c.DefaultFPS
}

// GetOCRMinConfidence returns the ocr_min_confidence value or the default.
func (c *PipelineConfig) GetOCRMinConfidence() float64 {
	if c.OCRMinConfidence == nil {
		return 0.25 // default
	}
	return *c.OCRMinConfidence
}
