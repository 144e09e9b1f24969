package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyPipelineConfig()
	if got := cfg.GetFrameStride(); got != 5 {
		t.Errorf("GetFrameStride = %d, want 5", got)
	}
	if got := cfg.GetIoUThreshold(); got != 0.3 {
		t.Errorf("GetIoUThreshold = %v, want 0.3", got)
	}
	if got := cfg.GetVehiclePadPixels(); got != 300 {
		t.Errorf("GetVehiclePadPixels = %d, want 300", got)
	}
	if got := cfg.GetDefaultFPS(); got != 25 {
		t.Errorf("GetDefaultFPS = %v, want 25", got)
	}
	if got := cfg.GetOCRMinConfidence(); got != 0.25 {
		t.Errorf("GetOCRMinConfidence = %v, want 0.25", got)
	}
}

func TestLoadPipelineConfig(t *testing.T) {
	path := writeConfig(t, `{
		"frame_stride": 2,
		"iou_threshold": 0.5,
		"vehicle_pad_pixels": 150,
		"default_fps": 30,
		"ocr_min_confidence": 0.4
	}`)

	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.GetFrameStride(); got != 2 {
		t.Errorf("GetFrameStride = %d, want 2", got)
	}
	if got := cfg.GetIoUThreshold(); got != 0.5 {
		t.Errorf("GetIoUThreshold = %v, want 0.5", got)
	}
	if got := cfg.GetVehiclePadPixels(); got != 150 {
		t.Errorf("GetVehiclePadPixels = %d, want 150", got)
	}
	if got := cfg.GetDefaultFPS(); got != 30 {
		t.Errorf("GetDefaultFPS = %v, want 30", got)
	}
	if got := cfg.GetOCRMinConfidence(); got != 0.4 {
		t.Errorf("GetOCRMinConfidence = %v, want 0.4", got)
	}
}

func TestLoadPipelineConfigPartial(t *testing.T) {
	path := writeConfig(t, `{"frame_stride": 10}`)

	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.GetFrameStride(); got != 10 {
		t.Errorf("GetFrameStride = %d, want 10", got)
	}
	// Unset fields fall back to defaults.
	if got := cfg.GetIoUThreshold(); got != 0.3 {
		t.Errorf("GetIoUThreshold = %v, want 0.3", got)
	}
}

func TestLoadPipelineConfigRejectsNonJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte("frame_stride: 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPipelineConfig(path); err == nil || !strings.Contains(err.Error(), ".json") {
		t.Errorf("LoadPipelineConfig(yaml) error = %v, want extension error", err)
	}
}

func TestLoadPipelineConfigMissingFile(t *testing.T) {
	if _, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadPipelineConfig on missing file should fail")
	}
}

func TestLoadPipelineConfigBadJSON(t *testing.T) {
	path := writeConfig(t, `{"frame_stride": `)
	if _, err := LoadPipelineConfig(path); err == nil {
		t.Error("LoadPipelineConfig on malformed JSON should fail")
	}
}

func TestValidateRanges(t *testing.T) {
	intp := func(v int) *int { return &v }
	floatp := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		cfg     PipelineConfig
		wantErr bool
	}{
		{"valid full", PipelineConfig{
			FrameStride:      intp(1),
			IoUThreshold:     floatp(1),
			VehiclePadPixels: intp(0),
			DefaultFPS:       floatp(24),
			OCRMinConfidence: floatp(0),
		}, false},
		{"zero stride", PipelineConfig{FrameStride: intp(0)}, true},
		{"zero iou", PipelineConfig{IoUThreshold: floatp(0)}, true},
		{"iou above one", PipelineConfig{IoUThreshold: floatp(1.1)}, true},
		{"negative pad", PipelineConfig{VehiclePadPixels: intp(-1)}, true},
		{"zero fps", PipelineConfig{DefaultFPS: floatp(0)}, true},
		{"confidence above one", PipelineConfig{OCRMinConfidence: floatp(1.5)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultsFileLoads(t *testing.T) {
	cfg, err := LoadPipelineConfig(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("shipped defaults failed validation: %v", err)
	}
}
