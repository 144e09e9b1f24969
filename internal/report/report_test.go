package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masr-vision/platetrack/internal/db"
)

func TestWriteGovernorateChart(t *testing.T) {
	counts := []db.GovernorateCount{
		{Governorate: "Alexandria", Count: 12, AvgConfidence: 0.88},
		{Governorate: "Cairo", Count: 5, AvgConfidence: 0.91},
	}

	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteGovernorateChart(counts, path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(raw)
	for _, want := range []string{"Plate detections by governorate", "Alexandria", "Cairo"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteGovernorateChartEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteGovernorateChart(nil, path); err == nil {
		t.Error("expected error for empty counts")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("report file should not be created for empty counts")
	}
}
