// Package report renders summary charts for stored detections.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/masr-vision/platetrack/internal/db"
)

// WriteGovernorateChart renders an HTML bar chart of detection counts per
// governorate to outPath.
func WriteGovernorateChart(counts []db.GovernorateCount, outPath string) error {
	if len(counts) == 0 {
		return fmt.Errorf("no detections to report")
	}

	names := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, gc := range counts {
		names[i] = gc.Governorate
		data[i] = opts.BarData{
			Name:  fmt.Sprintf("%s (avg conf %.2f)", gc.Governorate, gc.AvgConfidence),
			Value: gc.Count,
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Plate detections", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Plate detections by governorate",
			Subtitle: fmt.Sprintf("%d governorates", len(counts)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).AddSeries("detections", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
