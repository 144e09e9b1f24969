package alpr

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RunSummary aggregates the records emitted by one pipeline run.
type RunSummary struct {
	Records          int
	Governorates     map[string]int
	MeanConfidence   float64
	MedianConfidence float64
	MaxConfidence    float64
}

// Summarize computes confidence statistics and per-governorate counts over
// a run's emitted records.
func Summarize(records []PlateRecord) RunSummary {
	summary := RunSummary{
		Records:      len(records),
		Governorates: make(map[string]int),
	}
	if len(records) == 0 {
		return summary
	}

	confidences := make([]float64, len(records))
	for i, rec := range records {
		confidences[i] = rec.Confidence
		summary.Governorates[rec.Governorate]++
	}
	sort.Float64s(confidences)

	summary.MeanConfidence = stat.Mean(confidences, nil)
	summary.MedianConfidence = stat.Quantile(0.5, stat.Empirical, confidences, nil)
	summary.MaxConfidence = confidences[len(confidences)-1]
	return summary
}
