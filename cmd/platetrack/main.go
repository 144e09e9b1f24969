// Command platetrack runs the plate detection, tracking, and decoding
// pipeline over a frame sequence or single image, persisting results to
// SQLite and optionally rendering a governorate report.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/masr-vision/platetrack/internal/alpr"
	"github.com/masr-vision/platetrack/internal/alpr/cropstore"
	"github.com/masr-vision/platetrack/internal/alpr/imgseq"
	"github.com/masr-vision/platetrack/internal/alpr/inference"
	"github.com/masr-vision/platetrack/internal/config"
	"github.com/masr-vision/platetrack/internal/db"
	"github.com/masr-vision/platetrack/internal/monitoring"
	"github.com/masr-vision/platetrack/internal/report"
	"github.com/masr-vision/platetrack/internal/version"
)

var (
	framesDir   = flag.String("frames", "", "Directory of ordered video frames to process")
	imagePath   = flag.String("image", "", "Single image to process instead of a frame sequence")
	sourceName  = flag.String("source-name", "", "Source label recorded with detections (default: input basename)")
	dbFile      = flag.String("db", "platetrack.db", "Path to the SQLite database file")
	configPath  = flag.String("config", "", "Pipeline config JSON (defaults apply when omitted)")
	stride      = flag.Int("stride", 0, "Frame stride override (process every Nth frame)")
	fps         = flag.Float64("fps", 0, "Frame rate of the input sequence (0: use configured default)")
	detectorURL = flag.String("detector-url", "http://localhost:8500", "Plate detector inference server URL")
	ocrURL      = flag.String("ocr-url", "http://localhost:8500", "Glyph OCR inference server URL")
	mediaDir    = flag.String("media", "media", "Directory for saved plate and vehicle crops")
	reportPath  = flag.String("report", "", "Write an HTML governorate report to this path after the run")
	watchPlate  = flag.String("watch", "", "Add a plate to the watchlist and exit")
	watchReason = flag.String("watch-reason", "", "Reason recorded with -watch")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	database, err := db.Open(*dbFile)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()
	if err := database.MigrateUp(); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	if *watchPlate != "" {
		if _, err := database.AddWatchlistEntry(*watchPlate, *watchReason); err != nil {
			log.Fatalf("add watchlist entry: %v", err)
		}
		monitoring.Logf("watchlist: added %q", *watchPlate)
		return
	}

	if (*framesDir == "") == (*imagePath == "") {
		log.Fatal("exactly one of -frames or -image is required")
	}

	cfg := config.EmptyPipelineConfig()
	if *configPath != "" {
		cfg, err = config.LoadPipelineConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	opts := alpr.PipelineOptions{
		FrameStride:  cfg.GetFrameStride(),
		IoUThreshold: cfg.GetIoUThreshold(),
		VehiclePad:   cfg.GetVehiclePadPixels(),
		DefaultFPS:   cfg.GetDefaultFPS(),
	}
	if *stride > 0 {
		opts.FrameStride = *stride
	}

	store, err := cropstore.NewFileStore(*mediaDir)
	if err != nil {
		log.Fatalf("create media store: %v", err)
	}

	input := *framesDir
	if input == "" {
		input = *imagePath
	}
	source := *sourceName
	if source == "" {
		source = filepath.Base(input)
	}

	job, err := database.CreateJob(source)
	if err != nil {
		log.Fatalf("create job: %v", err)
	}

	progress := func(frameIndex, totalFrames int) {
		if err := database.UpdateJobProgress(job.ID, frameIndex, totalFrames); err != nil {
			monitoring.Logf("update job progress: %v", err)
		}
	}

	pipeline := alpr.NewPipeline(
		inference.NewDetectorClient(*detectorURL),
		inference.NewOCRClient(*ocrURL, cfg.GetOCRMinConfidence()),
		store,
		progress,
		opts,
	)

	if err := database.StartJob(job.ID); err != nil {
		log.Fatalf("start job: %v", err)
	}
	monitoring.Logf("%s", version.String())
	monitoring.Logf("job %s: processing %s", job.ID, input)

	records, err := runPipeline(pipeline, source)
	if err != nil {
		if failErr := database.FailJob(job.ID, err.Error()); failErr != nil {
			monitoring.Logf("fail job: %v", failErr)
		}
		log.Fatalf("pipeline: %v", err)
	}

	rows := make([]*db.Detection, len(records))
	for i, rec := range records {
		rows[i] = &db.Detection{
			TrackID:          rec.TrackID,
			Plate:            rec.Plate,
			PlateArabic:      rec.PlateArabic,
			Governorate:      rec.Governorate,
			Confidence:       rec.Confidence,
			FrameNumber:      rec.FrameIndex,
			TimestampInVideo: rec.TimestampInVideo,
			SourceFile:       rec.SourceFile,
			PlateImagePath:   rec.PlateImagePath,
			CarImagePath:     rec.CarImagePath,
			JobID:            job.ID,
		}
	}
	watchlistHits, err := database.InsertDetections(rows)
	if err != nil {
		log.Fatalf("store detections: %v", err)
	}
	if err := database.CompleteJob(job.ID, len(records)); err != nil {
		log.Fatalf("complete job: %v", err)
	}

	summary := alpr.Summarize(records)
	monitoring.Logf("job %s: %d plates (%d watchlist hits), mean confidence %.3f",
		job.ID, summary.Records, watchlistHits, summary.MeanConfidence)
	for gov, n := range summary.Governorates {
		monitoring.Logf("  %-24s %d", gov, n)
	}

	if *reportPath != "" {
		counts, err := database.CountByGovernorate()
		if err != nil {
			log.Fatalf("summarize detections: %v", err)
		}
		if err := report.WriteGovernorateChart(counts, *reportPath); err != nil {
			log.Fatalf("write report: %v", err)
		}
		monitoring.Logf("report written to %s", *reportPath)
	}
}

func runPipeline(pipeline *alpr.Pipeline, source string) ([]alpr.PlateRecord, error) {
	if *framesDir != "" {
		src, err := imgseq.OpenDir(*framesDir, *fps)
		if err != nil {
			return nil, err
		}
		return pipeline.ProcessVideo(src, source)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		return nil, &alpr.SourceOpenError{Path: *imagePath, Err: err}
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &alpr.SourceOpenError{Path: *imagePath, Err: err}
	}
	return pipeline.ProcessImage(img, source)
}
