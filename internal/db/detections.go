package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Detection status values.
const (
	StatusNormal    = "normal"
	StatusWatchlist = "watchlist"
)

// Detection is one stored plate detection row.
type Detection struct {
	ID               int64
	TrackID          int64
	Plate            string
	PlateArabic      string
	Governorate      string
	Confidence       float64
	Status           string
	FrameNumber      int
	TimestampInVideo string
	SourceFile       string
	PlateImagePath   string
	CarImagePath     string
	JobID            string
	CreatedAt        time.Time
}

// InsertDetection stores one detection row. A Status left empty defaults
// to normal.
func (db *DB) InsertDetection(d *Detection) error {
	if d.Status == "" {
		d.Status = StatusNormal
	}

	res, err := db.Exec(`
		INSERT INTO detections (
			track_id, plate, plate_arabic, governorate, confidence,
			status, frame_number, timestamp_in_video, source_file,
			plate_image_path, car_image_path, job_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.TrackID, d.Plate, d.PlateArabic, d.Governorate, d.Confidence,
		d.Status, d.FrameNumber, d.TimestampInVideo, d.SourceFile,
		d.PlateImagePath, d.CarImagePath, nullString(d.JobID),
	)
	if err != nil {
		return fmt.Errorf("insert detection: %w", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert detection id: %w", err)
	}
	return nil
}

// InsertDetections stores a batch of detections, flagging any whose plate
// matches an active watchlist entry and bumping that entry's match count.
// Returns the number of watchlist hits.
func (db *DB) InsertDetections(detections []*Detection) (watchlistHits int, err error) {
	watched, err := db.ActiveWatchlist()
	if err != nil {
		return 0, err
	}

	for _, d := range detections {
		if _, hit := watched[d.Plate]; hit {
			d.Status = StatusWatchlist
			if err := db.RecordWatchlistMatch(d.Plate); err != nil {
				return watchlistHits, err
			}
			watchlistHits++
		}
		if err := db.InsertDetection(d); err != nil {
			return watchlistHits, err
		}
	}
	return watchlistHits, nil
}

// ListDetectionsBySource returns all detections recorded for one source
// file, ordered by frame number.
func (db *DB) ListDetectionsBySource(sourceFile string) ([]*Detection, error) {
	rows, err := db.Query(`
		SELECT id, track_id, plate, plate_arabic, governorate, confidence,
		       status, frame_number, timestamp_in_video, source_file,
		       plate_image_path, car_image_path, COALESCE(job_id, ''), created_at_unix
		FROM detections
		WHERE source_file = ?
		ORDER BY frame_number, track_id`,
		sourceFile,
	)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

// ListDetectionsByJob returns all detections recorded under one job.
func (db *DB) ListDetectionsByJob(jobID string) ([]*Detection, error) {
	rows, err := db.Query(`
		SELECT id, track_id, plate, plate_arabic, governorate, confidence,
		       status, frame_number, timestamp_in_video, source_file,
		       plate_image_path, car_image_path, COALESCE(job_id, ''), created_at_unix
		FROM detections
		WHERE job_id = ?
		ORDER BY frame_number, track_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	defer rows.Close()

	return scanDetections(rows)
}

func scanDetections(rows *sql.Rows) ([]*Detection, error) {
	var detections []*Detection
	for rows.Next() {
		d := &Detection{}
		var createdAtUnix int64
		if err := rows.Scan(
			&d.ID, &d.TrackID, &d.Plate, &d.PlateArabic, &d.Governorate,
			&d.Confidence, &d.Status, &d.FrameNumber, &d.TimestampInVideo,
			&d.SourceFile, &d.PlateImagePath, &d.CarImagePath, &d.JobID,
			&createdAtUnix,
		); err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}
		d.CreatedAt = time.Unix(createdAtUnix, 0)
		detections = append(detections, d)
	}
	return detections, rows.Err()
}

// GovernorateCount is one row of the per-governorate summary.
type GovernorateCount struct {
	Governorate   string
	Count         int
	AvgConfidence float64
}

// CountByGovernorate summarizes stored detections per governorate, most
// frequent first.
func (db *DB) CountByGovernorate() ([]GovernorateCount, error) {
	rows, err := db.Query(`
		SELECT governorate, COUNT(*), AVG(confidence)
		FROM detections
		GROUP BY governorate
		ORDER BY COUNT(*) DESC, governorate`,
	)
	if err != nil {
		return nil, fmt.Errorf("count by governorate: %w", err)
	}
	defer rows.Close()

	var counts []GovernorateCount
	for rows.Next() {
		var gc GovernorateCount
		if err := rows.Scan(&gc.Governorate, &gc.Count, &gc.AvgConfidence); err != nil {
			return nil, fmt.Errorf("scan governorate count: %w", err)
		}
		counts = append(counts, gc)
	}
	return counts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
