package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// AnalysisStatus represents the lifecycle state of a video analysis.
type AnalysisStatus string

const (
	StatusPending  AnalysisStatus = "pending"
	StatusRunning  AnalysisStatus = "running"
	StatusComplete AnalysisStatus = "complete"
	StatusFailed   AnalysisStatus = "failed"
)

// Analysis represents one analyzed video stored in the database.
type Analysis struct {
	ID             string
	VideoName      string
	Status         AnalysisStatus
	FrameCount     int
	FramesUsable   int
	AvgLaunchAngle float64
	AvgConfidence  float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FrameMetrics is one frame's stored swing measurements.
// Optional angles are nil when the corresponding signal was unavailable.
type FrameMetrics struct {
	AnalysisID       string
	FrameIndex       int
	LaunchAngle      float64
	AttackAngle      *float64
	BatPathAngle     *float64
	HipRotation      *float64
	ShoulderRotation *float64
	Confidence       float64
	Phase            string
}

// AnalysisRepository provides CRUD operations for analyses.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Create inserts a new analysis into the database.
func (r *AnalysisRepository) Create(a *Analysis) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = StatusPending
	}

	_, err := r.db.Exec(
		`INSERT INTO analyses (id, video_name, status, frame_count, frames_usable, avg_launch_angle, avg_confidence, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.VideoName, string(a.Status), a.FrameCount, a.FramesUsable, a.AvgLaunchAngle, a.AvgConfidence, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an analysis by its ID.
func (r *AnalysisRepository) GetByID(id string) (*Analysis, error) {
	a := &Analysis{}
	var status string

	err := r.db.QueryRow(
		`SELECT id, video_name, status, frame_count, frames_usable, avg_launch_angle, avg_confidence, created_at, updated_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.VideoName, &status, &a.FrameCount, &a.FramesUsable, &a.AvgLaunchAngle, &a.AvgConfidence, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Status = AnalysisStatus(status)
	return a, nil
}

// List retrieves all analyses, newest first.
func (r *AnalysisRepository) List() ([]*Analysis, error) {
	rows, err := r.db.Query(
		`SELECT id, video_name, status, frame_count, frames_usable, avg_launch_angle, avg_confidence, created_at, updated_at
		 FROM analyses ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		a := &Analysis{}
		var status string
		if err := rows.Scan(&a.ID, &a.VideoName, &status, &a.FrameCount, &a.FramesUsable, &a.AvgLaunchAngle, &a.AvgConfidence, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Status = AnalysisStatus(status)
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// UpdateStatus sets the status of an analysis.
func (r *AnalysisRepository) UpdateStatus(id string, status AnalysisStatus) error {
	res, err := r.db.Exec(
		`UPDATE analyses SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now(), id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveSummary records aggregate results for a finished analysis.
func (r *AnalysisRepository) SaveSummary(id string, frameCount, framesUsable int, avgLaunchAngle, avgConfidence float64) error {
	res, err := r.db.Exec(
		`UPDATE analyses
		 SET frame_count = ?, frames_usable = ?, avg_launch_angle = ?, avg_confidence = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		frameCount, framesUsable, avgLaunchAngle, avgConfidence, string(StatusComplete), time.Now(), id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an analysis and, via cascade, its frame metrics.
func (r *AnalysisRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFrameMetrics inserts per-frame metrics for an analysis in one
// transaction.
func (r *AnalysisRepository) AddFrameMetrics(id string, frames []FrameMetrics) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO frame_metrics (analysis_id, frame_index, launch_angle, attack_angle, bat_path_angle, hip_rotation, shoulder_rotation, confidence, phase)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range frames {
		_, err := stmt.Exec(
			id, f.FrameIndex, f.LaunchAngle,
			nullable(f.AttackAngle), nullable(f.BatPathAngle),
			nullable(f.HipRotation), nullable(f.ShoulderRotation),
			f.Confidence, f.Phase,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FrameMetrics retrieves the stored per-frame metrics in frame order.
func (r *AnalysisRepository) FrameMetrics(id string) ([]FrameMetrics, error) {
	rows, err := r.db.Query(
		`SELECT analysis_id, frame_index, launch_angle, attack_angle, bat_path_angle, hip_rotation, shoulder_rotation, confidence, phase
		 FROM frame_metrics WHERE analysis_id = ? ORDER BY frame_index ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []FrameMetrics
	for rows.Next() {
		var f FrameMetrics
		var attack, batPath, hip, shoulder sql.NullFloat64
		if err := rows.Scan(&f.AnalysisID, &f.FrameIndex, &f.LaunchAngle, &attack, &batPath, &hip, &shoulder, &f.Confidence, &f.Phase); err != nil {
			return nil, err
		}
		f.AttackAngle = fromNullable(attack)
		f.BatPathAngle = fromNullable(batPath)
		f.HipRotation = fromNullable(hip)
		f.ShoulderRotation = fromNullable(shoulder)
		frames = append(frames, f)
	}

	return frames, rows.Err()
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
