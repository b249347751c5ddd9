package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Analyses table - one row per analyzed video
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			video_name TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'running', 'complete', 'failed')),
			frame_count INTEGER NOT NULL DEFAULT 0,
			frames_usable INTEGER NOT NULL DEFAULT 0,
			avg_launch_angle REAL NOT NULL DEFAULT 0,
			avg_confidence REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Frame metrics table - per-frame swing measurements
		`CREATE TABLE IF NOT EXISTS frame_metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			frame_index INTEGER NOT NULL,
			launch_angle REAL NOT NULL,
			attack_angle REAL,
			bat_path_angle REAL,
			hip_rotation REAL,
			shoulder_rotation REAL,
			confidence REAL NOT NULL,
			phase TEXT NOT NULL
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_frame_metrics_analysis_id ON frame_metrics(analysis_id)`,
		`CREATE INDEX IF NOT EXISTS idx_frame_metrics_frame_index ON frame_metrics(analysis_id, frame_index)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
