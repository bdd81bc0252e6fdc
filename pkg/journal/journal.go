package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Journal keeps a history of dataset runs (sync, filter, split, ...) in an SQLite database.
// It records outcomes only. Nothing reads the journal to decide what to copy or delete.
// A nil *Journal is valid, and records nothing.
type Journal struct {
	log logs.Log
	db  *gorm.DB
}

// Run is one recorded invocation of a dataset operation
type Run struct {
	ID         int64                   `gorm:"primaryKey" json:"id"`
	RunID      string                  `json:"runID"`
	Operation  string                  `json:"operation"`
	StartedAt  dbh.IntTime             `json:"startedAt"`
	FinishedAt dbh.IntTime             `json:"finishedAt"`
	Summary    *dbh.JSONField[Summary] `json:"summary"`
}

// Summary holds the tallies of a run
type Summary struct {
	Counts map[string]int    `json:"counts"`
	Detail map[string]string `json:"detail,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Operation names
const (
	OpSync     = "sync"
	OpFilter   = "filter"
	OpSplit    = "split"
	OpSegToBox = "segtobox"
	OpPick     = "pick"
)

func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE run(
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			started_at INT NOT NULL,
			finished_at INT NOT NULL,
			summary TEXT
		);
		CREATE UNIQUE INDEX idx_run_run_id ON run (run_id);
		CREATE INDEX idx_run_started_at ON run (started_at);
	`))

	return migs
}

// Open or create a journal database
func Open(log logs.Log, filename string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0777); err != nil {
		return nil, fmt.Errorf("Failed to create journal directory for '%v': %w", filename, err)
	}
	db, err := dbh.OpenDB(log, dbh.MakeSqliteConfig(filename), Migrations(log), 0)
	if err != nil {
		return nil, fmt.Errorf("Failed to open journal %v: %w", filename, err)
	}
	return &Journal{
		log: log,
		db:  db,
	}, nil
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores the outcome of one run
func (j *Journal) Record(operation string, startedAt time.Time, summary Summary) (*Run, error) {
	if j == nil {
		return nil, nil
	}
	var js dbh.JSONField[Summary]
	js.Data = summary
	run := &Run{
		RunID:      uuid.NewString(),
		Operation:  operation,
		StartedAt:  dbh.MakeIntTime(startedAt),
		FinishedAt: dbh.MakeIntTime(time.Now()),
		Summary:    &js,
	}
	if err := j.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("Failed to record %v run: %w", operation, err)
	}
	j.log.Debugf("Recorded %v run %v", operation, run.RunID)
	return run, nil
}

// Recent returns up to n runs, newest first. If operation is not empty, only runs of that operation are returned.
func (j *Journal) Recent(n int, operation string) ([]Run, error) {
	runs := []Run{}
	if j == nil {
		return runs, nil
	}
	q := j.db.Order("started_at DESC, id DESC").Limit(n)
	if operation != "" {
		q = q.Where("operation = ?", operation)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
