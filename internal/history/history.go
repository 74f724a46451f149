// Package history records finished batches in a local SQLite database.
package history

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vidbatch/internal/model"
	"vidbatch/internal/util"
)

// BatchRun is one recorded batch.
type BatchRun struct {
	ID         string    `gorm:"primaryKey;size:36"`
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
	OutputBase string `gorm:"size:1024"`
	Total      int
	Succeeded  int
	Failed     int
	Cancelled  int
	Files      []FileResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// FileResult is one file's outcome within a BatchRun.
type FileResult struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"size:36;not null;index"`
	Position   int
	InputPath  string `gorm:"size:1024"`
	OutputPath string `gorm:"size:1024"`
	Success    bool
	Message    string `gorm:"size:4096"`
}

// Store wraps the history database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := util.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("history dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" shared.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&BatchRun{}, &FileResult{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewRun builds a BatchRun from a finished batch's results.
func NewRun(id string, started, finished time.Time, outputBase string, total int, results []model.EncodeResult) BatchRun {
	run := BatchRun{
		ID:         id,
		StartedAt:  started,
		FinishedAt: finished,
		OutputBase: outputBase,
		Total:      total,
	}
	for i, r := range results {
		switch {
		case r.Success:
			run.Succeeded++
		case r.Cancelled():
			run.Cancelled++
		default:
			run.Failed++
		}
		run.Files = append(run.Files, FileResult{
			RunID:      id,
			Position:   i + 1,
			InputPath:  r.InputPath,
			OutputPath: r.OutputPath,
			Success:    r.Success,
			Message:    r.Message,
		})
	}
	return run
}

// Record stores run and its file results.
func (s *Store) Record(ctx context.Context, run BatchRun) error {
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("record batch %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first, with their files in order.
func (s *Store) Recent(ctx context.Context, limit int) ([]BatchRun, error) {
	var runs []BatchRun
	err := s.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return runs, nil
}

// Get returns a single run by ID.
func (s *Store) Get(ctx context.Context, id string) (BatchRun, error) {
	var run BatchRun
	err := s.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		return BatchRun{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}
