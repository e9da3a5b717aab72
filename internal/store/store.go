// Package store persists capacity check runs in sqlite
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/xcfem/xc-sub010/internal/check"
	"github.com/xcfem/xc-sub010/internal/fiber"
)

// ErrNotFound is returned when a run has no verified outcome
var ErrNotFound = errors.New("not found")

// Run describes one execution of the checker
type Run struct {
	ID          uint
	Section     string
	DiagramType string
	Precise     bool
	NSCPPhi     bool
	CreatedAt   time.Time
}

// Record is a stored outcome
type Record struct {
	Element     string
	Combination string
	Forces      fiber.Resultant
	Status      string
	Factor      *float64 // nil when the demand could not be verified
	Utilization *float64
	Phi         float64
	Error       string
}

// Repository stores runs and outcomes
type Repository struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path with the pure-Go driver
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
}

// Close releases the connection pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun stores a run and its outcomes in one transaction
func (r *Repository) SaveRun(ctx context.Context, run Run, outcomes []check.Outcome) (Run, error) {
	m := RunModel{Section: run.Section, DiagramType: run.DiagramType, Precise: run.Precise, NSCPPhi: run.NSCPPhi}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if len(outcomes) == 0 {
			return nil
		}
		rows := make([]OutcomeModel, 0, len(outcomes))
		for _, o := range outcomes {
			row := OutcomeModel{
				RunID:       m.ID,
				Element:     o.Element,
				Combination: o.Combination,
				N:           o.Forces.N,
				My:          o.Forces.My,
				Mz:          o.Forces.Mz,
				Status:      o.Status.String(),
				Phi:         o.Phi,
			}
			if o.Status == check.CouldNotVerify {
				if o.Err != nil {
					row.Error = o.Err.Error()
				}
			} else {
				f, u := o.Factor, o.Utilization
				row.Factor, row.Utilization = &f, &u
			}
			rows = append(rows, row)
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return Run{}, err
	}
	return toRun(m), nil
}

// ListRuns returns the latest runs, newest first
func (r *Repository) ListRuns(ctx context.Context, section string, limit int) ([]Run, error) {
	q := r.db.WithContext(ctx).Model(&RunModel{})
	if section != "" {
		q = q.Where("section = ?", section)
	}
	rows := make([]RunModel, 0)
	if err := q.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]Run, 0, len(rows))
	for _, m := range rows {
		result = append(result, toRun(m))
	}
	return result, nil
}

// ListOutcomes returns the outcomes of a run in insertion order
func (r *Repository) ListOutcomes(ctx context.Context, runID uint) ([]Record, error) {
	rows := make([]OutcomeModel, 0)
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]Record, 0, len(rows))
	for _, m := range rows {
		result = append(result, toRecord(m))
	}
	return result, nil
}

// Worst returns the verified outcome of a run with the smallest factor
func (r *Repository) Worst(ctx context.Context, runID uint) (Record, error) {
	var m OutcomeModel
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND factor IS NOT NULL", runID).
		Order("factor ASC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return toRecord(m), nil
}

func toRun(m RunModel) Run {
	return Run{
		ID:          m.ID,
		Section:     m.Section,
		DiagramType: m.DiagramType,
		Precise:     m.Precise,
		NSCPPhi:     m.NSCPPhi,
		CreatedAt:   m.CreatedAt,
	}
}

func toRecord(m OutcomeModel) Record {
	return Record{
		Element:     m.Element,
		Combination: m.Combination,
		Forces:      fiber.Resultant{N: m.N, My: m.My, Mz: m.Mz},
		Status:      m.Status,
		Factor:      m.Factor,
		Utilization: m.Utilization,
		Phi:         m.Phi,
		Error:       m.Error,
	}
}
