package store

import "time"

type RunModel struct {
	ID          uint   `gorm:"primaryKey"`
	Section     string `gorm:"not null;index"`
	DiagramType string `gorm:"not null;default:'d'"`
	Precise     bool   `gorm:"not null;default:false"`
	NSCPPhi     bool   `gorm:"column:nscp_phi;not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RunModel) TableName() string { return "runs" }

type OutcomeModel struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       uint   `gorm:"not null;index"`
	Element     string `gorm:"not null;index"`
	Combination string `gorm:"not null"`
	N           float64
	My          float64
	Mz          float64
	Status      string `gorm:"not null"`
	Factor      *float64
	Utilization *float64
	Phi         float64 `gorm:"not null;default:1"`
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OutcomeModel) TableName() string { return "outcomes" }
