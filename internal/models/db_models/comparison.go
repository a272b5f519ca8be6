package db_models

import (
	"github.com/google/uuid"
	"time"
)

const (
	ComparisonStatusIdle       = "idle"
	ComparisonStatusGenerating = "generating"
	ComparisonStatusReady      = "ready"
	ComparisonStatusFailed     = "failed"
	ComparisonStatusApplying   = "applying"
	ComparisonStatusApplied    = "applied"
)

// IsTerminalGenerationStatus reports whether a poller can stop reading.
func IsTerminalGenerationStatus(status string) bool {
	return status == ComparisonStatusReady || status == ComparisonStatusFailed
}

type Comparison struct {
	BaseModel
	UserID            uuid.UUID `gorm:"type:uuid;index"`
	Title             string
	Destination       string
	StartDate         time.Time
	EndDate           time.Time
	Budget            *float64 `gorm:"type:numeric"`
	TravelerCount     int
	Status            string     `gorm:"size:20;default:idle"`
	SelectedVariantID *uuid.UUID `gorm:"type:uuid"`
	FailureReason     string

	Variants []Variant `gorm:"foreignKey:ComparisonID"`
}
