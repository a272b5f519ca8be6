package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	VariantSourceUser        = "user"
	VariantSourceAIOptimized = "ai_optimized"
)

type Variant struct {
	BaseModel
	ComparisonID uuid.UUID `gorm:"type:uuid;index"`
	Name         string
	Description  string
	Source       string   `gorm:"size:20"`
	TotalCost    float64  `gorm:"type:numeric"`
	TotalTravelTime int
	AverageRating     *float64 `gorm:"type:numeric"`
	FreeTimeMinutes   *int
	OptimizationScore *int
	Rationale         string
	Insights          pq.StringArray `gorm:"type:text[]"`
	SortOrder         int

	Items   []VariantItem   `gorm:"foreignKey:VariantID"`
	Metrics []VariantMetric `gorm:"foreignKey:VariantID"`
}

type VariantItem struct {
	BaseModel
	VariantID   uuid.UUID `gorm:"type:uuid;index"`
	DayNumber   int
	TimeSlot    string `gorm:"size:20"`
	StartTime   string `gorm:"size:5"`
	EndTime     string `gorm:"size:5"`
	Name        string
	Description string
	ServiceType string `gorm:"size:30"`
	Price       float64  `gorm:"type:numeric"`
	Rating      *float64 `gorm:"type:numeric"`
	Location    string
	DurationMinutes        int
	TravelTimeFromPrevious int
	IsReplacement          bool
	ReplacementReason      string
	SortOrder              int
}

type VariantMetric struct {
	BaseModel
	VariantID             uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_variant_metric_key"`
	MetricKey             string    `gorm:"size:40;uniqueIndex:idx_variant_metric_key"`
	MetricLabel           string
	Value                 float64 `gorm:"type:numeric"`
	Unit                  string  `gorm:"size:20"`
	BetterIsLower         bool
	Comparison            string  `gorm:"size:20"`
	ImprovementPercentage float64 `gorm:"type:numeric"`
	Description           string
}
