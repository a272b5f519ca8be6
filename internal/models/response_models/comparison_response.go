package response_models

type VariantItemResponse struct {
	ID                     string   `json:"id"`
	DayNumber              int      `json:"day_number"`
	TimeSlot               string   `json:"time_slot"`
	StartTime              string   `json:"start_time,omitempty"`
	EndTime                string   `json:"end_time,omitempty"`
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	ServiceType            string   `json:"service_type,omitempty"`
	Price                  float64  `json:"price"`
	Rating                 *float64 `json:"rating,omitempty"`
	Location               string   `json:"location,omitempty"`
	DurationMinutes        int      `json:"duration_minutes"`
	TravelTimeFromPrevious int      `json:"travel_time_from_previous"`
	IsReplacement          bool     `json:"is_replacement"`
	ReplacementReason      string   `json:"replacement_reason,omitempty"`
}

type VariantMetricResponse struct {
	MetricKey             string  `json:"metric_key"`
	MetricLabel           string  `json:"metric_label"`
	Value                 float64 `json:"value"`
	Unit                  string  `json:"unit"`
	BetterIsLower         bool    `json:"better_is_lower"`
	Comparison            string  `json:"comparison"`
	ImprovementPercentage float64 `json:"improvement_percentage"`
	Description           string  `json:"description"`
}

type VariantResponse struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description"`
	Source            string                  `json:"source"`
	TotalCost         float64                 `json:"total_cost"`
	TotalTravelTime   int                     `json:"total_travel_time"`
	AverageRating     *float64                `json:"average_rating,omitempty"`
	FreeTimeMinutes   *int                    `json:"free_time_minutes,omitempty"`
	OptimizationScore *int                    `json:"optimization_score,omitempty"`
	Rationale         string                  `json:"rationale,omitempty"`
	Insights          []string                `json:"insights,omitempty"`
	SortOrder         int                     `json:"sort_order"`
	Items             []VariantItemResponse   `json:"items"`
	Metrics           []VariantMetricResponse `json:"metrics"`
}

type ComparisonResponse struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Destination       string            `json:"destination"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	Budget            *float64          `json:"budget,omitempty"`
	TravelerCount     int               `json:"traveler_count"`
	Status            string            `json:"status"`
	SelectedVariantID string            `json:"selected_variant_id,omitempty"`
	FailureReason     string            `json:"failure_reason,omitempty"`
	Variants          []VariantResponse `json:"variants"`
}

type CartOperationResult struct {
	Op       string `json:"op"`
	ItemName string `json:"item_name"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type ApplySelectionResponse struct {
	ComparisonID string                `json:"comparison_id"`
	Status       string                `json:"status"`
	Operations   []CartOperationResult `json:"operations"`
}
