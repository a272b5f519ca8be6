package request_models

type BaselineItemInput struct {
	DayNumber              int      `json:"day_number"`
	TimeSlot               string   `json:"time_slot"`
	StartTime              string   `json:"start_time"`
	EndTime                string   `json:"end_time"`
	Name                   string   `json:"name" binding:"required"`
	Description            string   `json:"description"`
	ServiceType            string   `json:"service_type"`
	Price                  float64  `json:"price"`
	Rating                 *float64 `json:"rating"`
	Location               string   `json:"location"`
	DurationMinutes        int      `json:"duration_minutes"`
	TravelTimeFromPrevious int      `json:"travel_time_from_previous"`
}

type CreateComparisonRequest struct {
	Title         string              `json:"title"`
	Destination   string              `json:"destination" binding:"required"`
	StartDate     string              `json:"start_date" binding:"required"`
	EndDate       string              `json:"end_date" binding:"required"`
	Budget        *float64            `json:"budget"`
	TravelerCount int                 `json:"traveler_count"`
	BaselineItems []BaselineItemInput `json:"baseline_items"`
}

type StartGenerationRequest struct {
	BaselineItems []BaselineItemInput `json:"baseline_items"`
}

type SelectVariantRequest struct {
	VariantID string `json:"variant_id" binding:"required"`
}
