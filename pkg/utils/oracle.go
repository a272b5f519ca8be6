package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// OracleBaselineItem is the slice of the traveler's current plan handed to the
// oracle as context. Prices and times are already validated by the caller.
type OracleBaselineItem struct {
	DayNumber              int      `json:"day_number"`
	TimeSlot               string   `json:"time_slot"`
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	ServiceType            string   `json:"service_type,omitempty"`
	Price                  float64  `json:"price"`
	Rating                 *float64 `json:"rating,omitempty"`
	Location               string   `json:"location,omitempty"`
	DurationMinutes        int      `json:"duration_minutes"`
	TravelTimeFromPrevious int      `json:"travel_time_from_previous"`
}

// CandidateService is a bookable catalog entry the oracle may swap in.
type CandidateService struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ServiceType string  `json:"type"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
}

type OracleRequest struct {
	Destination       string
	StartDate         string
	EndDate           string
	Travelers         int
	Budget            *float64
	OptimizationGoal  string
	BaselineItems     []OracleBaselineItem
	CandidateServices []CandidateService
}

// ItineraryOracleInterface is the opaque content-generation boundary. It returns
// the raw model output; all normalization and field validation happens in the
// generation service, which treats the payload as untrusted.
type ItineraryOracleInterface interface {
	ProposeAlternative(ctx context.Context, req OracleRequest) (string, error)
}

// NewItineraryOracle selects the oracle backend. "openai" covers every
// OpenAI-compatible endpoint (xAI Grok via base URL override included).
func NewItineraryOracle(provider, apiKey, baseURL, model string) (ItineraryOracleInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIOracleClient(apiKey, baseURL, model), nil
	case "gemini":
		return NewGeminiOracleClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

// IsTransientOracleError reports whether a failed call is worth one retry.
// Validation-class failures (bad JSON, empty candidates) are not.
func IsTransientOracleError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "connection")
}

func buildAlternativePrompt(req OracleRequest) string {
	baselineJSON, _ := json.MarshalIndent(req.BaselineItems, "", "  ")

	var sb strings.Builder
	sb.WriteString("You are a travel optimization AI. Analyze the traveler's current itinerary and generate 1 optimized alternative version.\n\n")
	fmt.Fprintf(&sb, "DESTINATION: %s\n", req.Destination)
	fmt.Fprintf(&sb, "DATES: %s to %s\n", req.StartDate, req.EndDate)
	fmt.Fprintf(&sb, "TRAVELERS: %d\n", req.Travelers)
	if req.Budget != nil {
		fmt.Fprintf(&sb, "BUDGET: $%.0f\n", *req.Budget)
	} else {
		sb.WriteString("BUDGET: Not specified\n")
	}
	fmt.Fprintf(&sb, "OPTIMIZATION GOAL: %s\n\n", req.OptimizationGoal)

	sb.WriteString("TRAVELER'S CURRENT ITINERARY:\n")
	sb.Write(baselineJSON)
	sb.WriteString("\n\n")

	if len(req.CandidateServices) > 0 {
		servicesJSON, _ := json.MarshalIndent(req.CandidateServices, "", "  ")
		sb.WriteString("AVAILABLE SERVICES TO CHOOSE FROM:\n")
		sb.Write(servicesJSON)
		sb.WriteString("\n\n")
	}

	sb.WriteString(`Generate 1 alternative itinerary that improves upon the traveler's plan for the stated goal. It should:
1. Include metrics showing WHY it is better
2. Use services from the available list when possible
3. Mark every item that replaces a baseline item and explain the change

Respond with valid JSON in this exact format:
{
  "name": "Budget Optimizer",
  "description": "A more cost-effective version while maintaining quality",
  "rationale": "This alternative saves 20% on costs by...",
  "insights": ["Swapped two premium activities for equally rated local ones"],
  "items": [
    {
      "day_number": 1,
      "time_slot": "morning",
      "start_time": "09:00",
      "end_time": "12:00",
      "name": "Activity Name",
      "description": "Brief description",
      "service_type": "activities",
      "price": 150,
      "rating": 4.5,
      "location": "Paris, France",
      "duration_minutes": 180,
      "travel_time_from_previous": 15,
      "is_replacement": true,
      "replacement_reason": "Similar experience at 30% lower cost"
    }
  ],
  "metrics": {
    "total_cost": 1500,
    "total_travel_time": 120,
    "average_rating": 4.6,
    "free_time_minutes": 240,
    "optimization_score": 85
  }
}

Return JSON only. No comments, no markdown.`)

	return sb.String()
}
