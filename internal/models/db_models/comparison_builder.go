package db_models

import (
	"time"
	"tripforge/internal/models/response_models"
)

// BuildComparisonResponse flattens a fully loaded Comparison into the API shape.
func BuildComparisonResponse(c *Comparison) *response_models.ComparisonResponse {
	out := &response_models.ComparisonResponse{
		ID:            c.ID.String(),
		Title:         c.Title,
		Destination:   c.Destination,
		StartDate:     c.StartDate.Format(time.RFC3339),
		EndDate:       c.EndDate.Format(time.RFC3339),
		Budget:        c.Budget,
		TravelerCount: c.TravelerCount,
		Status:        c.Status,
		FailureReason: c.FailureReason,
		Variants:      make([]response_models.VariantResponse, 0, len(c.Variants)),
	}
	if c.SelectedVariantID != nil {
		out.SelectedVariantID = c.SelectedVariantID.String()
	}

	for _, v := range c.Variants {
		vr := response_models.VariantResponse{
			ID:                v.ID.String(),
			Name:              v.Name,
			Description:       v.Description,
			Source:            v.Source,
			TotalCost:         v.TotalCost,
			TotalTravelTime:   v.TotalTravelTime,
			AverageRating:     v.AverageRating,
			FreeTimeMinutes:   v.FreeTimeMinutes,
			OptimizationScore: v.OptimizationScore,
			Rationale:         v.Rationale,
			Insights:          v.Insights,
			SortOrder:         v.SortOrder,
			Items:             make([]response_models.VariantItemResponse, 0, len(v.Items)),
			Metrics:           make([]response_models.VariantMetricResponse, 0, len(v.Metrics)),
		}
		for _, it := range v.Items {
			vr.Items = append(vr.Items, response_models.VariantItemResponse{
				ID:                     it.ID.String(),
				DayNumber:              it.DayNumber,
				TimeSlot:               it.TimeSlot,
				StartTime:              it.StartTime,
				EndTime:                it.EndTime,
				Name:                   it.Name,
				Description:            it.Description,
				ServiceType:            it.ServiceType,
				Price:                  it.Price,
				Rating:                 it.Rating,
				Location:               it.Location,
				DurationMinutes:        it.DurationMinutes,
				TravelTimeFromPrevious: it.TravelTimeFromPrevious,
				IsReplacement:          it.IsReplacement,
				ReplacementReason:      it.ReplacementReason,
			})
		}
		for _, m := range v.Metrics {
			vr.Metrics = append(vr.Metrics, response_models.VariantMetricResponse{
				MetricKey:             m.MetricKey,
				MetricLabel:           m.MetricLabel,
				Value:                 m.Value,
				Unit:                  m.Unit,
				BetterIsLower:         m.BetterIsLower,
				Comparison:            m.Comparison,
				ImprovementPercentage: m.ImprovementPercentage,
				Description:           m.Description,
			})
		}
		out.Variants = append(out.Variants, vr)
	}
	return out
}
