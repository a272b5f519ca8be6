package services

import (
	"fmt"
	"math"

	dbm "tripforge/internal/models/db_models"
)

const (
	ComparisonSaves     = "saves"
	ComparisonCostsMore = "costs more"
	ComparisonBetter    = "better"
	ComparisonLower     = "lower"
	ComparisonEqual     = "equal"
)

// ScoreVariant computes the fixed metric set for a candidate variant against
// the baseline. Pure and deterministic: identical inputs always produce
// identical rows, so it can be re-run for verification without drift.
func ScoreVariant(baseline *dbm.Variant, candidate *dbm.Variant, scoreThreshold int) []dbm.VariantMetric {
	metrics := make([]dbm.VariantMetric, 0, 5)

	metrics = append(metrics, scoreTotalCost(baseline, candidate))
	metrics = append(metrics, scoreTravelTime(baseline, candidate))
	metrics = append(metrics, scoreAverageRating(baseline, candidate))
	metrics = append(metrics, scoreFreeTime(candidate))
	metrics = append(metrics, scoreOptimizationScore(candidate, scoreThreshold))

	return metrics
}

func scoreTotalCost(baseline, candidate *dbm.Variant) dbm.VariantMetric {
	delta := candidate.TotalCost - baseline.TotalCost

	var improvement float64
	if baseline.TotalCost != 0 {
		improvement = -delta / baseline.TotalCost * 100
	}

	comparison := ComparisonEqual
	description := "Same total cost"
	switch {
	case delta < 0:
		comparison = ComparisonSaves
		description = fmt.Sprintf("Saves $%.0f (%.1f%% less)", -delta, improvement)
	case delta > 0:
		comparison = ComparisonCostsMore
		description = fmt.Sprintf("Costs $%.0f more for better experiences", delta)
	}

	return dbm.VariantMetric{
		MetricKey:             "total_cost",
		MetricLabel:           "Total Cost",
		Value:                 candidate.TotalCost,
		Unit:                  "USD",
		BetterIsLower:         true,
		Comparison:            comparison,
		ImprovementPercentage: improvement,
		Description:           description,
	}
}

func scoreTravelTime(baseline, candidate *dbm.Variant) dbm.VariantMetric {
	delta := candidate.TotalTravelTime - baseline.TotalTravelTime

	var improvement float64
	if baseline.TotalTravelTime != 0 {
		improvement = -float64(delta) / float64(baseline.TotalTravelTime) * 100
	}

	comparison := ComparisonEqual
	description := "Same time between locations"
	switch {
	case delta < 0:
		comparison = ComparisonSaves
		description = fmt.Sprintf("Saves %d minutes between locations", -delta)
	case delta > 0:
		comparison = ComparisonCostsMore
		description = fmt.Sprintf("Adds %d minutes between locations", delta)
	}

	return dbm.VariantMetric{
		MetricKey:             "travel_time",
		MetricLabel:           "Travel Time",
		Value:                 float64(candidate.TotalTravelTime),
		Unit:                  "minutes",
		BetterIsLower:         true,
		Comparison:            comparison,
		ImprovementPercentage: improvement,
		Description:           description,
	}
}

func scoreAverageRating(baseline, candidate *dbm.Variant) dbm.VariantMetric {
	baseRating := 0.0
	if baseline.AverageRating != nil {
		baseRating = *baseline.AverageRating
	}
	candRating := 0.0
	if candidate.AverageRating != nil {
		candRating = *candidate.AverageRating
	}
	delta := candRating - baseRating

	comparison := ComparisonEqual
	description := "Same rating quality"
	switch {
	case delta > 0:
		comparison = ComparisonBetter
		description = fmt.Sprintf("+%.1f stars higher rated", delta)
	case delta < 0:
		comparison = ComparisonLower
		description = fmt.Sprintf("%.1f stars lower but better value", delta)
	}

	return dbm.VariantMetric{
		MetricKey:             "average_rating",
		MetricLabel:           "Average Rating",
		Value:                 candRating,
		Unit:                  "stars",
		BetterIsLower:         false,
		Comparison:            comparison,
		ImprovementPercentage: delta,
		Description:           description,
	}
}

// scoreFreeTime compares against an implicit zero baseline: free time is not
// tracked for the traveler's own plan.
func scoreFreeTime(candidate *dbm.Variant) dbm.VariantMetric {
	freeTime := 0
	if candidate.FreeTimeMinutes != nil {
		freeTime = *candidate.FreeTimeMinutes
	}

	comparison := ComparisonEqual
	if freeTime > 0 {
		comparison = ComparisonBetter
	}

	return dbm.VariantMetric{
		MetricKey:             "free_time",
		MetricLabel:           "Free Time",
		Value:                 float64(freeTime),
		Unit:                  "minutes",
		BetterIsLower:         false,
		Comparison:            comparison,
		ImprovementPercentage: 0,
		Description:           fmt.Sprintf("%d minutes of relaxation time", freeTime),
	}
}

func scoreOptimizationScore(candidate *dbm.Variant, threshold int) dbm.VariantMetric {
	score := 0
	if candidate.OptimizationScore != nil {
		score = *candidate.OptimizationScore
	}

	comparison := ComparisonLower
	if score >= threshold {
		comparison = ComparisonBetter
	}

	return dbm.VariantMetric{
		MetricKey:             "optimization_score",
		MetricLabel:           "Optimization Score",
		Value:                 float64(score),
		Unit:                  "points",
		BetterIsLower:         false,
		Comparison:            comparison,
		ImprovementPercentage: 0,
		Description:           fmt.Sprintf("Overall score: %d/100", score),
	}
}

// BaselineAverageRating computes the mean of rated items only; nil when no
// item carries a rating.
func BaselineAverageRating(items []dbm.VariantItem) *float64 {
	sum := 0.0
	rated := 0
	for _, it := range items {
		if it.Rating != nil {
			sum += *it.Rating
			rated++
		}
	}
	if rated == 0 {
		return nil
	}
	avg := sum / float64(rated)
	avg = math.Round(avg*100) / 100
	return &avg
}
