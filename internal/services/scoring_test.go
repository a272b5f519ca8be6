package services

import (
	"math"
	"reflect"
	"strings"
	"testing"

	dbm "tripforge/internal/models/db_models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func baselineForScoring() *dbm.Variant {
	return &dbm.Variant{
		Source:          dbm.VariantSourceUser,
		TotalCost:       2112,
		TotalTravelTime: 180,
		AverageRating:   floatPtr(4.2),
	}
}

func TestScoreVariantMetricKeySet(t *testing.T) {
	candidate := &dbm.Variant{
		Source:            dbm.VariantSourceAIOptimized,
		TotalCost:         1785,
		TotalTravelTime:   150,
		AverageRating:     floatPtr(4.5),
		FreeTimeMinutes:   intPtr(240),
		OptimizationScore: intPtr(85),
	}

	metrics := ScoreVariant(baselineForScoring(), candidate, 70)

	want := []string{"total_cost", "travel_time", "average_rating", "free_time", "optimization_score"}
	if len(metrics) != len(want) {
		t.Fatalf("expected %d metrics, got %d", len(want), len(metrics))
	}
	for i, key := range want {
		if metrics[i].MetricKey != key {
			t.Errorf("metric %d: expected key %q, got %q", i, key, metrics[i].MetricKey)
		}
	}
}

func TestScoreVariantCostSavings(t *testing.T) {
	candidate := &dbm.Variant{
		Source:    dbm.VariantSourceAIOptimized,
		TotalCost: 1785,
	}

	metrics := ScoreVariant(baselineForScoring(), candidate, 70)
	cost := metrics[0]

	if cost.Comparison != ComparisonSaves {
		t.Errorf("expected comparison %q, got %q", ComparisonSaves, cost.Comparison)
	}
	if math.Abs(cost.ImprovementPercentage-15.48) > 0.01 {
		t.Errorf("expected improvement ~15.48, got %f", cost.ImprovementPercentage)
	}
	if !strings.Contains(cost.Description, "$327") {
		t.Errorf("expected description to mention $327, got %q", cost.Description)
	}
	if !cost.BetterIsLower {
		t.Error("total_cost must be better-is-lower")
	}
}

func TestScoreVariantCostDirections(t *testing.T) {
	tests := []struct {
		name           string
		candidateCost  float64
		wantComparison string
	}{
		{"cheaper saves", 1500, ComparisonSaves},
		{"pricier costs more", 2500, ComparisonCostsMore},
		{"identical equal", 2112, ComparisonEqual},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			candidate := &dbm.Variant{TotalCost: tc.candidateCost}
			metrics := ScoreVariant(baselineForScoring(), candidate, 70)
			if metrics[0].Comparison != tc.wantComparison {
				t.Errorf("expected %q, got %q", tc.wantComparison, metrics[0].Comparison)
			}
		})
	}
}

func TestScoreVariantZeroCostBaseline(t *testing.T) {
	baseline := &dbm.Variant{TotalCost: 0}
	candidate := &dbm.Variant{TotalCost: 100}

	metrics := ScoreVariant(baseline, candidate, 70)
	if metrics[0].ImprovementPercentage != 0 {
		t.Errorf("zero-cost baseline must not divide: got %f", metrics[0].ImprovementPercentage)
	}
}

func TestScoreVariantRating(t *testing.T) {
	tests := []struct {
		name           string
		baseRating     *float64
		candRating     *float64
		wantComparison string
	}{
		{"higher is better", floatPtr(4.2), floatPtr(4.5), ComparisonBetter},
		{"lower is lower", floatPtr(4.2), floatPtr(3.9), ComparisonLower},
		{"equal", floatPtr(4.2), floatPtr(4.2), ComparisonEqual},
		{"nil baseline treated as zero", nil, floatPtr(4.0), ComparisonBetter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			baseline := &dbm.Variant{AverageRating: tc.baseRating}
			candidate := &dbm.Variant{AverageRating: tc.candRating}
			metrics := ScoreVariant(baseline, candidate, 70)
			rating := metrics[2]
			if rating.MetricKey != "average_rating" {
				t.Fatalf("unexpected metric at index 2: %s", rating.MetricKey)
			}
			if rating.Comparison != tc.wantComparison {
				t.Errorf("expected %q, got %q", tc.wantComparison, rating.Comparison)
			}
			if rating.BetterIsLower {
				t.Error("average_rating must not be better-is-lower")
			}
		})
	}
}

func TestScoreVariantOptimizationScoreThreshold(t *testing.T) {
	baseline := baselineForScoring()

	high := ScoreVariant(baseline, &dbm.Variant{OptimizationScore: intPtr(85)}, 70)
	if high[4].Comparison != ComparisonBetter {
		t.Errorf("score 85 against threshold 70: expected better, got %q", high[4].Comparison)
	}

	low := ScoreVariant(baseline, &dbm.Variant{OptimizationScore: intPtr(55)}, 70)
	if low[4].Comparison != ComparisonLower {
		t.Errorf("score 55 against threshold 70: expected lower, got %q", low[4].Comparison)
	}

	boundary := ScoreVariant(baseline, &dbm.Variant{OptimizationScore: intPtr(70)}, 70)
	if boundary[4].Comparison != ComparisonBetter {
		t.Errorf("score equal to threshold must be better, got %q", boundary[4].Comparison)
	}
}

func TestScoreVariantDeterministic(t *testing.T) {
	candidate := &dbm.Variant{
		Source:            dbm.VariantSourceAIOptimized,
		TotalCost:         1785,
		TotalTravelTime:   150,
		AverageRating:     floatPtr(4.5),
		FreeTimeMinutes:   intPtr(240),
		OptimizationScore: intPtr(85),
	}

	first := ScoreVariant(baselineForScoring(), candidate, 70)
	second := ScoreVariant(baselineForScoring(), candidate, 70)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical metric rows")
	}
}

func TestBaselineAverageRating(t *testing.T) {
	items := []dbm.VariantItem{
		{Name: "a", Rating: floatPtr(4.0)},
		{Name: "b"},
		{Name: "c", Rating: floatPtr(5.0)},
	}
	got := BaselineAverageRating(items)
	if got == nil || *got != 4.5 {
		t.Errorf("expected 4.5 over rated items only, got %v", got)
	}

	if BaselineAverageRating([]dbm.VariantItem{{Name: "x"}}) != nil {
		t.Error("no rated items must yield nil average")
	}
}
