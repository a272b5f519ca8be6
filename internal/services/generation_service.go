package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	dbm "tripforge/internal/models/db_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

type GenerationConfig struct {
	Alternatives   int           // K candidate itineraries per round
	CallTimeout    time.Duration // per oracle call
	Ceiling        time.Duration // force-fail bound for the whole round
	ScoreThreshold int
}

type GenerationServiceInterface interface {
	// Run executes one full generation round for a comparison already marked
	// generating. It never returns an error to a waiting caller; outcomes are
	// recorded on the comparison row and observed by polling.
	Run(ctx context.Context, comparisonId uuid.UUID, baselineItems []dbm.VariantItem)
}

type GenerationService struct {
	comparisonRepo repositories.ComparisonRepository
	catalogRepo    repositories.CatalogRepository
	oracle         utils.ItineraryOracleInterface
	embedder       utils.EmbeddingClientInterface
	cfg            GenerationConfig
}

func NewGenerationService(
	comparisonRepo repositories.ComparisonRepository,
	catalogRepo repositories.CatalogRepository,
	oracle utils.ItineraryOracleInterface,
	embedder utils.EmbeddingClientInterface,
	cfg GenerationConfig,
) GenerationServiceInterface {
	if cfg.Alternatives < 1 {
		cfg.Alternatives = 2
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = 3 * cfg.CallTimeout
	}
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = 70
	}
	return &GenerationService{
		comparisonRepo: comparisonRepo,
		catalogRepo:    catalogRepo,
		oracle:         oracle,
		embedder:       embedder,
		cfg:            cfg,
	}
}

// optimizationGoals differentiates the K oracle calls so alternatives do not
// collapse into the same plan.
var optimizationGoals = []string{
	"cost savings while maintaining quality",
	"better experiences and higher rated activities",
	"a more local, less touristy itinerary",
	"less travel time between activities",
	"a balanced plan with more free time",
}

func (s *GenerationService) Run(ctx context.Context, comparisonId uuid.UUID, baselineItems []dbm.VariantItem) {
	roundCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	comparison, err := s.comparisonRepo.GetComparison(roundCtx, comparisonId.String())
	if err != nil || comparison == nil {
		log.Printf("generation: comparison %s not loadable: %v", comparisonId, err)
		if _, ferr := s.comparisonRepo.MarkFailed(context.Background(), comparisonId, "comparison could not be loaded"); ferr != nil {
			log.Printf("generation: mark failed: %v", ferr)
		}
		return
	}

	baseline, err := s.synthesizeBaseline(roundCtx, comparisonId, baselineItems)
	if err != nil {
		log.Printf("generation: baseline synthesis for %s failed: %v", comparisonId, err)
		if _, ferr := s.comparisonRepo.MarkFailed(context.Background(), comparisonId, err.Error()); ferr != nil {
			log.Printf("generation: mark failed: %v", ferr)
		}
		return
	}

	candidates := s.candidateServices(roundCtx, comparison.Destination)

	done := make(chan struct{})
	var alternatives []dbm.Variant
	var failures []string

	go func() {
		alternatives, failures = s.generateAlternatives(roundCtx, comparison, baseline, candidates)
		close(done)
	}()

	// The ceiling guarantees a comparison never stays generating forever,
	// even if worker tasks are stuck inside the oracle client.
	select {
	case <-done:
	case <-time.After(s.cfg.Ceiling):
		cancel()
		reason := fmt.Sprintf("generation exceeded the %s ceiling", s.cfg.Ceiling)
		log.Printf("generation: %s: %s", comparisonId, reason)
		s.persistFailure(comparisonId, baseline, reason)
		return
	}

	s.persistRound(comparisonId, baseline, alternatives, failures)
}

func (s *GenerationService) persistRound(comparisonId uuid.UUID, baseline *dbm.Variant, alternatives []dbm.Variant, failures []string) {
	// Persistence runs on a fresh context: the round context may already be
	// cancelled and results should still land.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	variants := make([]dbm.Variant, 0, 1+len(alternatives))
	variants = append(variants, *baseline)

	status := dbm.ComparisonStatusReady
	reason := ""
	if len(alternatives) == 0 {
		// Total loss. The baseline is still persisted so a retry does not
		// need to resend baseline construction.
		status = dbm.ComparisonStatusFailed
		reason = "all alternatives failed: " + strings.Join(failures, "; ")
	} else {
		for i := range alternatives {
			alternatives[i].SortOrder = i + 1
			variants = append(variants, alternatives[i])
		}
		if len(failures) > 0 {
			log.Printf("generation: %s partial success, %d alternative(s) lost: %s",
				comparisonId, len(failures), strings.Join(failures, "; "))
		}
	}

	if err := s.comparisonRepo.ReplaceGenerationResults(ctx, comparisonId, variants, status, reason); err != nil {
		log.Printf("generation: persist for %s failed: %v", comparisonId, err)
		if _, ferr := s.comparisonRepo.MarkFailed(ctx, comparisonId, "failed to persist generation results"); ferr != nil {
			log.Printf("generation: mark failed: %v", ferr)
		}
	}
}

// persistFailure lands a failed round while keeping the baseline variant, so a
// retry does not need to resend it.
func (s *GenerationService) persistFailure(comparisonId uuid.UUID, baseline *dbm.Variant, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.comparisonRepo.ReplaceGenerationResults(ctx, comparisonId,
		[]dbm.Variant{*baseline}, dbm.ComparisonStatusFailed, reason)
	if err == nil {
		return
	}
	log.Printf("generation: failure persist for %s: %v", comparisonId, err)
	if _, ferr := s.comparisonRepo.MarkFailed(ctx, comparisonId, reason); ferr != nil {
		log.Printf("generation: mark failed: %v", ferr)
	}
}

// synthesizeBaseline builds the source=user variant from the caller's items,
// or reuses the persisted baseline on a retry that sent none.
func (s *GenerationService) synthesizeBaseline(ctx context.Context, comparisonId uuid.UUID, items []dbm.VariantItem) (*dbm.Variant, error) {
	if len(items) == 0 {
		previous, err := s.comparisonRepo.GetBaselineVariant(ctx, comparisonId)
		if err != nil {
			return nil, fmt.Errorf("load previous baseline: %w", err)
		}
		if previous == nil {
			return nil, fmt.Errorf("no baseline items supplied and none persisted")
		}
		items = make([]dbm.VariantItem, len(previous.Items))
		for i, it := range previous.Items {
			it.BaseModel = dbm.BaseModel{}
			it.VariantID = uuid.Nil
			items[i] = it
		}
	}

	return newBaselineVariant(items), nil
}

// newBaselineVariant materializes the source=user variant from cart-shaped
// items. Free time and optimization score stay nil: both are comparative and
// have no meaning for the traveler's own plan.
func newBaselineVariant(items []dbm.VariantItem) *dbm.Variant {
	totalCost := 0.0
	totalTravel := 0
	for i := range items {
		if items[i].DayNumber < 1 {
			items[i].DayNumber = 1
		}
		if items[i].TimeSlot == "" {
			items[i].TimeSlot = "morning"
		}
		items[i].SortOrder = i
		totalCost += items[i].Price
		totalTravel += items[i].TravelTimeFromPrevious
	}

	return &dbm.Variant{
		Name:            "Your Plan",
		Description:     "Your original itinerary selection",
		Source:          dbm.VariantSourceUser,
		TotalCost:       totalCost,
		TotalTravelTime: totalTravel,
		AverageRating:   BaselineAverageRating(items),
		SortOrder:       0,
		Items:           items,
	}
}

// candidateServices retrieves bookable inventory near the destination for the
// oracle prompt. Any failure here degrades to an uncontexted prompt.
func (s *GenerationService) candidateServices(ctx context.Context, destination string) []utils.CandidateService {
	if s.embedder == nil || s.catalogRepo == nil {
		return nil
	}

	vector, err := s.embedder.GetEmbedding(ctx, destination)
	if err != nil {
		log.Printf("generation: destination embedding failed: %v", err)
		return nil
	}

	services, err := s.catalogRepo.FindCandidatesByVector(ctx, vector, 50)
	if err != nil {
		log.Printf("generation: catalog lookup failed: %v", err)
		return nil
	}

	out := make([]utils.CandidateService, 0, len(services))
	for _, svc := range services {
		out = append(out, utils.CandidateService{
			ID:          svc.ID.String(),
			Name:        svc.Name,
			ServiceType: svc.ServiceType,
			Price:       svc.Price,
			Rating:      svc.Rating,
			Location:    svc.Location,
			Description: svc.Description,
		})
	}
	return out
}

// generateAlternatives fires the K oracle calls concurrently. Calls share no
// mutable state until the collect step; a failed sibling never aborts the rest.
func (s *GenerationService) generateAlternatives(
	ctx context.Context,
	comparison *dbm.Comparison,
	baseline *dbm.Variant,
	candidates []utils.CandidateService,
) ([]dbm.Variant, []string) {

	type slot struct {
		variant *dbm.Variant
		errMsg  string
	}
	slots := make([]slot, s.cfg.Alternatives)

	baselineItems := make([]utils.OracleBaselineItem, 0, len(baseline.Items))
	for _, it := range baseline.Items {
		baselineItems = append(baselineItems, utils.OracleBaselineItem{
			DayNumber:              it.DayNumber,
			TimeSlot:               it.TimeSlot,
			Name:                   it.Name,
			Description:            it.Description,
			ServiceType:            it.ServiceType,
			Price:                  it.Price,
			Rating:                 it.Rating,
			Location:               it.Location,
			DurationMinutes:        it.DurationMinutes,
			TravelTimeFromPrevious: it.TravelTimeFromPrevious,
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Alternatives; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := utils.OracleRequest{
				Destination:       comparison.Destination,
				StartDate:         comparison.StartDate.Format("2006-01-02"),
				EndDate:           comparison.EndDate.Format("2006-01-02"),
				Travelers:         comparison.TravelerCount,
				Budget:            comparison.Budget,
				OptimizationGoal:  optimizationGoals[idx%len(optimizationGoals)],
				BaselineItems:     baselineItems,
				CandidateServices: candidates,
			}

			variant, err := s.proposeWithRetry(ctx, req)
			if err != nil {
				slots[idx] = slot{errMsg: err.Error()}
				return
			}
			slots[idx] = slot{variant: variant}
		}(i)
	}
	wg.Wait()

	variants := make([]dbm.Variant, 0, s.cfg.Alternatives)
	var failures []string
	for _, sl := range slots {
		if sl.variant == nil {
			failures = append(failures, sl.errMsg)
			continue
		}
		sl.variant.Metrics = ScoreVariant(baseline, sl.variant, s.cfg.ScoreThreshold)
		variants = append(variants, *sl.variant)
	}
	return variants, failures
}

// proposeWithRetry calls the oracle once with the per-call timeout, retrying a
// single time on transient failures only. Validation-class rejections are not
// retried.
func (s *GenerationService) proposeWithRetry(ctx context.Context, req utils.OracleRequest) (*dbm.Variant, error) {
	attempt := func() (*dbm.Variant, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
		defer cancel()

		raw, err := s.oracle.ProposeAlternative(callCtx, req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrOracle, err)
		}
		return normalizeAlternative(raw)
	}

	variant, err := attempt()
	if err != nil && utils.IsTransientOracleError(err) {
		log.Printf("generation: transient oracle failure, retrying once: %v", err)
		variant, err = attempt()
	}
	return variant, err
}

// oracleAlternativePayload is the expected shape of one oracle response. The
// typed fields reject non-numeric prices and durations at unmarshal time.
type oracleAlternativePayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rationale   string   `json:"rationale"`
	Insights    []string `json:"insights"`
	Items       []struct {
		DayNumber              int      `json:"day_number"`
		TimeSlot               string   `json:"time_slot"`
		StartTime              string   `json:"start_time"`
		EndTime                string   `json:"end_time"`
		Name                   string   `json:"name"`
		Description            string   `json:"description"`
		ServiceType            string   `json:"service_type"`
		Price                  float64  `json:"price"`
		Rating                 *float64 `json:"rating"`
		Location               string   `json:"location"`
		DurationMinutes        int      `json:"duration_minutes"`
		TravelTimeFromPrevious int      `json:"travel_time_from_previous"`
		IsReplacement          bool     `json:"is_replacement"`
		ReplacementReason      string   `json:"replacement_reason"`
	} `json:"items"`
	Metrics struct {
		TotalCost         float64  `json:"total_cost"`
		TotalTravelTime   int      `json:"total_travel_time"`
		AverageRating     *float64 `json:"average_rating"`
		FreeTimeMinutes   *int     `json:"free_time_minutes"`
		OptimizationScore *int     `json:"optimization_score"`
	} `json:"metrics"`
}

// normalizeAlternative turns untrusted oracle output into a variant row, or
// rejects the whole alternative. Rejections count as a failed alternative,
// never a fatal generation failure.
func normalizeAlternative(raw string) (*dbm.Variant, error) {
	var payload oracleAlternativePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("alternative rejected: malformed oracle response: %v", err)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return nil, fmt.Errorf("alternative rejected: missing name")
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("alternative rejected: no items")
	}

	items := make([]dbm.VariantItem, 0, len(payload.Items))
	itemCost := 0.0
	itemTravel := 0
	for i, it := range payload.Items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("alternative rejected: item %d missing name", i+1)
		}
		if it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			return nil, fmt.Errorf("alternative rejected: item %d has invalid price", i+1)
		}
		if it.DayNumber < 1 {
			it.DayNumber = 1
		}
		if it.TimeSlot == "" {
			it.TimeSlot = "morning"
		}
		if it.TravelTimeFromPrevious < 0 {
			it.TravelTimeFromPrevious = 0
		}
		replacementReason := it.ReplacementReason
		if !it.IsReplacement {
			replacementReason = ""
		}
		items = append(items, dbm.VariantItem{
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
			ReplacementReason:      replacementReason,
			SortOrder:              i,
		})
		itemCost += it.Price
		itemTravel += it.TravelTimeFromPrevious
	}

	totalCost := payload.Metrics.TotalCost
	if totalCost <= 0 {
		totalCost = itemCost
	}
	totalTravel := payload.Metrics.TotalTravelTime
	if totalTravel <= 0 {
		totalTravel = itemTravel
	}

	freeTime := payload.Metrics.FreeTimeMinutes
	if freeTime != nil && *freeTime < 0 {
		zero := 0
		freeTime = &zero
	}
	avgRating := payload.Metrics.AverageRating
	if avgRating != nil {
		bounded := math.Min(math.Max(*avgRating, 0), 5)
		avgRating = &bounded
	}
	score := payload.Metrics.OptimizationScore
	if score != nil {
		bounded := *score
		if bounded < 0 {
			bounded = 0
		}
		if bounded > 100 {
			bounded = 100
		}
		score = &bounded
	}

	return &dbm.Variant{
		Name:              payload.Name,
		Description:       payload.Description,
		Source:            dbm.VariantSourceAIOptimized,
		TotalCost:         totalCost,
		TotalTravelTime:   totalTravel,
		AverageRating:     avgRating,
		FreeTimeMinutes:   freeTime,
		OptimizationScore: score,
		Rationale:         payload.Rationale,
		Insights:          payload.Insights,
		Items:             items,
	}, nil
}
