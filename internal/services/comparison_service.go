package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	dbm "tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

type ComparisonServiceInterface interface {
	CreateComparison(ctx context.Context, userId uuid.UUID, req request_models.CreateComparisonRequest) (*response_models.ComparisonResponse, error)
	StartGeneration(ctx context.Context, comparisonId string, baselineItems []request_models.BaselineItemInput) error
	GetStatus(ctx context.Context, comparisonId string) (*response_models.ComparisonResponse, error)
	SelectVariant(ctx context.Context, comparisonId string, variantId string) error
	ApplySelection(ctx context.Context, comparisonId string) (*response_models.ApplySelectionResponse, error)
}

type ComparisonService struct {
	comparisonRepo repositories.ComparisonRepository
	generator      GenerationServiceInterface
	cartApply      CartApplyServiceInterface
}

func NewComparisonService(
	comparisonRepo repositories.ComparisonRepository,
	generator GenerationServiceInterface,
	cartApply CartApplyServiceInterface,
) ComparisonServiceInterface {
	return &ComparisonService{
		comparisonRepo: comparisonRepo,
		generator:      generator,
		cartApply:      cartApply,
	}
}

func (s *ComparisonService) CreateComparison(ctx context.Context, userId uuid.UUID, req request_models.CreateComparisonRequest) (*response_models.ComparisonResponse, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", utils.ErrInvalidInput)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", utils.ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", utils.ErrInvalidInput)
	}

	travelerCount := req.TravelerCount
	if travelerCount < 1 {
		travelerCount = 1
	}
	title := req.Title
	if title == "" {
		title = "Trip to " + req.Destination
	}

	comparison := &dbm.Comparison{
		UserID:        userId,
		Title:         title,
		Destination:   req.Destination,
		StartDate:     start,
		EndDate:       end,
		Budget:        req.Budget,
		TravelerCount: travelerCount,
		Status:        dbm.ComparisonStatusIdle,
	}

	// Baseline items sent at creation are materialized right away, so a later
	// startGeneration call may omit them.
	if len(req.BaselineItems) > 0 {
		comparison.Variants = []dbm.Variant{*newBaselineVariant(toVariantItems(req.BaselineItems))}
	}

	if err := s.comparisonRepo.CreateComparison(ctx, comparison); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return dbm.BuildComparisonResponse(comparison), nil
}

func (s *ComparisonService) StartGeneration(ctx context.Context, comparisonId string, baselineItems []request_models.BaselineItemInput) error {
	id, err := uuid.Parse(comparisonId)
	if err != nil {
		return fmt.Errorf("%w: malformed comparison id", utils.ErrInvalidInput)
	}

	comparison, err := s.comparisonRepo.GetComparison(ctx, comparisonId)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if comparison == nil {
		return utils.ErrComparisonNotFound
	}

	// At most one generation round per comparison: a concurrent call loses
	// the guard and is rejected, not queued.
	ok, err := s.comparisonRepo.TransitionStatus(ctx, id,
		[]string{dbm.ComparisonStatusIdle, dbm.ComparisonStatusFailed},
		dbm.ComparisonStatusGenerating)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !ok {
		return fmt.Errorf("%w: current status is %s", utils.ErrInvalidState, comparison.Status)
	}

	items := toVariantItems(baselineItems)
	log.Printf("comparison %s: generation started", comparisonId)
	go s.generator.Run(context.Background(), id, items)

	return nil
}

func (s *ComparisonService) GetStatus(ctx context.Context, comparisonId string) (*response_models.ComparisonResponse, error) {
	comparison, err := s.comparisonRepo.GetComparisonWithDetails(ctx, comparisonId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if comparison == nil {
		return nil, utils.ErrComparisonNotFound
	}
	return dbm.BuildComparisonResponse(comparison), nil
}

func (s *ComparisonService) SelectVariant(ctx context.Context, comparisonId string, variantId string) error {
	cid, err := uuid.Parse(comparisonId)
	if err != nil {
		return fmt.Errorf("%w: malformed comparison id", utils.ErrInvalidInput)
	}
	vid, err := uuid.Parse(variantId)
	if err != nil {
		return fmt.Errorf("%w: malformed variant id", utils.ErrInvalidInput)
	}

	comparison, err := s.comparisonRepo.GetComparison(ctx, comparisonId)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if comparison == nil {
		return utils.ErrComparisonNotFound
	}
	if comparison.Status != dbm.ComparisonStatusReady {
		return fmt.Errorf("%w: current status is %s", utils.ErrInvalidState, comparison.Status)
	}

	variant, err := s.comparisonRepo.GetVariantInComparison(ctx, cid, vid)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if variant == nil {
		return utils.ErrVariantNotFound
	}

	// Re-selecting the current variant is a no-op success; a different id
	// overwrites.
	if comparison.SelectedVariantID != nil && *comparison.SelectedVariantID == vid {
		return nil
	}

	if err := s.comparisonRepo.SetSelectedVariant(ctx, cid, vid); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (s *ComparisonService) ApplySelection(ctx context.Context, comparisonId string) (*response_models.ApplySelectionResponse, error) {
	cid, err := uuid.Parse(comparisonId)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed comparison id", utils.ErrInvalidInput)
	}

	comparison, err := s.comparisonRepo.GetComparison(ctx, comparisonId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if comparison == nil {
		return nil, utils.ErrComparisonNotFound
	}
	if comparison.SelectedVariantID == nil {
		return nil, fmt.Errorf("%w: no variant selected", utils.ErrInvalidState)
	}

	// Applied comparisons may be re-applied; the reconciliation diff makes
	// that a zero-operation round trip.
	ok, err := s.comparisonRepo.TransitionStatus(ctx, cid,
		[]string{dbm.ComparisonStatusReady, dbm.ComparisonStatusApplied},
		dbm.ComparisonStatusApplying)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: current status is %s", utils.ErrInvalidState, comparison.Status)
	}

	variant, err := s.comparisonRepo.GetVariantInComparison(ctx, cid, *comparison.SelectedVariantID)
	if err != nil || variant == nil {
		s.revertToReady(cid)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		return nil, utils.ErrVariantNotFound
	}

	operations, applyErr := s.cartApply.Apply(ctx, comparison.UserID, variant)
	if applyErr != nil {
		// The selection is preserved so the traveler can retry the apply
		// step without choosing again.
		s.revertToReady(cid)
		return nil, applyErr
	}

	if _, err := s.comparisonRepo.TransitionStatus(ctx, cid,
		[]string{dbm.ComparisonStatusApplying},
		dbm.ComparisonStatusApplied); err != nil {
		// The cart already holds the new items, but applying accepts no
		// operation, so fall back to ready; a re-apply is a zero-op round trip.
		s.revertToReady(cid)
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return &response_models.ApplySelectionResponse{
		ComparisonID: comparisonId,
		Status:       dbm.ComparisonStatusApplied,
		Operations:   operations,
	}, nil
}

func (s *ComparisonService) revertToReady(comparisonId uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.comparisonRepo.TransitionStatus(ctx, comparisonId,
		[]string{dbm.ComparisonStatusApplying},
		dbm.ComparisonStatusReady); err != nil {
		log.Printf("comparison %s: revert to ready failed: %v", comparisonId, err)
	}
}

func toVariantItems(inputs []request_models.BaselineItemInput) []dbm.VariantItem {
	items := make([]dbm.VariantItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, dbm.VariantItem{
			DayNumber:              in.DayNumber,
			TimeSlot:               in.TimeSlot,
			StartTime:              in.StartTime,
			EndTime:                in.EndTime,
			Name:                   in.Name,
			Description:            in.Description,
			ServiceType:            in.ServiceType,
			Price:                  in.Price,
			Rating:                 in.Rating,
			Location:               in.Location,
			DurationMinutes:        in.DurationMinutes,
			TravelTimeFromPrevious: in.TravelTimeFromPrevious,
			SortOrder:              i,
		})
	}
	return items
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
