package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	dbm "tripforge/internal/models/db_models"
	"tripforge/internal/models/response_models"
	"tripforge/pkg/utils"
)

// fakeComparisonRepo is an in-memory variant store honoring the same
// state-machine guards as the real repository.
type fakeComparisonRepo struct {
	mu          sync.Mutex
	comparisons map[uuid.UUID]*dbm.Comparison
	variants    map[uuid.UUID][]dbm.Variant
	markFailed  []string
}

func newFakeComparisonRepo() *fakeComparisonRepo {
	return &fakeComparisonRepo{
		comparisons: make(map[uuid.UUID]*dbm.Comparison),
		variants:    make(map[uuid.UUID][]dbm.Variant),
	}
}

func (f *fakeComparisonRepo) CreateComparison(_ context.Context, c *dbm.Comparison) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = dbm.ComparisonStatusIdle
	}
	for i := range c.Variants {
		if c.Variants[i].ID == uuid.Nil {
			c.Variants[i].ID = uuid.New()
		}
		c.Variants[i].ComparisonID = c.ID
	}
	f.variants[c.ID] = append([]dbm.Variant{}, c.Variants...)
	stored := *c
	stored.Variants = nil
	f.comparisons[c.ID] = &stored
	return nil
}

func (f *fakeComparisonRepo) GetComparison(_ context.Context, id string) (*dbm.Comparison, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	c, ok := f.comparisons[parsed]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (f *fakeComparisonRepo) GetComparisonWithDetails(ctx context.Context, id string) (*dbm.Comparison, error) {
	c, err := f.GetComparison(ctx, id)
	if c == nil || err != nil {
		return c, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c.Variants = append([]dbm.Variant{}, f.variants[c.ID]...)
	return c, nil
}

func (f *fakeComparisonRepo) GetVariantInComparison(_ context.Context, comparisonId uuid.UUID, variantId uuid.UUID) (*dbm.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.variants[comparisonId] {
		if v.ID == variantId {
			out := v
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeComparisonRepo) GetBaselineVariant(_ context.Context, comparisonId uuid.UUID) (*dbm.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.variants[comparisonId] {
		if v.Source == dbm.VariantSourceUser {
			out := v
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeComparisonRepo) TransitionStatus(_ context.Context, comparisonId uuid.UUID, from []string, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comparisons[comparisonId]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if c.Status == s {
			c.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeComparisonRepo) MarkFailed(_ context.Context, comparisonId uuid.UUID, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comparisons[comparisonId]
	if !ok || c.Status != dbm.ComparisonStatusGenerating {
		return false, nil
	}
	c.Status = dbm.ComparisonStatusFailed
	c.FailureReason = reason
	f.markFailed = append(f.markFailed, reason)
	return true, nil
}

func (f *fakeComparisonRepo) SetSelectedVariant(_ context.Context, comparisonId uuid.UUID, variantId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comparisons[comparisonId]
	if !ok {
		return errors.New("not found")
	}
	v := variantId
	c.SelectedVariantID = &v
	return nil
}

func (f *fakeComparisonRepo) ReplaceGenerationResults(_ context.Context, comparisonId uuid.UUID, variants []dbm.Variant, status string, failureReason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comparisons[comparisonId]
	if !ok {
		return errors.New("not found")
	}
	if c.Status != dbm.ComparisonStatusGenerating {
		return errors.New("comparison is no longer generating")
	}
	for i := range variants {
		if variants[i].ID == uuid.Nil {
			variants[i].ID = uuid.New()
		}
		variants[i].ComparisonID = comparisonId
	}
	f.variants[comparisonId] = append([]dbm.Variant{}, variants...)
	c.Status = status
	c.FailureReason = failureReason
	return nil
}

// fakeOracle returns canned payloads in call order, or blocks until the
// context dies when told to hang.
type fakeOracle struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	hang      bool
	calls     int
}

func (f *fakeOracle) ProposeAlternative(ctx context.Context, _ utils.OracleRequest) (string, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	hang := f.hang
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "", errors.New("no canned response")
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCatalogRepo struct{}

func (fakeCatalogRepo) FindCandidatesByVector(context.Context, pgvector.Vector, int) ([]dbm.CatalogService, error) {
	return nil, nil
}
func (fakeCatalogRepo) CreateCatalogService(context.Context, *dbm.CatalogService) error { return nil }

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeGenerator) Run(_ context.Context, _ uuid.UUID, _ []dbm.VariantItem) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCartApply struct {
	results []response_models.CartOperationResult
	err     error
	calls   int
}

func (f *fakeCartApply) Apply(context.Context, uuid.UUID, *dbm.Variant) ([]response_models.CartOperationResult, error) {
	f.calls++
	return f.results, f.err
}

// fakeCartRepo is an in-memory cart with optional per-item failure injection.
type fakeCartRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]dbm.CartItem
	failAddOf string
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uuid.UUID]dbm.CartItem)}
}

func (f *fakeCartRepo) ListCartItems(_ context.Context, userId uuid.UUID) ([]dbm.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dbm.CartItem
	for _, it := range f.items {
		if it.UserID == userId {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) AddItem(_ context.Context, item *dbm.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAddOf != "" && item.Name == f.failAddOf {
		return errors.New("cart rejected item")
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeCartRepo) RemoveItem(_ context.Context, userId uuid.UUID, itemId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemId]
	if !ok || it.UserID != userId {
		return errors.New("cart item not found")
	}
	delete(f.items, itemId)
	return nil
}
