package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/sucrecam/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]*domain.ResolvedProduct
	getError  error
	setError  error
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string]*domain.ResolvedProduct)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (*domain.ResolvedProduct, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value *domain.ResolvedProduct) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// MockProductSource is a mock implementation of domain.ProductSource
type MockProductSource struct {
	record    *domain.NutrientRecord
	err       error
	callCount int
}

func (m *MockProductSource) FetchProduct(ctx context.Context, code string) (*domain.NutrientRecord, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

// MockOverrideTable is a mock implementation of domain.OverrideTable
type MockOverrideTable struct {
	entries map[string]domain.OverrideEntry
}

func (m *MockOverrideTable) Lookup(code string) (*domain.OverrideEntry, bool) {
	entry, ok := m.entries[code]
	if !ok {
		return nil, false
	}
	return &entry, true
}

func emptyOverrides() *MockOverrideTable {
	return &MockOverrideTable{entries: map[string]domain.OverrideEntry{}}
}

func cocaOverrides() *MockOverrideTable {
	return &MockOverrideTable{entries: map[string]domain.OverrideEntry{
		"5449000000996": {
			Name:              "Coca-Cola 33 cl",
			SugarGramsPerUnit: 35,
			BasisDescriptor:   "per unit (330 ml)",
		},
	}}
}

func TestResolve_CacheHit(t *testing.T) {
	cache := NewMockCacheRepository()
	cache.data["off:5449000000996"] = &domain.ResolvedProduct{
		Name:       "Coca-Cola",
		SugarGrams: 35,
		CubeCount:  9,
		Identifier: "5449000000996",
		Source:     SourceRemote,
	}
	source := &MockProductSource{err: domain.ErrSourceUnavailable}
	resolver := NewResolverService(cache, source, emptyOverrides())

	product, err := resolver.Resolve(context.Background(), "5449000000996")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if product.Source != SourceCache {
		t.Errorf("Source = %q, want %q", product.Source, SourceCache)
	}
	if product.SugarGrams != 35 {
		t.Errorf("SugarGrams = %v, want 35", product.SugarGrams)
	}
	if source.callCount != 0 {
		t.Errorf("source called %d times on a cache hit, want 0", source.callCount)
	}
}

func TestResolve_RemoteSuccess(t *testing.T) {
	cache := NewMockCacheRepository()
	source := &MockProductSource{record: &domain.NutrientRecord{
		ProductName:   "Chocolate bar",
		SugarsServing: f(12),
		ServingSize:   "25 g",
	}}
	resolver := NewResolverService(cache, source, emptyOverrides())

	product, err := resolver.Resolve(context.Background(), "3017620429484")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if product.Source != SourceRemote {
		t.Errorf("Source = %q, want %q", product.Source, SourceRemote)
	}
	if product.SugarGrams != 12 {
		t.Errorf("SugarGrams = %v, want 12", product.SugarGrams)
	}
	if product.CubeCount != 3 {
		t.Errorf("CubeCount = %d, want 3", product.CubeCount)
	}
	if product.BasisLabel != "per serving (25 g)" {
		t.Errorf("BasisLabel = %q", product.BasisLabel)
	}
	if !cache.setCalled {
		t.Error("successful resolution was not written to the cache")
	}
}

func TestResolve_RemoteFailureFallsBackToLocal(t *testing.T) {
	cache := NewMockCacheRepository()
	source := &MockProductSource{err: domain.ErrSourceUnavailable}
	resolver := NewResolverService(cache, source, cocaOverrides())

	product, err := resolver.Resolve(context.Background(), "5449000000996")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if product.Source != SourceLocal {
		t.Errorf("Source = %q, want %q", product.Source, SourceLocal)
	}
	if product.SugarGrams != 35 {
		t.Errorf("SugarGrams = %v, want 35", product.SugarGrams)
	}
	if product.CubeCount != 9 {
		t.Errorf("CubeCount = %d, want round(35/4) = 9", product.CubeCount)
	}
	if !cache.setCalled {
		t.Error("local fallback was not cached")
	}
}

func TestResolve_EstimationUnavailableFallsBackToLocal(t *testing.T) {
	// A record with no usable sugar basis must not become a zero-sugar hit
	cache := NewMockCacheRepository()
	source := &MockProductSource{record: &domain.NutrientRecord{
		ProductName: "Coca-Cola",
		Quantity:    "six pack",
	}}
	resolver := NewResolverService(cache, source, cocaOverrides())

	product, err := resolver.Resolve(context.Background(), "5449000000996")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if product.Source != SourceLocal {
		t.Errorf("Source = %q, want %q", product.Source, SourceLocal)
	}
	if product.SugarGrams != 35 {
		t.Errorf("SugarGrams = %v, want the override value 35, never 0", product.SugarGrams)
	}
}

func TestResolve_NotFoundAnywhere(t *testing.T) {
	cache := NewMockCacheRepository()
	source := &MockProductSource{err: domain.ErrProductNotFound}
	resolver := NewResolverService(cache, source, emptyOverrides())

	_, err := resolver.Resolve(context.Background(), "4000000000001")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("Resolve() error = %v, want ErrProductNotFound", err)
	}
	if cache.setCalled {
		t.Error("a failed resolution must not be cached")
	}
}

func TestResolve_SourceUnavailableWithoutOverride(t *testing.T) {
	cache := NewMockCacheRepository()
	source := &MockProductSource{err: domain.ErrSourceUnavailable}
	resolver := NewResolverService(cache, source, emptyOverrides())

	_, err := resolver.Resolve(context.Background(), "4000000000001")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Errorf("Resolve() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestResolve_CacheWriteFailureDoesNotFailResolution(t *testing.T) {
	cache := NewMockCacheRepository()
	cache.setError = errors.New("disk full")
	source := &MockProductSource{record: &domain.NutrientRecord{
		ProductName:   "Juice",
		SugarsServing: f(20),
	}}
	resolver := NewResolverService(cache, source, emptyOverrides())

	product, err := resolver.Resolve(context.Background(), "5449000000996")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want success despite cache failure", err)
	}
	if product.SugarGrams != 20 {
		t.Errorf("SugarGrams = %v, want 20", product.SugarGrams)
	}
}

func TestResolveCode_InvalidIdentifier(t *testing.T) {
	source := &MockProductSource{}
	resolver := NewResolverService(NewMockCacheRepository(), source, emptyOverrides())

	_, err := resolver.ResolveCode(context.Background(), "not-a-barcode")
	if !errors.Is(err, domain.ErrInvalidIdentifier) {
		t.Errorf("ResolveCode() error = %v, want ErrInvalidIdentifier", err)
	}
	if source.callCount != 0 {
		t.Errorf("source called %d times for an invalid payload, want 0", source.callCount)
	}
}

func TestResolveCode_EndToEndOffline(t *testing.T) {
	// No network, identifier present in the local table: 35 g resolves to
	// 9 cubes laid out as a 3,3,2,1 pyramid
	cache := NewMockCacheRepository()
	source := &MockProductSource{err: domain.ErrSourceUnavailable}
	resolver := NewResolverService(cache, source, cocaOverrides())
	engine := NewLayoutEngine(1280, 720)

	product, err := resolver.ResolveCode(context.Background(), "5449000000996")
	if err != nil {
		t.Fatalf("ResolveCode() error = %v", err)
	}
	if product.SugarGrams != 35 || product.CubeCount != 9 {
		t.Fatalf("got %v g / %d cubes, want 35 g / 9 cubes", product.SugarGrams, product.CubeCount)
	}

	layout := engine.Build(product.CubeCount, testAnchor())
	widths := rowWidths(layout)
	want := []int{3, 3, 2, 1}
	if len(widths) != len(want) {
		t.Fatalf("row widths = %v, want %v", widths, want)
	}
	for i := range want {
		if widths[i] != want[i] {
			t.Fatalf("row widths = %v, want %v", widths, want)
		}
	}
}
