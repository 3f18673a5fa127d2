package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sucrecam/backend/internal/domain"
)

// Source tags carried on resolved products
const (
	SourceRemote = "openfoodfacts"
	SourceLocal  = "local"
	SourceCache  = "cache"
)

// cacheNamespace prefixes every cache key
const cacheNamespace = "off"

// ResolverService turns a canonical identifier into a resolved product.
// Flow: check cache -> fetch remote -> estimate -> local override -> cache -> return
type ResolverService struct {
	cache     domain.CacheRepository
	source    domain.ProductSource
	overrides domain.OverrideTable
}

// NewResolverService creates a resolver service with its dependencies
func NewResolverService(
	cache domain.CacheRepository,
	source domain.ProductSource,
	overrides domain.OverrideTable,
) *ResolverService {
	return &ResolverService{
		cache:     cache,
		source:    source,
		overrides: overrides,
	}
}

// ResolveCode normalizes a raw scanned payload and resolves it
func (s *ResolverService) ResolveCode(ctx context.Context, raw string) (*domain.ResolvedProduct, error) {
	code, err := NormalizeCode(raw)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, code)
}

// Resolve looks up a canonical identifier. Repeated calls for the same
// identifier within the cache TTL are absorbed by the cache; a fresh fetch
// always writes a fresh entry.
func (s *ResolverService) Resolve(ctx context.Context, code string) (*domain.ResolvedProduct, error) {
	key := cacheKey(code)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		hit := *cached
		hit.Source = SourceCache
		return &hit, nil
	}

	product, err := s.resolveRemote(ctx, code)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isFallbackTrigger(err) {
			return nil, err
		}

		entry, ok := s.overrides.Lookup(code)
		if !ok {
			// Keep the distinction between "the source said no" and "the
			// source could not be reached" for the presentation layer.
			if errors.Is(err, domain.ErrSourceUnavailable) {
				return nil, err
			}
			return nil, domain.ErrProductNotFound
		}

		log.Printf("[RESOLVER] Remote miss for %s (%v), using local override", code, err)
		product = productFromOverride(code, entry)
	}

	if err := s.cache.Set(ctx, key, product); err != nil {
		// A failed cache write never fails the resolution
		log.Printf("[RESOLVER] Cache write failed for %s: %v", code, err)
	}

	return product, nil
}

// resolveRemote fetches the nutrient record and runs the estimator.
// A record without a usable sugar basis is a miss, never a zero-sugar hit.
func (s *ResolverService) resolveRemote(ctx context.Context, code string) (*domain.ResolvedProduct, error) {
	rec, err := s.source.FetchProduct(ctx, code)
	if err != nil {
		return nil, err
	}

	est := EstimateSugar(rec)
	if est.Basis == domain.BasisUnknown || !isFinite(est.Grams) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEstimationUnavailable, code)
	}

	name := rec.ProductName
	if name == "" {
		name = rec.GenericName
	}
	if name == "" {
		name = "Product"
	}

	return &domain.ResolvedProduct{
		Name:       name,
		SugarGrams: est.Grams,
		CubeCount:  GramsToCubes(est.Grams),
		BasisLabel: FormatBasisLabel(est),
		Identifier: code,
		Source:     SourceRemote,
	}, nil
}

// isFallbackTrigger reports whether a remote failure should fall through to
// the local override table
func isFallbackTrigger(err error) bool {
	return errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrSourceUnavailable) ||
		errors.Is(err, domain.ErrEstimationUnavailable)
}

// productFromOverride synthesizes a resolved product from a static table entry
func productFromOverride(code string, entry *domain.OverrideEntry) *domain.ResolvedProduct {
	return &domain.ResolvedProduct{
		Name:       entry.Name,
		SugarGrams: entry.SugarGramsPerUnit,
		CubeCount:  GramsToCubes(entry.SugarGramsPerUnit),
		BasisLabel: entry.BasisDescriptor,
		Identifier: code,
		Source:     SourceLocal,
	}
}

// cacheKey builds the namespaced cache key for an identifier
func cacheKey(code string) string {
	return fmt.Sprintf("%s:%s", cacheNamespace, code)
}
