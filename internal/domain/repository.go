package domain

import "context"

// CacheRepository defines the interface for resolution caching. The TTL is a
// property of the cache itself, fixed at construction. Get returns
// ErrCacheMiss for a missing, expired or unreadable entry; Set overwrites
// unconditionally with a fresh timestamp.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*ResolvedProduct, error)
	Set(ctx context.Context, key string, value *ResolvedProduct) error
	Delete(ctx context.Context, key string) error
}

// ProductSource defines the interface for the remote nutrition source.
// FetchProduct returns ErrProductNotFound when the source knows nothing
// about the code and ErrSourceUnavailable on exhausted retries.
type ProductSource interface {
	FetchProduct(ctx context.Context, code string) (*NutrientRecord, error)
}

// OverrideTable defines the interface for the static local product table.
type OverrideTable interface {
	Lookup(code string) (*OverrideEntry, bool)
}
