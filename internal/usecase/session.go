package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sucrecam/backend/internal/domain"
)

// ScanResult pairs a resolved product with its cube layout
type ScanResult struct {
	Product *domain.ResolvedProduct `json:"product"`
	Layout  domain.CubeLayout       `json:"layout"`
}

// ScanSession owns the single "current candidate" state of the scan loop:
// the payload being resolved, the last result, and the last detection box
// (kept as a sticky anchor for re-layouts). One resolution is in flight at a
// time; scans submitted meanwhile are rejected, which also serializes all
// cache writes.
type ScanSession struct {
	ID string

	resolver *ResolverService
	layout   *LayoutEngine

	mu          sync.Mutex
	inProgress  bool
	generation  uint64
	lastPayload string
	lastResult  *ScanResult
	lastAnchor  *domain.AnchorBox
}

// NewScanSession creates a scan session around a resolver and layout engine
func NewScanSession(resolver *ResolverService, layout *LayoutEngine) *ScanSession {
	return &ScanSession{
		ID:       uuid.New().String(),
		resolver: resolver,
		layout:   layout,
	}
}

// Scan resolves a decoded payload and lays out its cube pyramid.
//
// A payload identical to the previous successful scan is answered from the
// session directly (the decoder fires many times per second for a code held
// in front of the camera). While a resolution is outstanding any new scan
// returns ErrScanInProgress; if the session is reset while a resolution is in
// flight, its result is discarded with ErrStaleScan.
func (s *ScanSession) Scan(ctx context.Context, req domain.ScanRequest) (*ScanResult, error) {
	s.mu.Lock()
	if s.inProgress {
		s.mu.Unlock()
		return nil, domain.ErrScanInProgress
	}
	if req.Anchor != nil {
		s.lastAnchor = req.Anchor
	}
	if req.Payload == s.lastPayload && s.lastResult != nil {
		result := s.relayoutLocked()
		s.mu.Unlock()
		return result, nil
	}
	s.inProgress = true
	gen := s.generation
	anchor := s.lastAnchor
	s.mu.Unlock()

	product, err := s.resolver.ResolveCode(ctx, req.Payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false

	if s.generation != gen {
		return nil, domain.ErrStaleScan
	}
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Product: product,
		Layout:  s.layout.Build(product.CubeCount, anchor),
	}
	s.lastPayload = req.Payload
	s.lastResult = result
	return result, nil
}

// Reset clears the current candidate, e.g. when the client switches camera.
// Any in-flight resolution is invalidated and its result will be discarded.
func (s *ScanSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.lastPayload = ""
	s.lastResult = nil
	s.lastAnchor = nil
}

// Current returns the last successful scan result, or nil
func (s *ScanSession) Current() *ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// relayoutLocked rebuilds the cube layout of the last result against the
// current sticky anchor. Caller holds s.mu.
func (s *ScanSession) relayoutLocked() *ScanResult {
	result := &ScanResult{
		Product: s.lastResult.Product,
		Layout:  s.layout.Build(s.lastResult.Product.CubeCount, s.lastAnchor),
	}
	s.lastResult = result
	return result
}
