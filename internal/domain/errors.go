package domain

import "errors"

var (
	// ErrInvalidIdentifier is returned when a scanned payload cannot be
	// normalized into a supported barcode length
	ErrInvalidIdentifier = errors.New("invalid product identifier")

	// ErrProductNotFound is returned when neither the remote source nor the
	// local override table yields a usable product
	ErrProductNotFound = errors.New("product not found")

	// ErrSourceUnavailable is returned when the remote source keeps failing
	// after all retries
	ErrSourceUnavailable = errors.New("nutrition source unavailable")

	// ErrEstimationUnavailable is returned when a record is present but holds
	// no usable sugar basis; it triggers the local fallback, never a zero
	ErrEstimationUnavailable = errors.New("no usable sugar estimate")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrScanInProgress is returned when a scan is submitted while a previous
	// resolution is still outstanding
	ErrScanInProgress = errors.New("scan already in progress")

	// ErrStaleScan is returned when a resolution completes for a payload that
	// is no longer the session's current candidate; the result is discarded
	ErrStaleScan = errors.New("scan result superseded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
