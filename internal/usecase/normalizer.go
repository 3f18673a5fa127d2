package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sucrecam/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// gs1GTINSegment is the GS1 Digital Link application identifier for a GTIN:
// the code is the path element immediately following "/01/".
const gs1GTINSegment = "01"

// NormalizeCode turns a raw scanned payload into a canonical product
// identifier. Supported inputs are bare numeric barcodes (EAN-8, UPC-A,
// EAN-13, GTIN-14) and GS1 Digital Link URLs carrying a GTIN.
//
// Canonical form is 8 or 13 digits: UPC-A (12) is left-padded with one zero,
// GTIN-14 drops its leading indicator digit. Everything else is rejected
// with domain.ErrInvalidIdentifier.
//
// Pure function: no side effects, same input always yields same output.
func NormalizeCode(raw string) (string, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return "", domain.ErrInvalidIdentifier
	}

	if isLink(payload) {
		payload = extractLinkCode(payload)
	}

	digits := nonDigitRegex.ReplaceAllString(payload, "")

	switch len(digits) {
	case 8, 13:
		return digits, nil
	case 12:
		// UPC-A maps into EAN-13 with a leading zero
		return "0" + digits, nil
	case 14:
		// GTIN-14 drops the indicator digit
		return digits[1:], nil
	default:
		return "", domain.ErrInvalidIdentifier
	}
}

// isLink checks if a payload looks like a URL rather than a bare barcode
func isLink(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// extractLinkCode pulls the GTIN out of a GS1 Digital Link. It prefers the
// path segment following the "01" application identifier, then falls back to
// a "gtin" query parameter. Returns the raw candidate (still to be
// digit-stripped); an unparseable link yields an empty string.
func extractLinkCode(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == gs1GTINSegment && i+1 < len(segments) {
			return segments[i+1]
		}
	}

	return u.Query().Get("gtin")
}
