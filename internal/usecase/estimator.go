package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sucrecam/backend/internal/domain"
)

// CubeGrams is the visualization's unit: one sugar cube is 4 grams.
const CubeGrams = 4.0

// Package-level compiled regex patterns for performance
var (
	// Matches a declared quantity like "330 ml", "1 L", "400g", "0,5 kg".
	// First match in the text wins; kg must precede g and ml precede l in
	// the alternation so the longer unit is tried first.
	quantityRegex = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|ml|l|g)\b`)

	// Category tags that classify a product as a beverage
	beverageRegex = regexp.MustCompile(`beverage|boisson|drink`)
)

// GramsToCubes converts a sugar quantity into a whole cube count, rounding
// half away from zero. Non-finite or non-positive grams yield zero.
func GramsToCubes(grams float64) int {
	if math.IsNaN(grams) || math.IsInf(grams, 0) || grams <= 0 {
		return 0
	}
	return int(math.Round(grams / CubeGrams))
}

// parsedQuantity is a declared package quantity reduced to a magnitude and a
// base unit ("g" or "ml"); kg and l are scaled down during parsing.
type parsedQuantity struct {
	Value float64
	Unit  string
}

// parseQuantity extracts the first number-plus-unit pair from a declared
// quantity text. Comma decimals are accepted. Returns nil when nothing
// parseable is found.
func parseQuantity(text string) *parsedQuantity {
	m := quantityRegex.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || !isFinite(value) {
		return nil
	}

	unit := strings.ToLower(m[2])
	switch unit {
	case "kg":
		value *= 1000
		unit = "g"
	case "l":
		value *= 1000
		unit = "ml"
	}

	return &parsedQuantity{Value: value, Unit: unit}
}

// isBeverage decides whether a product should be read against its per-100ml
// value. Heuristic: a milliliter-bearing declared quantity, or a beverage
// category tag. Misclassification is an accepted approximation.
func isBeverage(rec *domain.NutrientRecord) bool {
	q := parseQuantity(rec.Quantity)
	if q == nil {
		q = parseQuantity(rec.ServingSize)
	}
	if q != nil && q.Unit == "ml" {
		return true
	}

	tags := strings.ToLower(strings.Join(rec.CategoryTags, " "))
	return beverageRegex.MatchString(tags)
}

// EstimateSugar reduces a nutrient record to a single (grams, basis) sugar
// estimate. Precedence:
//
//  1. per-serving value, taken as-is (the producer's own serving definition)
//  2. per-100 value extrapolated over a parseable, unit-matched declared
//     quantity
//  3. bare per-100 value as an unscaled reference rate
//  4. unknown (grams = NaN) when nothing is usable
//
// Absent fields never count as zero sugar.
func EstimateSugar(rec *domain.NutrientRecord) domain.SugarEstimate {
	if usable(rec.SugarsServing) {
		detail := strings.TrimSpace(rec.ServingSize)
		if detail == "" {
			detail = "portion"
		}
		return domain.SugarEstimate{
			Grams:  *rec.SugarsServing,
			Basis:  domain.BasisServing,
			Detail: detail,
		}
	}

	qty := parseQuantity(rec.Quantity)
	if qty == nil {
		qty = parseQuantity(rec.ServingSize)
	}
	if qty != nil {
		// Extrapolation requires unit-matched inputs: a per-100ml value is
		// never scaled by a gram quantity, and vice versa.
		switch {
		case qty.Unit == "g" && usable(rec.Sugars100g):
			return extrapolate(*rec.Sugars100g, qty)
		case qty.Unit == "ml" && usable(rec.Sugars100ml):
			return extrapolate(*rec.Sugars100ml, qty)
		}
	}

	// No usable quantity: fall back to the raw per-100 reference rate.
	// The beverage heuristic picks between the two when both exist.
	if isBeverage(rec) && usable(rec.Sugars100ml) {
		return domain.SugarEstimate{Grams: *rec.Sugars100ml, Basis: domain.BasisPer100ml, Detail: "100 ml"}
	}
	if usable(rec.Sugars100g) {
		return domain.SugarEstimate{Grams: *rec.Sugars100g, Basis: domain.BasisPer100g, Detail: "100 g"}
	}
	if usable(rec.Sugars100ml) {
		return domain.SugarEstimate{Grams: *rec.Sugars100ml, Basis: domain.BasisPer100ml, Detail: "100 ml"}
	}

	return domain.SugarEstimate{Grams: math.NaN(), Basis: domain.BasisUnknown}
}

// extrapolate scales a per-100 value over a whole declared unit
func extrapolate(per100 float64, qty *parsedQuantity) domain.SugarEstimate {
	return domain.SugarEstimate{
		Grams:  per100 * qty.Value / 100,
		Basis:  domain.BasisUnit,
		Detail: fmt.Sprintf("%s %s", strconv.FormatFloat(qty.Value, 'f', -1, 64), qty.Unit),
	}
}

// FormatBasisLabel renders the human-readable basis line shown under the
// cube count. Per-100 bases read differently on purpose: they are reference
// rates, not whole-unit quantities.
func FormatBasisLabel(est domain.SugarEstimate) string {
	switch est.Basis {
	case domain.BasisServing:
		if est.Detail != "" && est.Detail != "portion" {
			return fmt.Sprintf("per serving (%s)", est.Detail)
		}
		return "per serving"
	case domain.BasisUnit:
		return fmt.Sprintf("per unit (%s)", est.Detail)
	case domain.BasisPer100g:
		return "per 100 g"
	case domain.BasisPer100ml:
		return "per 100 ml"
	default:
		return ""
	}
}

// usable reports whether a reported nutrient value is present and finite
func usable(v *float64) bool {
	return v != nil && isFinite(*v)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
