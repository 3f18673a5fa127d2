package domain

// Basis is the denomination under which a sugar value is expressed.
type Basis string

const (
	BasisServing  Basis = "serving"  // producer-declared serving
	BasisUnit     Basis = "unit"     // whole package (can, bottle, pack)
	BasisPer100g  Basis = "per100g"  // unscaled reference rate per 100 g
	BasisPer100ml Basis = "per100ml" // unscaled reference rate per 100 ml
	BasisUnknown  Basis = "unknown"  // no usable sugar data
)

// NutrientRecord holds the sugar-related fields of a product as reported by
// the data source. Pointer fields are nil when the source did not report a
// value; nil must never be conflated with zero.
type NutrientRecord struct {
	ProductName   string
	GenericName   string
	SugarsServing *float64 // grams per declared serving
	Sugars100g    *float64 // grams per 100 g
	Sugars100ml   *float64 // grams per 100 ml
	ServingSize   string   // declared serving size text, e.g. "30 g"
	Quantity      string   // declared package quantity text, e.g. "330 ml"
	CategoryTags  []string
}

// SugarEstimate is the estimator's single comparable output.
// Grams is NaN exactly when Basis is BasisUnknown.
type SugarEstimate struct {
	Grams  float64
	Basis  Basis
	Detail string // descriptive quantity, e.g. "330 ml" or "portion"
}
