package domain

// ResolvedProduct is the final result of resolving a scanned identifier.
// It is assembled once by the resolver and never mutated afterwards.
type ResolvedProduct struct {
	Name       string  `json:"name"`
	SugarGrams float64 `json:"sugarGrams"`
	CubeCount  int     `json:"cubeCount"`
	BasisLabel string  `json:"basisLabel"`
	Identifier string  `json:"identifier"`
	Source     string  `json:"source"` // "openfoodfacts", "local" or "cache"
}

// AnchorBox is a detected region in screen pixels, origin top-left.
type AnchorBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CubePosition is one rendered sugar cube: center position and edge size,
// both in screen pixels.
type CubePosition struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// CubeLayout is the ordered set of cube positions for one pyramid.
// It is recomputed from scratch on every request.
type CubeLayout []CubePosition

// ScanRequest is a decoded payload submitted by the scanner client,
// with the detection box it was read from (may be absent).
type ScanRequest struct {
	Payload string     `json:"payload" binding:"required"`
	Anchor  *AnchorBox `json:"anchor,omitempty"`
}

// OverrideEntry is a row of the static local product table, used when the
// remote source is unavailable or has no usable sugar data.
type OverrideEntry struct {
	Name              string
	SugarGramsPerUnit float64
	BasisDescriptor   string
}
