package off

import (
	"strconv"
	"strings"

	"github.com/sucrecam/backend/internal/domain"
)

// productResponse is the wire shape of the OFF v2 product endpoint
type productResponse struct {
	Status  int          `json:"status"`
	Product *wireProduct `json:"product"`
}

type wireProduct struct {
	ProductName    string         `json:"product_name"`
	GenericName    string         `json:"generic_name"`
	Nutriments     wireNutriments `json:"nutriments"`
	Quantity       string         `json:"quantity"`
	ServingSize    string         `json:"serving_size"`
	CategoriesTags []string       `json:"categories_tags"`
}

// wireNutriments keeps sugar values untyped: OFF reports them as numbers or
// strings depending on how the product was entered
type wireNutriments struct {
	SugarsServing interface{} `json:"sugars_serving"`
	Sugars100g    interface{} `json:"sugars_100g"`
	Sugars100ml   interface{} `json:"sugars_100ml"`
}

// mapToNutrientRecord converts the OFF wire shape to our domain model.
// Unparseable nutrient values map to nil, never to zero.
func mapToNutrientRecord(p *wireProduct) *domain.NutrientRecord {
	return &domain.NutrientRecord{
		ProductName:   p.ProductName,
		GenericName:   p.GenericName,
		SugarsServing: toFloat(p.Nutriments.SugarsServing),
		Sugars100g:    toFloat(p.Nutriments.Sugars100g),
		Sugars100ml:   toFloat(p.Nutriments.Sugars100ml),
		ServingSize:   p.ServingSize,
		Quantity:      p.Quantity,
		CategoryTags:  p.CategoriesTags,
	}
}

// toFloat coerces an untyped nutriment value. String values tolerate a comma
// decimal separator.
func toFloat(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}
