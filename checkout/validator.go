package checkout

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/models"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is the authoritative product source the validator checks against.
type Catalog interface {
	Product(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

const (
	ProblemNotFound          = "not_found"
	ProblemInsufficientStock = "insufficient_stock"
	ProblemPriceChanged      = "price_changed"
	ProblemInvalidQuantity   = "invalid_quantity"
)

type Problem struct {
	Kind      string             `json:"kind"`
	ProductID primitive.ObjectID `json:"productId"`
	Available *int               `json:"available,omitempty"`
	OldPrice  *int64             `json:"oldPrice,omitempty"`
	NewPrice  *int64             `json:"newPrice,omitempty"`
}

// PricedLine carries the authoritative catalog price, not the price the
// client sent. Downstream order creation trusts these lines and nothing else.
type PricedLine struct {
	ProductID   primitive.ObjectID `json:"productId" binding:"required"`
	ProductName string             `json:"productName"`
	UnitPrice   int64              `json:"unitPrice"`
	Quantity    int                `json:"quantity" binding:"required,gte=1"`
	WeightKg    float64            `json:"weightKg"`
}

type Result struct {
	Valid    bool         `json:"valid"`
	Lines    []PricedLine `json:"lines"`
	Problems []Problem    `json:"problems,omitempty"`
}

type Validator struct {
	catalog Catalog
}

func NewValidator(catalog Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate re-prices and re-checks stock for every line at this moment.
// Stock is not reserved; the window between validation and order creation is
// an accepted optimistic race. A price_changed problem is advisory only, the
// result stays valid and carries the corrected price. not_found,
// insufficient_stock and invalid_quantity block.
func (v *Validator) Validate(ctx context.Context, lines []models.CartLine) (Result, error) {
	res := Result{Valid: true}

	for _, line := range lines {
		if line.Quantity < 1 {
			res.Valid = false
			res.Problems = append(res.Problems, Problem{
				Kind:      ProblemInvalidQuantity,
				ProductID: line.ProductID,
			})
			continue
		}

		product, err := v.catalog.Product(ctx, line.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			res.Valid = false
			res.Problems = append(res.Problems, Problem{
				Kind:      ProblemNotFound,
				ProductID: line.ProductID,
			})
			continue
		}
		if err != nil {
			return Result{}, err
		}

		if product.Stock < line.Quantity {
			available := product.Stock
			res.Valid = false
			res.Problems = append(res.Problems, Problem{
				Kind:      ProblemInsufficientStock,
				ProductID: line.ProductID,
				Available: &available,
			})
			continue
		}

		if product.Price != line.UnitPrice {
			oldPrice, newPrice := line.UnitPrice, product.Price
			res.Problems = append(res.Problems, Problem{
				Kind:      ProblemPriceChanged,
				ProductID: line.ProductID,
				OldPrice:  &oldPrice,
				NewPrice:  &newPrice,
			})
		}

		res.Lines = append(res.Lines, PricedLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			WeightKg:    product.WeightKg,
		})
	}

	if !res.Valid {
		res.Lines = nil
	}
	return res, nil
}
