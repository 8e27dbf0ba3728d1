package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/models"
)

type fakeCatalog struct {
	products map[primitive.ObjectID]models.Product
}

func (f *fakeCatalog) Product(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func catalogWith(products ...models.Product) *fakeCatalog {
	f := &fakeCatalog{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func TestValidateHappyPath(t *testing.T) {
	semen := models.Product{ID: primitive.NewObjectID(), Name: "Semen 50kg", Price: 65_000, Stock: 200, WeightKg: 50}
	bata := models.Product{ID: primitive.NewObjectID(), Name: "Bata Merah", Price: 1_000, Stock: 5000, WeightKg: 2}
	v := NewValidator(catalogWith(semen, bata))

	res, err := v.Validate(context.Background(), []models.CartLine{
		{ProductID: semen.ID, UnitPrice: 65_000, Quantity: 10},
		{ProductID: bata.ID, UnitPrice: 1_000, Quantity: 500},
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Problems)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, int64(65_000), res.Lines[0].UnitPrice)
	assert.Equal(t, float64(50), res.Lines[0].WeightKg)
}

func TestValidateUnknownProductBlocks(t *testing.T) {
	v := NewValidator(catalogWith())
	ghost := primitive.NewObjectID()

	res, err := v.Validate(context.Background(), []models.CartLine{
		{ProductID: ghost, UnitPrice: 10_000, Quantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, ProblemNotFound, res.Problems[0].Kind)
	assert.Equal(t, ghost, res.Problems[0].ProductID)
	assert.Empty(t, res.Lines)
}

func TestValidateInsufficientStockBlocks(t *testing.T) {
	pasir := models.Product{ID: primitive.NewObjectID(), Name: "Pasir", Price: 250_000, Stock: 3}
	v := NewValidator(catalogWith(pasir))

	res, err := v.Validate(context.Background(), []models.CartLine{
		{ProductID: pasir.ID, UnitPrice: 250_000, Quantity: 5},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, ProblemInsufficientStock, res.Problems[0].Kind)
	require.NotNil(t, res.Problems[0].Available)
	assert.Equal(t, 3, *res.Problems[0].Available)
}

func TestValidatePriceChangeIsAdvisory(t *testing.T) {
	cat := models.Product{ID: primitive.NewObjectID(), Name: "Cat Tembok", Price: 180_000, Stock: 40}
	v := NewValidator(catalogWith(cat))

	res, err := v.Validate(context.Background(), []models.CartLine{
		{ProductID: cat.ID, UnitPrice: 165_000, Quantity: 2},
	})
	require.NoError(t, err)

	assert.True(t, res.Valid, "a price change alone must not block checkout")
	require.Len(t, res.Problems, 1)
	assert.Equal(t, ProblemPriceChanged, res.Problems[0].Kind)
	assert.Equal(t, int64(165_000), *res.Problems[0].OldPrice)
	assert.Equal(t, int64(180_000), *res.Problems[0].NewPrice)

	// Downstream always gets the authoritative current price.
	require.Len(t, res.Lines, 1)
	assert.Equal(t, int64(180_000), res.Lines[0].UnitPrice)
}

func TestValidateZeroQuantityBlocks(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID(), Name: "Paku", Price: 30_000, Stock: 100}
	v := NewValidator(catalogWith(p))

	res, err := v.Validate(context.Background(), []models.CartLine{
		{ProductID: p.ID, UnitPrice: 30_000, Quantity: 0},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, ProblemInvalidQuantity, res.Problems[0].Kind)
}

func TestValidateMixedProblemsReportedPerLine(t *testing.T) {
	ok := models.Product{ID: primitive.NewObjectID(), Name: "Triplek", Price: 90_000, Stock: 30}
	low := models.Product{ID: primitive.NewObjectID(), Name: "Besi Beton", Price: 85_000, Stock: 1}
	v := NewValidator(catalogWith(ok, low))

	res, err := v.Validate(context.Background(), []models.CartLine{
		{ProductID: ok.ID, UnitPrice: 90_000, Quantity: 2},
		{ProductID: low.ID, UnitPrice: 85_000, Quantity: 10},
		{ProductID: primitive.NewObjectID(), UnitPrice: 1, Quantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Problems, 2)
	assert.Empty(t, res.Lines, "invalid results carry no priced lines")
}
