package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/models"
)

func line(id primitive.ObjectID, qty int, price int64) models.CartLine {
	return models.CartLine{ProductID: id, Quantity: qty, UnitPrice: price}
}

func TestMergeSumsSharedLinesAndKeepsGuestPrice(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	p3 := primitive.NewObjectID()

	server := []models.CartLine{
		line(p1, 2, 50_000),
		line(p2, 100, 1_000),
	}
	guest := []models.CartLine{
		line(p1, 3, 55_000),
		line(p3, 1, 200_000),
	}

	merged := Merge(server, guest)
	require.Len(t, merged, 3)

	assert.Equal(t, p1, merged[0].ProductID)
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, int64(55_000), merged[0].UnitPrice)

	assert.Equal(t, p2, merged[1].ProductID)
	assert.Equal(t, 100, merged[1].Quantity)

	assert.Equal(t, p3, merged[2].ProductID)
	assert.Equal(t, 1, merged[2].Quantity)

	assert.Equal(t, 106, Totals(merged).ItemCount)
}

func TestMergeDisjointCartsConcatenates(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	server := []models.CartLine{line(p1, 1, 10_000)}
	guest := []models.CartLine{line(p2, 2, 20_000)}

	merged := Merge(server, guest)
	require.Len(t, merged, 2)
	assert.Equal(t, p1, merged[0].ProductID)
	assert.Equal(t, p2, merged[1].ProductID)
}

func TestMergeEmptyInputs(t *testing.T) {
	p1 := primitive.NewObjectID()
	only := []models.CartLine{line(p1, 4, 75_000)}

	assert.Equal(t, only, Merge(nil, only))
	assert.Equal(t, only, Merge(only, nil))
	assert.Empty(t, Merge(nil, nil))
}

func TestMergeItemCountIsAdditive(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	p3 := primitive.NewObjectID()

	server := []models.CartLine{line(p1, 7, 5_000), line(p2, 3, 9_000)}
	guest := []models.CartLine{line(p2, 5, 9_500), line(p3, 11, 1_500)}

	want := Totals(server).ItemCount + Totals(guest).ItemCount
	assert.Equal(t, want, Totals(Merge(server, guest)).ItemCount)
}

func TestTotalsExactArithmetic(t *testing.T) {
	p1 := primitive.NewObjectID()
	// Values chosen to drift under float64 accumulation.
	lines := []models.CartLine{
		line(p1, 3, 33_333),
		line(primitive.NewObjectID(), 7, 142_857),
	}
	got := Totals(lines)
	assert.Equal(t, int64(3*33_333+7*142_857), got.Subtotal)
	assert.Equal(t, 10, got.ItemCount)
}
