package cart

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/models"
)

// Merge reconciles the server-held cart with a guest cart at login.
// Server lines keep their position; guest-only lines are appended in guest
// order. When both carts hold the same product the quantities are summed and
// the guest price wins, since the guest line reflects the price the shopper
// saw most recently.
func Merge(serverLines, guestLines []models.CartLine) []models.CartLine {
	merged := make([]models.CartLine, 0, len(serverLines)+len(guestLines))
	index := make(map[primitive.ObjectID]int, len(serverLines))

	for _, line := range serverLines {
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	for _, line := range guestLines {
		i, ok := index[line.ProductID]
		if !ok {
			merged = append(merged, line)
			continue
		}
		merged[i].Quantity += line.Quantity
		merged[i].UnitPrice = line.UnitPrice
	}
	return merged
}

// Totals sums quantity and subtotal in whole rupiah. int64 keeps the
// arithmetic exact; no floats near money.
func Totals(lines []models.CartLine) models.CartTotals {
	var t models.CartTotals
	for _, line := range lines {
		t.ItemCount += line.Quantity
		t.Subtotal += line.UnitPrice * int64(line.Quantity)
	}
	return t
}
