package orders

import (
	"fmt"

	"tokomaterial/models"
)

// Canonical fulfillment sequence; higher rank is further downstream.
var statusRank = map[models.Status]int{
	models.StatusPendingPayment: 0,
	models.StatusPaid:           1,
	models.StatusProcessing:     2,
	models.StatusShipped:        3,
	models.StatusDelivered:      4,
}

type IllegalTransitionError struct {
	From models.Status
	To   models.Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal order transition %s -> %s", e.From, e.To)
}

// CanTransition reports whether moving from one status to another is legal.
// Forward moves along the fulfillment sequence are allowed; cancelled and
// expired branch off pending_payment only; refunded is reachable from any
// state at or past paid. cancelled, expired and refunded accept nothing
// further. Everything else is an out-of-order or replayed event.
func CanTransition(from, to models.Status) bool {
	if from == to {
		return false
	}
	switch from {
	case models.StatusCancelled, models.StatusExpired, models.StatusRefunded:
		return false
	}

	switch to {
	case models.StatusCancelled, models.StatusExpired:
		return from == models.StatusPendingPayment
	case models.StatusRefunded:
		rank, ok := statusRank[from]
		return ok && rank >= statusRank[models.StatusPaid]
	}

	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	return okFrom && okTo && toRank > fromRank
}
