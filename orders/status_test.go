package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tokomaterial/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from models.Status
		to   models.Status
		want bool
	}{
		{"pending to paid", models.StatusPendingPayment, models.StatusPaid, true},
		{"pending to shipped skips ahead", models.StatusPendingPayment, models.StatusShipped, true},
		{"paid to processing", models.StatusPaid, models.StatusProcessing, true},
		{"processing to shipped", models.StatusProcessing, models.StatusShipped, true},
		{"shipped to delivered", models.StatusShipped, models.StatusDelivered, true},
		{"pending to cancelled", models.StatusPendingPayment, models.StatusCancelled, true},
		{"pending to expired", models.StatusPendingPayment, models.StatusExpired, true},
		{"paid to refunded", models.StatusPaid, models.StatusRefunded, true},
		{"shipped to refunded", models.StatusShipped, models.StatusRefunded, true},
		{"delivered to refunded", models.StatusDelivered, models.StatusRefunded, true},

		{"same status is not a transition", models.StatusPaid, models.StatusPaid, false},
		{"delivered back to paid", models.StatusDelivered, models.StatusPaid, false},
		{"paid back to pending", models.StatusPaid, models.StatusPendingPayment, false},
		{"paid to cancelled", models.StatusPaid, models.StatusCancelled, false},
		{"paid to expired", models.StatusPaid, models.StatusExpired, false},
		{"pending to refunded", models.StatusPendingPayment, models.StatusRefunded, false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusDelivered, false},
		{"expired is terminal", models.StatusExpired, models.StatusPaid, false},
		{"refunded is terminal", models.StatusRefunded, models.StatusProcessing, false},
		{"delivered accepts nothing forward", models.StatusDelivered, models.StatusProcessing, false},
		{"unknown target", models.StatusPaid, models.Status("lost"), false},
		{"unknown source", models.Status("lost"), models.StatusPaid, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestIllegalTransitionErrorMessage(t *testing.T) {
	err := &IllegalTransitionError{From: models.StatusCancelled, To: models.StatusDelivered}
	assert.Contains(t, err.Error(), "cancelled")
	assert.Contains(t, err.Error(), "delivered")
}
