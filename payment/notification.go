package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tokomaterial/logging"
	"tokomaterial/models"
	"tokomaterial/orders"
)

var (
	ErrInvalidSignature    = errors.New("invalid notification signature")
	ErrUnrecognizedPayload = errors.New("unrecognized notification payload")
)

// Notification is the closed set of fields this system reads from a gateway
// callback. Anything that doesn't parse into it, or carries a status outside
// the known vocabulary, is rejected at the boundary.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

// Fixed mapping from the gateway's transaction-status vocabulary to ours.
var statusMap = map[string]models.Status{
	"settlement": models.StatusPaid,
	"capture":    models.StatusPaid,
	"pending":    models.StatusPendingPayment,
	"deny":       models.StatusCancelled,
	"cancel":     models.StatusCancelled,
	"expire":     models.StatusExpired,
	"refund":     models.StatusRefunded,
}

// OrderStore is the slice of order persistence the webhook needs.
type OrderStore interface {
	ByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	SetPaymentRef(ctx context.Context, id primitive.ObjectID, ref string) error
	ApplyTransition(ctx context.Context, id primitive.ObjectID, from, to models.Status, note string) (bool, error)
}

// StockCommitter decrements stock exactly once, when an order first reaches
// paid.
type StockCommitter interface {
	CommitStock(ctx context.Context, lines []models.OrderLine) error
}

// Outcome reports what a notification did to the order, if anything.
type Outcome struct {
	OrderNumber string        `json:"orderNumber"`
	Status      models.Status `json:"status"`
	Applied     bool          `json:"applied"`
}

// Webhook reconciles asynchronous gateway callbacks into order-state
// transitions. The endpoint it serves is publicly reachable, so nothing in
// the payload is trusted before the signature checks out.
type Webhook struct {
	serverKey string
	orders    OrderStore
	stock     StockCommitter
	log       *slog.Logger
}

func NewWebhook(serverKey string, store OrderStore, stock StockCommitter) *Webhook {
	return &Webhook{
		serverKey: serverKey,
		orders:    store,
		stock:     stock,
		log:       logging.New("payment-webhook"),
	}
}

// verify checks the shared-secret signature over the raw body:
// hex(sha512(body || serverKey)), compared in constant time.
func (w *Webhook) verify(rawBody []byte, signature string) bool {
	h := sha512.New()
	h.Write(rawBody)
	h.Write([]byte(w.serverKey))
	expected := hex.EncodeToString(h.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// HandleNotification verifies, parses, maps and applies one gateway
// callback. Replays and out-of-order deliveries are absorbed: the persisted
// status is the source of truth and the transition is a conditional
// check-then-set, so processing the same notification twice leaves exactly
// one history entry behind.
func (w *Webhook) HandleNotification(ctx context.Context, rawBody []byte, signature string) (*Outcome, error) {
	if !w.verify(rawBody, signature) {
		w.log.Warn("notification signature mismatch, possible forgery", "bytes", len(rawBody))
		return nil, ErrInvalidSignature
	}

	var note Notification
	if err := json.Unmarshal(rawBody, &note); err != nil || note.OrderID == "" || note.TransactionStatus == "" {
		return nil, ErrUnrecognizedPayload
	}

	mapped, ok := statusMap[note.TransactionStatus]
	if !ok {
		w.log.Warn("unknown transaction status", "order", note.OrderID, "status", note.TransactionStatus)
		return nil, ErrUnrecognizedPayload
	}

	order, err := w.orders.ByOrderNumber(ctx, note.OrderID)
	if err != nil {
		return nil, err
	}

	if order.Status == mapped {
		// Gateway retry or manual replay; already reconciled.
		return &Outcome{OrderNumber: order.OrderNumber, Status: order.Status, Applied: false}, nil
	}
	if !orders.CanTransition(order.Status, mapped) {
		w.log.Warn("anomalous notification ordering, not applied",
			"order", order.OrderNumber, "current", order.Status, "requested", mapped)
		return nil, &orders.IllegalTransitionError{From: order.Status, To: mapped}
	}

	applied, err := w.orders.ApplyTransition(ctx, order.ID, order.Status, mapped,
		"gateway notification: "+note.TransactionStatus)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent delivery changed the status between read and write.
		// That delivery owns the side effects; this one is a no-op.
		w.log.Info("transition lost conditional update, skipping",
			"order", order.OrderNumber, "requested", mapped)
		return &Outcome{OrderNumber: order.OrderNumber, Status: order.Status, Applied: false}, nil
	}

	if mapped == models.StatusPaid {
		if note.TransactionID != "" {
			if err := w.orders.SetPaymentRef(ctx, order.ID, note.TransactionID); err != nil {
				w.log.Error("failed to record payment ref", "order", order.OrderNumber, "err", err)
			}
		}
		// Stock commit was deferred from order creation to here. Guarded by
		// the conditional transition above, so a replay cannot decrement twice.
		if err := w.stock.CommitStock(ctx, order.Lines); err != nil {
			// The ack still goes out; the gateway will not resend. Recovery
			// is driven from this log line, see the stock reconciliation
			// note in DESIGN.md.
			w.log.Error("stock commit failed after payment, manual reconciliation required",
				"order", order.OrderNumber, "err", err)
		}
	}

	w.log.Info("order status updated from gateway",
		"order", order.OrderNumber, "from", order.Status, "to", mapped)
	return &Outcome{OrderNumber: order.OrderNumber, Status: mapped, Applied: true}, nil
}
