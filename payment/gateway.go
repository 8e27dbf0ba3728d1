package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tokomaterial/models"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// TokenResponse is what the storefront needs to hand the shopper over to
// the gateway's hosted payment page.
type TokenResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

type itemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type tokenRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	ItemDetails []itemDetail `json:"item_details"`
}

// Gateway issues payment session tokens against the external gateway.
// Transport failures surface as ErrGatewayUnavailable; this layer never
// retries, the caller owns backoff.
type Gateway struct {
	baseURL   string
	serverKey string
	http      *http.Client
}

func NewGateway(baseURL, serverKey string, client *http.Client) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Gateway{baseURL: baseURL, serverKey: serverKey, http: client}
}

// RequestToken builds a transaction request from the order's frozen lines,
// with shipping as a synthetic line item. The gateway validates that item
// amounts sum to gross_amount, so the equality is checked here before the
// request ever leaves the process.
func (g *Gateway) RequestToken(ctx context.Context, order *models.Order) (*TokenResponse, error) {
	items := make([]itemDetail, 0, len(order.Lines)+1)
	for _, line := range order.Lines {
		items = append(items, itemDetail{
			ID:       line.ProductID.Hex(),
			Name:     line.ProductName,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
		})
	}
	items = append(items, itemDetail{
		ID:       "SHIPPING",
		Name:     order.ShippingOption.CourierCode + " " + order.ShippingOption.ServiceName,
		Price:    order.ShippingCost,
		Quantity: 1,
	})

	var sum int64
	for _, item := range items {
		sum += item.Price * int64(item.Quantity)
	}
	if sum != order.Total {
		return nil, fmt.Errorf("item amounts sum to %d but order total is %d", sum, order.Total)
	}

	var reqBody tokenRequest
	reqBody.TransactionDetails.OrderID = order.OrderNumber
	reqBody.TransactionDetails.GrossAmount = order.Total
	reqBody.ItemDetails = items

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/snap/v1/transactions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.serverKey, "")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway rejected transaction: status %d", resp.StatusCode)
	}

	var out struct {
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrGatewayUnavailable, err)
	}
	return &TokenResponse{Token: out.Token, RedirectURL: out.RedirectURL}, nil
}
