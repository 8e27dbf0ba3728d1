package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
)

var ErrRateAPIUnavailable = errors.New("rate api unavailable")

// Destination is one entry of the rate API's city catalog.
type Destination struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Province string `json:"province"`
}

// CourierRate is one priced third-party service for a route+weight pair.
type CourierRate struct {
	CourierCode string `json:"courier"`
	Service     string `json:"service"`
	Cost        int64  `json:"cost"`
	EtaDays     int    `json:"etd_days"`
}

// RateClient talks to the external courier rate API. Both calls carry a
// bounded timeout and sit behind a circuit breaker so a slow or dead API
// degrades quotes instead of hanging checkout.
type RateClient struct {
	baseURL     string
	apiKey      string
	http        *http.Client
	destBreaker *gobreaker.CircuitBreaker[[]Destination]
	rateBreaker *gobreaker.CircuitBreaker[[]CourierRate]
}

func NewRateClient(baseURL, apiKey string) *RateClient {
	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:    name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}
	}
	return &RateClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		http:        &http.Client{Timeout: 5 * time.Second},
		destBreaker: gobreaker.NewCircuitBreaker[[]Destination](settings("rate-api-destinations")),
		rateBreaker: gobreaker.NewCircuitBreaker[[]CourierRate](settings("rate-api-rates")),
	}
}

// Destinations fetches the city catalog. Near-static data, cached by the
// engine for 24h.
func (c *RateClient) Destinations(ctx context.Context) ([]Destination, error) {
	return c.destBreaker.Execute(func() ([]Destination, error) {
		var out struct {
			Data []Destination `json:"data"`
		}
		if err := c.get(ctx, "/v1/destinations", nil, &out); err != nil {
			return nil, err
		}
		return out.Data, nil
	})
}

// Rates prices a route for a parcel weight. Quotes are never cached here:
// prices depend on the live weight/destination pair and may carry promos.
func (c *RateClient) Rates(ctx context.Context, originID, destinationID string, weightKg float64) ([]CourierRate, error) {
	return c.rateBreaker.Execute(func() ([]CourierRate, error) {
		query := url.Values{
			"origin":      {originID},
			"destination": {destinationID},
			"weight":      {strconv.FormatInt(int64(weightKg*1000), 10)}, // grams
		}
		var out struct {
			Data []CourierRate `json:"data"`
		}
		if err := c.get(ctx, "/v1/rates", query, &out); err != nil {
			return nil, err
		}
		return out.Data, nil
	})
}

func (c *RateClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRateAPIUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRateAPIUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrRateAPIUnavailable, err)
	}
	return nil
}
