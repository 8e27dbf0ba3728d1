package shipping

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"tokomaterial/logging"
	"tokomaterial/models"
)

var ErrUnknownDestination = errors.New("unknown destination")

// Quote is the priced result for one (origin, destination, weight) request.
// Warning is set when third-party couriers could not be priced but local
// fleet options still apply.
type Quote struct {
	Options []models.ShippingOption `json:"options"`
	Warning string                  `json:"warning,omitempty"`
}

// Engine combines the store fleet's flat-rate table with the external rate
// API. It owns its caches; nothing here is ambient package state.
type Engine struct {
	client   *RateClient
	originID string
	catalog  destinationCache
	quotes   *QuoteCache
	log      *slog.Logger
}

func NewEngine(client *RateClient, originID string, quotes *QuoteCache) *Engine {
	return &Engine{
		client:   client,
		originID: originID,
		quotes:   quotes,
		log:      logging.New("shipping"),
	}
}

// Quote prices every applicable shipping option for a destination and
// weight. Local fleet options come first, third-party options follow sorted
// by ascending cost. A rate API failure degrades to local-only with a
// warning; the call fails hard only when the destination is unknown both
// locally and remotely, or nothing at all could be priced.
func (e *Engine) Quote(ctx context.Context, destinationID string, weightKg float64) (*Quote, error) {
	if cached, ok := e.quotes.Get(ctx, e.originID, destinationID, weightKg); ok {
		return cached, nil
	}

	options := LocalOptions(destinationID, weightKg)

	quote, err := e.remoteOptions(ctx, destinationID, weightKg, options)
	if err != nil {
		return nil, err
	}

	// Degraded quotes are not cached so a retry can pick up the couriers
	// once the API recovers.
	if quote.Warning == "" {
		e.quotes.Set(ctx, e.originID, destinationID, weightKg, quote)
	}
	return quote, nil
}

func (e *Engine) remoteOptions(ctx context.Context, destinationID string, weightKg float64, local []models.ShippingOption) (*Quote, error) {
	_, known, err := e.catalog.lookup(ctx, e.client, destinationID)
	if err != nil {
		if len(local) == 0 {
			return nil, err
		}
		e.log.Warn("destination catalog unavailable, local fleet only", "destination", destinationID, "err", err)
		return &Quote{Options: local, Warning: "third-party couriers unavailable"}, nil
	}
	if !known {
		if len(local) == 0 {
			return nil, ErrUnknownDestination
		}
		return &Quote{Options: local}, nil
	}

	rates, err := e.client.Rates(ctx, e.originID, destinationID, weightKg)
	if err != nil {
		if len(local) == 0 {
			return nil, err
		}
		e.log.Warn("rate api failed, local fleet only", "destination", destinationID, "err", err)
		return &Quote{Options: local, Warning: "third-party couriers unavailable"}, nil
	}

	remote := make([]models.ShippingOption, 0, len(rates))
	for _, r := range rates {
		remote = append(remote, models.ShippingOption{
			CourierCode: r.CourierCode,
			ServiceName: r.Service,
			Cost:        r.Cost,
			EtaDays:     r.EtaDays,
		})
	}
	sort.Slice(remote, func(i, j int) bool { return remote[i].Cost < remote[j].Cost })

	all := append(local, remote...)
	if len(all) == 0 {
		return nil, ErrUnknownDestination
	}
	return &Quote{Options: all}, nil
}
