package shipping

import (
	"fmt"
	"math"

	"tokomaterial/models"
)

const LocalCourierCode = "toko-armada"

// localZones maps rate-API city ids served by the store's own trucks to a
// distance tier. Zone 1 is same-city, zone 2 the surrounding regencies.
var localZones = map[string]int{
	"501": 1, // Kota Yogyakarta
	"419": 1, // Sleman
	"39":  2, // Bantul
	"135": 2, // Gunung Kidul
	"210": 2, // Kulon Progo
}

type weightBracket struct {
	maxKg float64
	flat  int64
}

// Flat rates per weight bracket; heavy loads above the last bracket pay a
// per-100kg overflow. Building materials routinely hit the top tiers.
var localBrackets = []weightBracket{
	{maxKg: 50, flat: 50_000},
	{maxKg: 200, flat: 120_000},
	{maxKg: 1000, flat: 350_000},
}

const (
	overflowPer100Kg   int64 = 40_000
	zone2Surcharge     int64 = 25_000
	zone2ExtraEtaDays        = 1
)

// LocalOptions prices the store fleet for a destination, nil when the
// destination is outside the fleet's zones. Never fails: the table is static.
func LocalOptions(destinationID string, weightKg float64) []models.ShippingOption {
	zone, ok := localZones[destinationID]
	if !ok {
		return nil
	}

	cost := localBrackets[len(localBrackets)-1].flat
	for _, b := range localBrackets {
		if weightKg <= b.maxKg {
			cost = b.flat
			break
		}
	}
	if top := localBrackets[len(localBrackets)-1].maxKg; weightKg > top {
		over := int64(math.Ceil((weightKg - top) / 100))
		cost += over * overflowPer100Kg
	}

	etaDays := 1
	if zone == 2 {
		cost += zone2Surcharge
		etaDays += zone2ExtraEtaDays
	}

	return []models.ShippingOption{{
		CourierCode:  LocalCourierCode,
		ServiceName:  fmt.Sprintf("Armada Toko (zona %d)", zone),
		Cost:         cost,
		EtaDays:      etaDays,
		IsLocalFleet: true,
	}}
}
