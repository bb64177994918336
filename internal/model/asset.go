package model

import "time"

// Asset is a tracked holding (real estate, brokerage position, vehicle).
// CurrentValue is the latest recorded value; every change is mirrored into
// the asset history log.
type Asset struct {
	PurchaseDate  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Name          string
	Notes         string
	AccountName   string
	AccountID     *int64
	CurrentValue  float64
	PurchaseValue float64
	ID            int64
}

// Gain returns the absolute gain since purchase.
func (a *Asset) Gain() float64 {
	return a.CurrentValue - a.PurchaseValue
}

// AssetValue is one point in an asset's append-only value log.
type AssetValue struct {
	RecordedAt time.Time
	AssetID    int64
	Value      float64
	ID         int64
}
