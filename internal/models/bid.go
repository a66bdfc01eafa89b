package models

import "time"

// Bid is an immutable offer on a listing. A new bid is always a new record,
// never an edit; the full per-listing history is kept via ListingID.
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	BidderID  uint      `gorm:"not null;index" json:"bidder_id"`
	Bidder    User      `gorm:"foreignKey:BidderID" json:"bidder"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}
