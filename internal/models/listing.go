package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing is an item offered for auction.
//
// CurrentBidID is denormalized: it always points at the highest accepted bid
// and is reassigned in the same transaction that inserts the bid. Version is
// an optimistic-lock counter bumped on every accepted bid and on close, so
// concurrent bid transitions on the same listing cannot both win.
type Listing struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	ImageURL    string   `json:"image_url"`
	OwnerID     uint     `gorm:"not null;index" json:"owner_id"`
	Owner       User     `gorm:"foreignKey:OwnerID" json:"owner"`
	CategoryID  uint     `gorm:"not null;index" json:"category_id"`
	Category    Category `gorm:"foreignKey:CategoryID" json:"category"`
	IsActive    bool     `gorm:"not null;default:true" json:"is_active"`
	CurrentBidID *uint   `json:"current_bid_id,omitempty"`
	CurrentBid   *Bid    `gorm:"foreignKey:CurrentBidID" json:"current_bid,omitempty"`
	Version     uint     `gorm:"not null;default:0" json:"-"`

	Bids     []Bid  `gorm:"foreignKey:ListingID" json:"bids,omitempty"`
	Watchers []User `gorm:"many2many:watchlists" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CurrentPrice returns the amount of the current bid, or zero when the
// listing has no bid yet (never the case for listings created through the
// service, which always author an opening bid).
func (l *Listing) CurrentPrice() float64 {
	if l.CurrentBid == nil {
		return 0
	}
	return l.CurrentBid.Amount
}
