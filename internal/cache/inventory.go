package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ListingKeyPrefix   = "listing:%d"
	CategoriesKey      = "categories:all"
	ActiveListingsKey  = "listings:active"
	WatchlistKeyPrefix = "watchlist:%d"
)

const (
	ListingTTL    = 5 * time.Minute
	CategoriesTTL = 10 * time.Minute
	WatchlistTTL  = 2 * time.Minute
)

func ListingKey(listingID uint) string {
	return fmt.Sprintf(ListingKeyPrefix, listingID)
}

func WatchlistKey(userID uint) string {
	return fmt.Sprintf(WatchlistKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateListing drops a listing's detail entry. Called after any accepted
// bid, close, or comment so readers never see a stale current price.
func InvalidateListing(ctx context.Context, listingID uint) {
	Invalidate(ctx, ListingKey(listingID))
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesKey)
}

func InvalidateWatchlist(ctx context.Context, userID uint) {
	Invalidate(ctx, WatchlistKey(userID))
}
