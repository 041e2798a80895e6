package domain

import (
	"context"
	"time"
)

// PageCacheEntry is the metadata row kept for each cached page body.
// The body itself lives as a file in the cache directory; this row exists
// for stats reporting and rebuild bookkeeping.
type PageCacheEntry struct {
	URL       string
	Key       string
	Size      int64
	Status    int
	FetchedAt time.Time
}

// PageCacheRepo defines the cache metadata database operations
type PageCacheRepo interface {
	Upsert(ctx context.Context, entry *PageCacheEntry) error
	Get(ctx context.Context, url string) (*PageCacheEntry, error)
	Count(ctx context.Context) (int, error)
	TotalBytes(ctx context.Context) (int64, error)
	Delete(ctx context.Context, url string) error
	Clear(ctx context.Context) error
}
