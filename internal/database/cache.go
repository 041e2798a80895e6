package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

// PageCacheRepo implements domain.PageCacheRepo
type PageCacheRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewPageCacheRepo creates a new cache metadata repository
func NewPageCacheRepo(log zerolog.Logger, db *DB) domain.PageCacheRepo {
	return &PageCacheRepo{
		log: log.With().Str("repo", "page_cache").Logger(),
		db:  db,
	}
}

// Upsert inserts or replaces the metadata row for a cached page
func (r *PageCacheRepo) Upsert(ctx context.Context, entry *domain.PageCacheEntry) error {
	queryBuilder := r.db.squirrel.
		Replace("page_cache").
		Columns("url", "key", "size", "status", "fetched_at").
		Values(entry.URL, entry.Key, entry.Size, entry.Status, entry.FetchedAt.Format(time.RFC3339))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Upsert")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// Get returns the metadata row for a URL, or nil when absent.
func (r *PageCacheRepo) Get(ctx context.Context, url string) (*domain.PageCacheEntry, error) {
	queryBuilder := r.db.squirrel.
		Select("url", "key", "size", "status", "fetched_at").
		From("page_cache").
		Where(sq.Eq{"url": url})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Get")

	entry := &domain.PageCacheEntry{}
	var fetchedAt string
	err = r.db.handler.QueryRowContext(ctx, query, args...).
		Scan(&entry.URL, &entry.Key, &entry.Size, &entry.Status, &fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "error scanning row")
	}

	if t, perr := time.Parse(time.RFC3339, fetchedAt); perr == nil {
		entry.FetchedAt = t
	}

	return entry, nil
}

// Count returns the number of cached pages
func (r *PageCacheRepo) Count(ctx context.Context) (int, error) {
	query, args, err := r.db.squirrel.
		Select("COUNT(*)").
		From("page_cache").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "error building query")
	}

	var count int
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "error executing query")
	}

	return count, nil
}

// TotalBytes returns the summed size of all cached bodies
func (r *PageCacheRepo) TotalBytes(ctx context.Context) (int64, error) {
	query, args, err := r.db.squirrel.
		Select("COALESCE(SUM(size), 0)").
		From("page_cache").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "error building query")
	}

	var total int64
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "error executing query")
	}

	return total, nil
}

// Delete removes the metadata row for a URL
func (r *PageCacheRepo) Delete(ctx context.Context, url string) error {
	query, args, err := r.db.squirrel.
		Delete("page_cache").
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Delete")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	return nil
}

// Clear removes all metadata rows, used by rebuild.
func (r *PageCacheRepo) Clear(ctx context.Context) error {
	query, _, err := r.db.squirrel.
		Delete("page_cache").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	_, err = r.db.handler.ExecContext(ctx, query)
	if err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	return nil
}
