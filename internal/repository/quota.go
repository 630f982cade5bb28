package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brandgen/brandgen-go/internal/quota"
)

var ErrNoDatabase = errors.New("quota repository has no database")

const createQuotaTable = `CREATE TABLE IF NOT EXISTS quota_records (
	identity     CHAR(64)    NOT NULL PRIMARY KEY,
	hits         INT         NOT NULL,
	window_start DATETIME(6) NOT NULL
)`

// Resets the row when its window has elapsed. MySQL applies assignments left
// to right, so window_start is still the old value when hits is evaluated.
const upsertQuotaHit = `INSERT INTO quota_records (identity, hits, window_start) VALUES (?, 1, ?)
ON DUPLICATE KEY UPDATE
	hits = IF(window_start <= ?, 1, hits + 1),
	window_start = IF(window_start <= ?, VALUES(window_start), window_start)`

const selectQuotaRecord = `SELECT hits, window_start FROM quota_records WHERE identity = ?`

// QuotaRepository is a quota.Store backed by MySQL.
type QuotaRepository struct {
	db *sql.DB
}

// NewQuotaRepository creates a new QuotaRepository.
func NewQuotaRepository(db *sql.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

// EnsureSchema creates the quota table if it does not exist.
func (r *QuotaRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	_, err := r.db.ExecContext(ctx, createQuotaTable)
	return err
}

// Hit implements quota.Store. The upsert and read share a transaction so the
// row lock taken by the insert covers the read.
func (r *QuotaRepository) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (quota.Record, error) {
	if r.db == nil {
		return quota.Record{}, ErrNoDatabase
	}

	now = now.UTC()
	cutoff := now.Add(-window)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return quota.Record{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertQuotaHit, key, now, cutoff, cutoff); err != nil {
		return quota.Record{}, fmt.Errorf("upsert: %w", err)
	}

	var rec quota.Record
	if err := tx.QueryRowContext(ctx, selectQuotaRecord, key).Scan(&rec.Count, &rec.WindowStart); err != nil {
		return quota.Record{}, fmt.Errorf("select: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return quota.Record{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}
