package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brandgen/brandgen-go/internal/quota"
)

var _ quota.Store = (*QuotaRepository)(nil)

func TestNewQuotaRepository(t *testing.T) {
	repo := NewQuotaRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil QuotaRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestQuotaRepositoryWithoutDB(t *testing.T) {
	repo := NewQuotaRepository(nil)

	if _, err := repo.Hit(context.Background(), "k", time.Now(), time.Hour); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("Hit() error = %v, want ErrNoDatabase", err)
	}
	if err := repo.EnsureSchema(context.Background()); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("EnsureSchema() error = %v, want ErrNoDatabase", err)
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrNoDatabase.Error() != "quota repository has no database" {
		t.Fatalf("unexpected error message: %s", ErrNoDatabase.Error())
	}
}
