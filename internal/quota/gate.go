// Package quota bounds how many generation calls a client identity may make
// inside a fixed time window.
package quota

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brandgen/brandgen-go/internal/crypto"
)

const (
	DefaultLimit  = 3
	DefaultWindow = time.Hour
)

// Record is the per-identity counter state. The window starts at the first
// hit and is replaced once now >= WindowStart+window.
type Record struct {
	Count       int
	WindowStart time.Time
}

// Store atomically counts a hit for key and returns the resulting record.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Record, error)
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Gate admits at most limit calls per identity per window.
type Gate struct {
	store  Store
	limit  int
	window time.Duration
	salt   []byte
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Gate)

func WithLimit(n int) Option {
	return func(g *Gate) { g.limit = n }
}

func WithWindow(d time.Duration) Option {
	return func(g *Gate) { g.window = d }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithSalt keys the identity hash so digests cannot be matched across deployments.
func WithSalt(salt string) Option {
	return func(g *Gate) { g.salt = []byte(salt) }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

func NewGate(store Store, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		limit:  DefaultLimit,
		window: DefaultWindow,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.limit < 1 {
		g.limit = DefaultLimit
	}
	if g.window <= 0 {
		g.window = DefaultWindow
	}
	return g
}

func (g *Gate) Limit() int { return g.limit }
func (g *Gate) Window() time.Duration { return g.window }

// Allow counts an attempt for identity and reports whether it is admitted.
func (g *Gate) Allow(ctx context.Context, identity string) (Decision, error) {
	now := g.now()
	rec, err := g.store.Hit(ctx, crypto.HashIdentity(identity, g.salt), now, g.window)
	if err != nil {
		return Decision{}, fmt.Errorf("quota hit: %w", err)
	}

	remaining := g.limit - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   rec.Count <= g.limit,
		Limit:     g.limit,
		Remaining: remaining,
		ResetAt:   rec.WindowStart.Add(g.window),
	}, nil
}

// Admit is Allow reduced to a boolean. Store failures admit the call and are
// logged; quota is abuse protection and must not take generation down.
func (g *Gate) Admit(ctx context.Context, identity string) bool {
	dec, err := g.Allow(ctx, identity)
	if err != nil {
		g.logger.Error("quota store failed, admitting request", "error", err)
		return true
	}
	return dec.Allowed
}
