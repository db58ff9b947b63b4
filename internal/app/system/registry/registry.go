// Package registry holds the in-memory status map, the single source of
// truth for the lifetime of the process.
//
// Every mutation is mirrored into a durable store, but mirror failures
// never roll back or block the in-memory transition: the user sees their
// status change immediately and the write failure is logged for the
// operator. The registry is hydrated from the mirror once at startup.
package registry

import (
	"context"
	"sync"

	"github.com/dalemusser/clanboard/internal/domain/status"
	"go.uber.org/zap"
)

// UserStatus is one live entry: a user and their current status.
type UserStatus struct {
	UserID string
	Status status.Value
}

// Mirror is the durable side of the registry. Implemented by the Mongo
// status store; faked in tests.
type Mirror interface {
	Upsert(ctx context.Context, userID, status string) error
	Delete(ctx context.Context, userID string) error
}

// Record is one row read back from the durable store for hydration.
type Record struct {
	UserID string
	Status string
}

// Registry is the authoritative in-memory user→status map. Safe for
// concurrent use; the platform library dispatches events on multiple
// goroutines.
type Registry struct {
	mu       sync.Mutex
	statuses map[string]status.Value

	mirror Mirror
	logger *zap.Logger
}

// New creates an empty registry backed by the given mirror.
func New(mirror Mirror, logger *zap.Logger) *Registry {
	return &Registry{
		statuses: make(map[string]status.Value),
		mirror:   mirror,
		logger:   logger,
	}
}

// Hydrate loads persisted entries into memory. The caller reads the rows
// from the store once at startup. Rows whose stored status no longer
// parses are skipped and logged, not treated as fatal.
func (r *Registry) Hydrate(records []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		v, ok := status.Parse(rec.Status)
		if !ok {
			r.logger.Warn("skipping unparseable stored status",
				zap.String("user_id", rec.UserID),
				zap.String("status", rec.Status))
			continue
		}
		r.statuses[rec.UserID] = v
	}

	r.logger.Info("hydrated status registry", zap.Int("entries", len(r.statuses)))
}

// Set upserts a user's status and returns the previous one, if any. The
// in-memory write always succeeds; the mirror write happens after and any
// failure is logged without rolling back.
func (r *Registry) Set(ctx context.Context, userID string, v status.Value) (prev status.Value, had bool) {
	r.mu.Lock()
	prev, had = r.statuses[userID]
	r.statuses[userID] = v
	r.mu.Unlock()

	if err := r.mirror.Upsert(ctx, userID, string(v)); err != nil {
		r.logger.Error("status mirror upsert failed; in-memory state stands",
			zap.String("user_id", userID),
			zap.String("status", string(v)),
			zap.Error(err))
	}
	return prev, had
}

// Clear removes a user's status and reports whether one was present.
// Clearing an absent entry is a reported no-op, not an error.
func (r *Registry) Clear(ctx context.Context, userID string) bool {
	r.mu.Lock()
	_, had := r.statuses[userID]
	delete(r.statuses, userID)
	r.mu.Unlock()

	if !had {
		return false
	}
	if err := r.mirror.Delete(ctx, userID); err != nil {
		r.logger.Error("status mirror delete failed; in-memory state stands",
			zap.String("user_id", userID),
			zap.Error(err))
	}
	return true
}

// Get returns the user's current status, if set.
func (r *Registry) Get(userID string) (status.Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.statuses[userID]
	return v, ok
}

// Snapshot returns a copy of all live entries. Iteration order is
// unspecified; ordering is the renderer's job.
func (r *Registry) Snapshot() []UserStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]UserStatus, 0, len(r.statuses))
	for id, v := range r.statuses {
		out = append(out, UserStatus{UserID: id, Status: v})
	}
	return out
}

// Len returns the number of live entries. Used by the drift audit job.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statuses)
}

// DropUnresolvable removes a user the renderer could not resolve to a
// display name (typically: they left the community) and deletes the
// mirrored row. Stale entries are pruned opportunistically at render
// time, not eagerly on membership events.
func (r *Registry) DropUnresolvable(ctx context.Context, userID string) {
	r.mu.Lock()
	_, had := r.statuses[userID]
	delete(r.statuses, userID)
	r.mu.Unlock()

	if !had {
		return
	}
	r.logger.Info("pruned unresolvable user from registry", zap.String("user_id", userID))
	if err := r.mirror.Delete(ctx, userID); err != nil {
		r.logger.Error("status mirror delete failed during prune",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
