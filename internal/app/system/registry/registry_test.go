package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dalemusser/clanboard/internal/domain/status"
	"go.uber.org/zap"
)

type fakeMirror struct {
	mu      sync.Mutex
	rows    map[string]string
	upserts int
	deletes int
	failAll bool
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{rows: make(map[string]string)}
}

func (f *fakeMirror) Upsert(_ context.Context, userID, s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.failAll {
		return errors.New("mirror down")
	}
	f.rows[userID] = s
	return nil
}

func (f *fakeMirror) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.failAll {
		return errors.New("mirror down")
	}
	delete(f.rows, userID)
	return nil
}

func (f *fakeMirror) row(userID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[userID]
	return s, ok
}

func TestRegistry_SetGetClear(t *testing.T) {
	ctx := context.Background()
	m := newFakeMirror()
	r := New(m, zap.NewNop())

	if _, had := r.Get("42"); had {
		t.Error("Get on empty registry reported a status")
	}

	prev, had := r.Set(ctx, "42", status.Studying)
	if had {
		t.Errorf("first Set reported previous status %q", prev)
	}
	if v, ok := r.Get("42"); !ok || v != status.Studying {
		t.Errorf("Get = %q, %v; want Studying, true", v, ok)
	}
	if s, ok := m.row("42"); !ok || s != string(status.Studying) {
		t.Errorf("mirror row = %q, %v", s, ok)
	}

	prev, had = r.Set(ctx, "42", status.Sleeping)
	if !had || prev != status.Studying {
		t.Errorf("second Set previous = %q, %v; want Studying, true", prev, had)
	}
	if v, _ := r.Get("42"); v != status.Sleeping {
		t.Errorf("Get after overwrite = %q, want Sleeping", v)
	}

	if !r.Clear(ctx, "42") {
		t.Error("Clear of present status reported no-op")
	}
	if _, had := r.Get("42"); had {
		t.Error("status survived Clear")
	}
	if _, ok := m.row("42"); ok {
		t.Error("mirror row survived Clear")
	}
}

func TestRegistry_ClearAbsentIsReportedNoop(t *testing.T) {
	m := newFakeMirror()
	r := New(m, zap.NewNop())

	if r.Clear(context.Background(), "42") {
		t.Error("Clear of absent status reported present")
	}
	if m.deletes != 0 {
		t.Errorf("mirror deletes = %d, want 0 for a no-op clear", m.deletes)
	}
}

func TestRegistry_MirrorFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	m := newFakeMirror()
	m.failAll = true
	r := New(m, zap.NewNop())

	r.Set(ctx, "42", status.Free)
	if v, ok := r.Get("42"); !ok || v != status.Free {
		t.Errorf("in-memory state = %q, %v; must stand despite mirror failure", v, ok)
	}

	if !r.Clear(ctx, "42") {
		t.Error("Clear reported no-op despite the status being present")
	}
	if _, had := r.Get("42"); had {
		t.Error("in-memory clear rolled back on mirror failure")
	}
}

func TestRegistry_LastWriteWinsSequence(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeMirror(), zap.NewNop())

	r.Set(ctx, "u", status.Studying)
	r.Set(ctx, "u", status.Break)
	r.Clear(ctx, "u")
	r.Set(ctx, "u", status.Outside)

	if v, ok := r.Get("u"); !ok || v != status.Outside {
		t.Errorf("Get = %q, %v; want the last un-cleared Set", v, ok)
	}

	r.Clear(ctx, "u")
	if _, ok := r.Get("u"); ok {
		t.Error("Get reported a status after a trailing Clear")
	}
}

func TestRegistry_Snapshot(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeMirror(), zap.NewNop())
	r.Set(ctx, "a", status.Free)
	r.Set(ctx, "b", status.Sleeping)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len(Snapshot) = %d, want 2", len(snap))
	}

	// Snapshot is a copy: later mutations don't show through.
	r.Clear(ctx, "a")
	if len(snap) != 2 {
		t.Error("snapshot changed after registry mutation")
	}

	seen := make(map[string]status.Value)
	for _, us := range snap {
		seen[us.UserID] = us.Status
	}
	if seen["a"] != status.Free || seen["b"] != status.Sleeping {
		t.Errorf("snapshot contents = %v", seen)
	}
}

func TestRegistry_Hydrate(t *testing.T) {
	r := New(newFakeMirror(), zap.NewNop())
	r.Hydrate([]Record{
		{UserID: "1", Status: string(status.Studying)},
		{UserID: "2", Status: "not-a-status"}, // skipped, not fatal
		{UserID: "3", Status: string(status.Outside)},
	})

	if v, ok := r.Get("1"); !ok || v != status.Studying {
		t.Errorf("hydrated user 1 = %q, %v", v, ok)
	}
	if _, ok := r.Get("2"); ok {
		t.Error("unparseable row was hydrated")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRegistry_DropUnresolvable(t *testing.T) {
	ctx := context.Background()
	m := newFakeMirror()
	r := New(m, zap.NewNop())
	r.Set(ctx, "7", status.Break)

	r.DropUnresolvable(ctx, "7")
	if _, ok := r.Get("7"); ok {
		t.Error("user survived DropUnresolvable")
	}
	if _, ok := m.row("7"); ok {
		t.Error("mirror row survived DropUnresolvable")
	}

	// Dropping an absent user touches nothing.
	deletes := m.deletes
	r.DropUnresolvable(ctx, "7")
	if m.deletes != deletes {
		t.Error("DropUnresolvable of absent user hit the mirror")
	}
}

func TestRegistry_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeMirror(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Set(ctx, "u", status.Free)
			r.Snapshot()
			r.Get("u")
		}(i)
	}
	wg.Wait()

	if v, ok := r.Get("u"); !ok || v != status.Free {
		t.Errorf("final state = %q, %v", v, ok)
	}
}
