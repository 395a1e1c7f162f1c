package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newRedisTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	st, err := NewRedisStore(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st, mr
}

func TestMemoryBindLookupUnbind(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.Bind(ctx, "p1", "r1", 0); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	room, err := st.Lookup(ctx, "p1")
	if err != nil || room != "r1" {
		t.Fatalf("Lookup: got %q err %v", room, err)
	}
	if err := st.Unbind(ctx, "p1"); err != nil {
		t.Fatalf("Unbind: %v", err)
	}
	room, err = st.Lookup(ctx, "p1")
	if err != nil || room != "" {
		t.Fatalf("expected empty after unbind, got %q err %v", room, err)
	}
}

func TestMemoryRebindLatestWins(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	_ = st.Bind(ctx, "p1", "r1", 0)
	_ = st.Bind(ctx, "p1", "r2", 0)
	room, _ := st.Lookup(ctx, "p1")
	if room != "r2" {
		t.Fatalf("expected latest binding r2, got %q", room)
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	st := NewMemoryStore().(*memstore)
	base := time.Now()
	st.now = func() time.Time { return base }
	ctx := context.Background()

	_ = st.Bind(ctx, "p1", "r1", time.Minute)
	if room, _ := st.Lookup(ctx, "p1"); room != "r1" {
		t.Fatalf("expected live binding, got %q", room)
	}
	st.now = func() time.Time { return base.Add(2 * time.Minute) }
	if room, _ := st.Lookup(ctx, "p1"); room != "" {
		t.Fatalf("expected expired binding, got %q", room)
	}
}

func TestRedisBindLookupUnbind(t *testing.T) {
	st, _ := newRedisTestStore(t)
	ctx := context.Background()

	if err := st.Bind(ctx, "p1", "r1", 0); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	room, err := st.Lookup(ctx, "p1")
	if err != nil || room != "r1" {
		t.Fatalf("Lookup: got %q err %v", room, err)
	}
	if err := st.Unbind(ctx, "p1"); err != nil {
		t.Fatalf("Unbind: %v", err)
	}
	if room, _ := st.Lookup(ctx, "p1"); room != "" {
		t.Fatalf("expected empty after unbind, got %q", room)
	}
}

func TestRedisTTLExpiry(t *testing.T) {
	st, mr := newRedisTestStore(t)
	ctx := context.Background()

	if err := st.Bind(ctx, "p1", "r1", 30*time.Second); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	mr.FastForward(time.Minute)
	if room, _ := st.Lookup(ctx, "p1"); room != "" {
		t.Fatalf("expected expired binding, got %q", room)
	}
}
