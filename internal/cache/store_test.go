package cache

import (
	"context"
	"testing"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "groups", []string{"a", "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got []string
	hit, err := store.Get(ctx, "groups", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestMemoryStore_GetMiss(t *testing.T) {
	store := NewMemoryStore()

	var got []string
	hit, err := store.Get(context.Background(), "absent", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected a miss for an absent key")
	}
}

// Clear removes the exact key and every prefixed key, and leaves unrelated
// families alone: clearing "posts" must not touch "post-1".
func TestMemoryStore_ClearPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, key := range []string{"posts", "posts-page-2", "post-1", "profile-7"} {
		if err := store.Set(ctx, key, key); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	if err := store.Clear(ctx, "posts"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	var v string
	if hit, _ := store.Get(ctx, "posts", &v); hit {
		t.Error("posts should be cleared")
	}
	if hit, _ := store.Get(ctx, "posts-page-2", &v); hit {
		t.Error("posts-page-2 should be cleared")
	}
	if hit, _ := store.Get(ctx, "post-1", &v); !hit {
		t.Error("post-1 should survive clearing the posts family")
	}
	if hit, _ := store.Get(ctx, "profile-7", &v); !hit {
		t.Error("profile-7 should survive clearing the posts family")
	}
}

// Clearing "profile" sweeps the per-user variants too.
func TestMemoryStore_ClearFamilyVariants(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "profile-1", "a")
	_ = store.Set(ctx, "profile-2", "b")

	if err := store.Clear(ctx, "profile"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("entries remaining = %d, want 0", store.Len())
	}
}

func TestMemoryStore_ClearAll(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "groups", "a")
	_ = store.Set(ctx, "events", "b")

	if err := store.Clear(ctx, ""); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("entries remaining = %d, want 0", store.Len())
	}
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "tags", []string{"old"})
	_ = store.Set(ctx, "tags", []string{"new"})

	var got []string
	if hit, _ := store.Get(ctx, "tags", &got); !hit {
		t.Fatal("expected a hit")
	}
	if got[0] != "new" {
		t.Errorf("got %v, want the overwritten value", got)
	}
}
