// internal/store/memory_test.go

package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "users/u1", map[string]interface{}{"name": "Ada"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	doc, err := s.Get(ctx, "users/u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ID != "u1" {
		t.Errorf("expected ID u1, got %s", doc.ID)
	}
	if doc.Data["name"] != "Ada" {
		t.Errorf("expected name Ada, got %v", doc.Data["name"])
	}

	if _, err := s.Get(ctx, "users/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ServerTimestamp(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	before := time.Now().UTC()
	if err := s.Set(ctx, "users/u1", map[string]interface{}{
		"createdAt": ServerTimestamp,
		"lastMessage": map[string]interface{}{
			"timestamp": ServerTimestamp,
		},
	}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	after := time.Now().UTC()

	doc, err := s.Get(ctx, "users/u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	ts, ok := doc.Data["createdAt"].(time.Time)
	if !ok {
		t.Fatalf("createdAt not resolved to time.Time: %T", doc.Data["createdAt"])
	}
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", ts, before, after)
	}

	nested := doc.Data["lastMessage"].(map[string]interface{})
	if _, ok := nested["timestamp"].(time.Time); !ok {
		t.Errorf("nested sentinel not resolved: %T", nested["timestamp"])
	}
}

func TestMemoryStore_QueryFilterAndOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	docs := []struct {
		path string
		data map[string]interface{}
	}{
		{"users/u1/swipes/s1", map[string]interface{}{"likedUserId": "a", "timestamp": base}},
		{"users/u1/swipes/s2", map[string]interface{}{"likedUserId": "b", "timestamp": base.Add(time.Minute)}},
		{"users/u1/swipes/s3", map[string]interface{}{"passedUserId": "c", "timestamp": base.Add(2 * time.Minute)}},
	}
	for _, d := range docs {
		if err := s.Set(ctx, d.path, d.data); err != nil {
			t.Fatalf("Set %s: %v", d.path, err)
		}
	}

	got, err := s.GetAll(ctx, Query{
		Path:    "users/u1/swipes",
		Filters: []Filter{{Field: "likedUserId", Op: "==", Value: "b"}},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("expected [s2], got %v", got)
	}

	ordered, err := s.GetAll(ctx, Query{
		Path:    "users/u1/swipes",
		OrderBy: []Order{{Field: "timestamp", Desc: true}},
	})
	if err != nil {
		t.Fatalf("GetAll ordered: %v", err)
	}
	if len(ordered) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(ordered))
	}
	if ordered[0].ID != "s3" || ordered[2].ID != "s1" {
		t.Errorf("wrong order: %s, %s, %s", ordered[0].ID, ordered[1].ID, ordered[2].ID)
	}
}

func TestMemoryStore_QueryArrayContains(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "matches/a_b", map[string]interface{}{"users": []string{"a", "b"}})
	s.Set(ctx, "matches/c_d", map[string]interface{}{"users": []string{"c", "d"}})

	got, err := s.GetAll(ctx, Query{
		Path:    "matches",
		Filters: []Filter{{Field: "users", Op: "array-contains", Value: "a"}},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a_b" {
		t.Errorf("expected [a_b], got %v", got)
	}
}

func TestMemoryStore_QueryExcludesSubcollections(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "matches/a_b", map[string]interface{}{"users": []string{"a", "b"}})
	s.Set(ctx, "matches/a_b/messages/m1", map[string]interface{}{"text": "hi"})

	got, err := s.GetAll(ctx, Query{Path: "matches"})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected only the match doc, got %d docs", len(got))
	}
}

func TestMemoryStore_Subscribe(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var snapshots [][]Doc
	cancel, err := s.Subscribe(ctx, Query{Path: "users/u1/likesReceived"}, func(docs []Doc) {
		snapshots = append(snapshots, docs)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if len(snapshots) != 1 || len(snapshots[0]) != 0 {
		t.Fatalf("expected one empty initial snapshot, got %v", snapshots)
	}

	s.Set(ctx, "users/u1/likesReceived/x", map[string]interface{}{"swiperId": "x"})
	if len(snapshots) != 2 || len(snapshots[1]) != 1 {
		t.Fatalf("expected snapshot after write, got %v", snapshots)
	}

	cancel()
	s.Set(ctx, "users/u1/likesReceived/y", map[string]interface{}{"swiperId": "y"})
	if len(snapshots) != 2 {
		t.Errorf("listener fired after cancel")
	}
}

func TestMemoryStore_TransactionRollback(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := s.RunTransaction(ctx, func(tx Tx) error {
		tx.Set("users/u1", map[string]interface{}{"name": "Ada"})
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transaction error, got %v", err)
	}

	if _, err := s.Get(ctx, "users/u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("staged write leaked out of failed transaction")
	}
}

func TestMemoryStore_TransactionCommit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "users/u1/likesReceived/u2", map[string]interface{}{"swiperId": "u2"})

	err := s.RunTransaction(ctx, func(tx Tx) error {
		doc, err := tx.Get("users/u1/likesReceived/u2")
		if err != nil {
			return err
		}
		tx.Set("users/u1/savedProfiles/u2", doc.Data)
		tx.Delete("users/u1/likesReceived/u2")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTransaction: %v", err)
	}

	if _, err := s.Get(ctx, "users/u1/savedProfiles/u2"); err != nil {
		t.Errorf("saved doc missing after commit: %v", err)
	}
	if _, err := s.Get(ctx, "users/u1/likesReceived/u2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted doc still present after commit")
	}
}
