// internal/chat/service_test.go

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/workswipe/workswipe-backend/internal/store"
)

func newTestService(t *testing.T) (Service, store.Store) {
	t.Helper()

	db := store.NewMemoryStore()
	t.Cleanup(func() { db.Close() })

	return NewService(NewRepository(db)), db
}

func seedMatch(t *testing.T, db store.Store, matchID string, users []string) {
	t.Helper()
	err := db.Set(context.Background(), store.MatchDoc(matchID), map[string]interface{}{
		"users":     users,
		"createdAt": store.ServerTimestamp,
		"lastMessage": map[string]interface{}{
			"text":      "You matched! Say hi.",
			"timestamp": store.ServerTimestamp,
		},
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
}

func TestSendMessage_AppendsAndUpdatesSummary(t *testing.T) {
	svc, db := newTestService(t)
	seedMatch(t, db, "a1_c1", []string{"a1", "c1"})

	msg, err := svc.SendMessage(context.Background(), "a1", "a1_c1", "  hello there  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg == nil {
		t.Fatal("message is nil")
	}
	if msg.Text != "hello there" {
		t.Errorf("text not trimmed: %q", msg.Text)
	}
	if msg.SenderID != "a1" {
		t.Errorf("senderId = %q", msg.SenderID)
	}
	if len(msg.MatchUsers) != 2 {
		t.Errorf("matchUsers = %v", msg.MatchUsers)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("returned message has an unresolved createdAt")
	}

	messages, err := svc.ListMessages(context.Background(), "c1", "a1_c1")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("message count = %d", len(messages))
	}
	if messages[0].CreatedAt.IsZero() {
		t.Error("createdAt not resolved")
	}

	match, err := db.Get(context.Background(), store.MatchDoc("a1_c1"))
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	lm, ok := match.Data["lastMessage"].(map[string]interface{})
	if !ok {
		t.Fatalf("lastMessage = %v", match.Data["lastMessage"])
	}
	if lm["text"] != "hello there" {
		t.Errorf("lastMessage.text = %v", lm["text"])
	}
	if match.Data["lastSender"] != "a1" {
		t.Errorf("lastSender = %v", match.Data["lastSender"])
	}
}

func TestSendMessage_BlankTextIsNoOp(t *testing.T) {
	svc, db := newTestService(t)
	seedMatch(t, db, "a1_c1", []string{"a1", "c1"})

	for _, text := range []string{"", "   ", "\n\t"} {
		msg, err := svc.SendMessage(context.Background(), "a1", "a1_c1", text)
		if err != nil {
			t.Errorf("SendMessage(%q) error: %v", text, err)
		}
		if msg != nil {
			t.Errorf("SendMessage(%q) produced a message", text)
		}
	}

	messages, _ := svc.ListMessages(context.Background(), "a1", "a1_c1")
	if len(messages) != 0 {
		t.Errorf("blank sends stored messages: %d", len(messages))
	}
}

func TestSendMessage_ParticipantCheck(t *testing.T) {
	svc, db := newTestService(t)
	seedMatch(t, db, "a1_c1", []string{"a1", "c1"})

	_, err := svc.SendMessage(context.Background(), "intruder", "a1_c1", "hi")
	if !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}

	_, err = svc.SendMessage(context.Background(), "a1", "missing", "hi")
	if !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestListMessages_OrderedOldestFirst(t *testing.T) {
	svc, db := newTestService(t)
	seedMatch(t, db, "a1_c1", []string{"a1", "c1"})

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		if _, err := svc.SendMessage(context.Background(), "a1", "a1_c1", text); err != nil {
			t.Fatalf("SendMessage(%q): %v", text, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	messages, err := svc.ListMessages(context.Background(), "c1", "a1_c1")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("message count = %d", len(messages))
	}
	for i, text := range texts {
		if messages[i].Text != text {
			t.Errorf("messages[%d] = %q, want %q", i, messages[i].Text, text)
		}
	}
}

func TestSubscribeMessages_DeliversUpdates(t *testing.T) {
	svc, db := newTestService(t)
	seedMatch(t, db, "a1_c1", []string{"a1", "c1"})

	updates := make(chan int, 8)
	cancel, err := svc.SubscribeMessages(context.Background(), "a1", "a1_c1", func(messages []*Message) {
		updates <- len(messages)
	})
	if err != nil {
		t.Fatalf("SubscribeMessages: %v", err)
	}
	defer cancel()

	// Initial snapshot
	if n := <-updates; n != 0 {
		t.Errorf("initial snapshot has %d messages", n)
	}

	if _, err := svc.SendMessage(context.Background(), "c1", "a1_c1", "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	select {
	case n := <-updates:
		if n != 1 {
			t.Errorf("update has %d messages", n)
		}
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}

func TestSubscribeMessages_ParticipantCheck(t *testing.T) {
	svc, db := newTestService(t)
	seedMatch(t, db, "a1_c1", []string{"a1", "c1"})

	_, err := svc.SubscribeMessages(context.Background(), "intruder", "a1_c1", func([]*Message) {})
	if !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("u1") {
			t.Fatalf("request %d denied", i)
		}
	}
	if limiter.Allow("u1") {
		t.Error("request over limit allowed")
	}
	if !limiter.Allow("u2") {
		t.Error("other key throttled")
	}
}
