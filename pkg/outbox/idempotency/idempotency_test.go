package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubStore struct {
	values map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *stubStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *stubStore) IdempotencyKey(scope, id string) string {
	return "ao:idempotency:" + scope + ":" + id
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func TestCheckAndMarkProcessed(t *testing.T) {
	mgr, err := NewManager(newStubStore(), time.Hour)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	ctx := context.Background()
	eventID := uuid.New()

	seen, err := mgr.CheckAndMarkProcessed(ctx, "notifications", eventID)
	if err != nil || seen {
		t.Fatalf("first delivery should not be seen, got seen=%v err=%v", seen, err)
	}

	seen, err = mgr.CheckAndMarkProcessed(ctx, "notifications", eventID)
	if err != nil || !seen {
		t.Fatalf("redelivery should be seen, got seen=%v err=%v", seen, err)
	}
}

func TestDeleteReArmsEvent(t *testing.T) {
	mgr, err := NewManager(newStubStore(), time.Hour)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	ctx := context.Background()
	eventID := uuid.New()

	if _, err := mgr.CheckAndMarkProcessed(ctx, "notifications", eventID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Delete(ctx, "notifications", eventID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	seen, err := mgr.CheckAndMarkProcessed(ctx, "notifications", eventID)
	if err != nil || seen {
		t.Fatalf("expected event re-armed, got seen=%v err=%v", seen, err)
	}
}

func TestManagerValidation(t *testing.T) {
	if _, err := NewManager(nil, time.Hour); err == nil {
		t.Fatal("expected error for nil store")
	}
	mgr, _ := NewManager(newStubStore(), time.Hour)
	if _, err := mgr.CheckAndMarkProcessed(context.Background(), "", uuid.New()); err == nil {
		t.Fatal("expected error for empty consumer")
	}
	if _, err := mgr.CheckAndMarkProcessed(context.Background(), "notifications", uuid.Nil); err == nil {
		t.Fatal("expected error for nil event id")
	}
}
