package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type stubStore struct {
	values map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

type stubKeyer struct{}

func (stubKeyer) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func testManager() (*Manager, *stubStore) {
	store := newStubStore()
	return &Manager{store: store, keyer: stubKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	mgr, _ := testManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a refresh token")
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil || !ok {
		t.Fatalf("expected active session, got ok=%v err=%v", ok, err)
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	mgr, _ := testManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newID, newToken, err := mgr.Rotate(ctx, "jti-1", token)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newID == "jti-1" || newToken == token {
		t.Fatal("expected rotated identifiers")
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil || ok {
		t.Fatalf("expected old session revoked, got ok=%v err=%v", ok, err)
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	mgr, _ := testManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "jti-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, _, err := mgr.Rotate(ctx, "jti-1", "stolen"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	mgr, _ := testManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "jti-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil || ok {
		t.Fatalf("expected revoked session, got ok=%v err=%v", ok, err)
	}
}
