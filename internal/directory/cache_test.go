package directory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jira-chat-relay/internal/directory"
	"jira-chat-relay/internal/model"
)

type countingDirectory struct {
	emailCalls int
	nameCalls  int
	user       *model.User
	err        error
}

func (d *countingDirectory) LookupByEmail(ctx context.Context, email string) (*model.User, error) {
	d.emailCalls++
	return d.user, d.err
}

func (d *countingDirectory) LookupByUsername(ctx context.Context, username string) (*model.User, error) {
	d.nameCalls++
	return d.user, d.err
}

func TestCached(t *testing.T) {
	ctx := context.Background()

	t.Run("Hit Served From Cache", func(t *testing.T) {
		next := &countingDirectory{user: &model.User{ID: "1", Name: "alice"}}
		cached := directory.NewCached(next, 16, time.Minute)

		for i := 0; i < 3; i++ {
			u, err := cached.LookupByEmail(ctx, "alice@example.com")
			if err != nil || u == nil || u.Name != "alice" {
				t.Fatalf("unexpected result: %v, %v", u, err)
			}
		}
		if next.emailCalls != 1 {
			t.Errorf("expected 1 upstream call, got %d", next.emailCalls)
		}
	})

	t.Run("Miss Is Cached Too", func(t *testing.T) {
		next := &countingDirectory{}
		cached := directory.NewCached(next, 16, time.Minute)

		for i := 0; i < 3; i++ {
			u, err := cached.LookupByUsername(ctx, "ghost")
			if err != nil || u != nil {
				t.Fatalf("unexpected result: %v, %v", u, err)
			}
		}
		if next.nameCalls != 1 {
			t.Errorf("expected 1 upstream call, got %d", next.nameCalls)
		}
	})

	t.Run("Errors Not Cached", func(t *testing.T) {
		next := &countingDirectory{err: errors.New("directory down")}
		cached := directory.NewCached(next, 16, time.Minute)

		for i := 0; i < 2; i++ {
			if _, err := cached.LookupByEmail(ctx, "x@example.com"); err == nil {
				t.Fatal("expected error")
			}
		}
		if next.emailCalls != 2 {
			t.Errorf("expected 2 upstream calls, got %d", next.emailCalls)
		}
	})
}
