package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jira-chat-relay/pkg/directory"
)

func TestClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.URL.Query().Get("email") == "alice@example.com":
			w.Write([]byte(`{"id": "u1", "username": "alice", "displayName": "Alice A", "email": "alice@example.com"}`))
		case r.URL.Query().Get("username") == "alice":
			w.Write([]byte(`{"id": "u1", "username": "alice", "displayName": "Alice A", "email": "alice@example.com"}`))
		case r.URL.Query().Get("email") == "boom@example.com":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := directory.NewClient(directory.Config{Token: "test-token"})
	client.SetAPIURL(ts.URL)

	ctx := context.Background()

	t.Run("LookupByEmail Found", func(t *testing.T) {
		user, err := client.LookupByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil || user.ID != "u1" || user.Name != "alice" || user.DisplayName != "Alice A" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("LookupByUsername Found", func(t *testing.T) {
		user, err := client.LookupByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil || user.Email != "alice@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("Absent User Is Nil Not Error", func(t *testing.T) {
		user, err := client.LookupByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
	})

	t.Run("Server Failure Is Error", func(t *testing.T) {
		_, err := client.LookupByEmail(ctx, "boom@example.com")
		if err == nil {
			t.Fatal("expected error on 500")
		}
	})

	t.Run("Missing Token Rejected", func(t *testing.T) {
		anon := directory.NewClient(directory.Config{})
		anon.SetAPIURL(ts.URL)
		if _, err := anon.LookupByEmail(ctx, "alice@example.com"); err == nil {
			t.Fatal("expected error on 401")
		}
	})
}
