package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crypto-rush/internal/game"
)

func TestStart(t *testing.T) {
	data := game.Data{
		StartBalance: 10000,
		Duration:     180,
		Assets: []game.Asset{
			{Symbol: "BTC", Name: "Bitcoin", Prices: []game.PricePoint{{Timestamp: 0, Price: 50000}}},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/game/start" {
			t.Errorf("path = %s, want /api/game/start", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		json.NewEncoder(w).Encode(data)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got.StartBalance != 10000 || got.Duration != 180 {
		t.Errorf("got %+v", got)
	}
	if len(got.Assets) != 1 || got.Assets[0].Symbol != "BTC" {
		t.Errorf("assets = %+v", got.Assets)
	}
}

func TestSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var result game.Result
		if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Username != "bob" {
			t.Errorf("username = %q", result.Username)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "score": 105.5})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	score, err := client.Submit(context.Background(), game.Result{
		Username:     "bob",
		FinalBalance: 10550,
		TradesCount:  3,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if score != 105.5 {
		t.Errorf("score = %v, want 105.5", score)
	}
}

func TestSubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Submit(context.Background(), game.Result{Username: "bob"}); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestLeaderboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		json.NewEncoder(w).Encode([]game.LeaderboardEntry{
			{Username: "alice", Score: 140},
			{Username: "bob", Score: 110},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	entries, err := client.Leaderboard(context.Background(), 5)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].Username != "alice" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestWebsocketURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://rush.example.com", "wss://rush.example.com/ws"},
	}
	for _, tc := range cases {
		client := NewClient(tc.base)
		got, err := client.websocketURL()
		if err != nil {
			t.Fatalf("%s: %v", tc.base, err)
		}
		if got != tc.want {
			t.Errorf("websocketURL(%s) = %s, want %s", tc.base, got, tc.want)
		}
	}
}
