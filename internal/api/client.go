// Package api is the HTTP client for the game backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"crypto-rush/internal/game"
)

// Client talks to the game backend over HTTP and WebSocket.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given server base URL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Start fetches a fresh set of price series and session parameters.
func (c *Client) Start(ctx context.Context) (*game.Data, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/game/start", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch game data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch game data: status %d", resp.StatusCode)
	}

	var data game.Data
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode game data: %w", err)
	}
	return &data, nil
}

type submitResponse struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
}

// Submit posts a finished session result. The returned score is computed
// server-side.
func (c *Client) Submit(ctx context.Context, result game.Result) (float64, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/game/submit", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("submit score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("submit score: status %d", resp.StatusCode)
	}

	var sr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("decode submit response: %w", err)
	}
	return sr.Score, nil
}

// Leaderboard fetches the current top scores.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]game.LeaderboardEntry, error) {
	u := fmt.Sprintf("%s/api/leaderboard?limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch leaderboard: status %d", resp.StatusCode)
	}

	var entries []game.LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}

// WatchLeaderboard subscribes to live leaderboard updates over WebSocket.
// The returned channel closes when the connection drops or ctx is done.
func (c *Client) WatchLeaderboard(ctx context.Context) (<-chan []game.LeaderboardEntry, error) {
	wsURL, err := c.websocketURL()
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	updates := make(chan []game.LeaderboardEntry, 8)
	go func() {
		defer close(updates)
		defer conn.Close()
		for {
			var entries []game.LeaderboardEntry
			if err := conn.ReadJSON(&entries); err != nil {
				return
			}
			select {
			case updates <- entries:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	return updates, nil
}

func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String(), nil
}
