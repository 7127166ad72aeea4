package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"crypto-rush/internal/config"
	"crypto-rush/internal/pricegen"
	"crypto-rush/internal/server/ws"
)

// Server hosts the HTTP API and the leaderboard WebSocket feed.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	logger     *zap.Logger
}

// New assembles routes, middleware, and the WebSocket hub.
func New(cfg *config.Config, store ScoreStore, logger *zap.Logger) *Server {
	hub := ws.NewHub(logger)
	gen := pricegen.NewGenerator(0)
	handler := NewHandler(store, gen, cfg, logger, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/game/start", handler.GetGameData)
	mux.HandleFunc("POST /api/game/submit", handler.SubmitScore)
	mux.HandleFunc("GET /api/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /ws", hub.HandleWS)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	chain := corsMiddleware(loggingMiddleware(logger)(mux))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      chain,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		hub:    hub,
		logger: logger,
	}
}

// Hub exposes the WebSocket hub for external broadcasts.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Start blocks serving HTTP until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and closes the hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}
