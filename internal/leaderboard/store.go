// Package leaderboard persists submitted scores in SQLite.
package leaderboard

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"crypto-rush/internal/game"
)

// Store is the SQLite-backed leaderboard.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS leaderboard (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT NOT NULL,
        score REAL NOT NULL,
        trades INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_score ON leaderboard(score DESC);
    `
	_, err := s.db.Exec(query)
	return err
}

// SaveScore inserts one submitted result.
func (s *Store) SaveScore(result game.Result) error {
	query := `INSERT INTO leaderboard (username, score, trades) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, result.Username, result.Score, result.TradesCount); err != nil {
		s.logger.Error("failed to save score", zap.Error(err))
		return err
	}

	s.logger.Info("score saved",
		zap.String("username", result.Username),
		zap.Float64("score", result.Score),
	)
	return nil
}

// TopScores returns up to limit entries, best-first.
func (s *Store) TopScores(limit int) ([]game.LeaderboardEntry, error) {
	query := `
        SELECT id, username, score, trades, created_at
        FROM leaderboard
        ORDER BY score DESC
        LIMIT ?
    `
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []game.LeaderboardEntry
	for rows.Next() {
		var e game.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &e.Trades, &e.CreatedAt); err != nil {
			s.logger.Error("failed to scan row", zap.Error(err))
			continue
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// PruneOlderThan removes entries created before the cutoff. Returns the
// number of deleted rows.
func (s *Store) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM leaderboard WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned leaderboard entries", zap.Int64("deleted", n))
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
