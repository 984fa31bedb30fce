// Package storage provides SQLite-based persistence for scores, campaign
// level progress, and duel match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-dandelions/internal/duel"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// LevelProgressEntry is the persisted best result for one campaign level.
type LevelProgressEntry struct {
	GameID       string
	LevelID      int
	Completed    bool
	BestScore    int
	BestTimeSecs int
	BestStars    int
	UpdatedAt    time.Time
}

// DuelMatchResult represents the outcome of a Lawn Duel match.
type DuelMatchResult struct {
	ID             int64
	MatchID        string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // Empty if draw or disconnect
	EndReason      string
	Duration       int // Duration in seconds
	CreatedAt      time.Time
}

// defaultBestTime is the level_progress placeholder before any completion.
const defaultBestTime = 999

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS level_progress (
			game_id TEXT NOT NULL,
			level_id INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			best_time_secs INTEGER NOT NULL DEFAULT 999,
			best_stars INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (game_id, level_id)
		);

		CREATE TABLE IF NOT EXISTS duel_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_duel_matches_player1 ON duel_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_duel_matches_player2 ON duel_matches(player2_session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTimestamp converts a scanned created_at column to time.Time.
// The driver may hand back either a time.Time or its string form.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// UpsertLevelProgress folds a completed level run into the stored best.
// Keep-best semantics: the run replaces the stored score/time when its score
// is higher, or equal with a faster time. best_stars never decreases.
// Returns the resulting row.
func (s *Store) UpsertLevelProgress(gameID string, levelID, score, timeSecs, stars int) (LevelProgressEntry, error) {
	entry := LevelProgressEntry{
		GameID:       gameID,
		LevelID:      levelID,
		Completed:    true,
		BestScore:    score,
		BestTimeSecs: timeSecs,
		BestStars:    stars,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return entry, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var completed int
	var bestScore, bestTime, bestStars int
	err = tx.QueryRow(
		`SELECT completed, best_score, best_time_secs, best_stars
		 FROM level_progress
		 WHERE game_id = ? AND level_id = ?`,
		gameID, levelID,
	).Scan(&completed, &bestScore, &bestTime, &bestStars)

	switch err {
	case sql.ErrNoRows:
		// First completion of this level
	case nil:
		if completed == 1 && (score < bestScore || (score == bestScore && timeSecs >= bestTime)) {
			entry.BestScore = bestScore
			entry.BestTimeSecs = bestTime
		}
		if bestStars > stars {
			entry.BestStars = bestStars
		}
	default:
		return entry, fmt.Errorf("storage: cannot read level progress: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO level_progress (game_id, level_id, completed, best_score, best_time_secs, best_stars, updated_at)
		 VALUES (?, ?, 1, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(game_id, level_id) DO UPDATE SET
		   completed = 1,
		   best_score = excluded.best_score,
		   best_time_secs = excluded.best_time_secs,
		   best_stars = excluded.best_stars,
		   updated_at = CURRENT_TIMESTAMP`,
		gameID, levelID, entry.BestScore, entry.BestTimeSecs, entry.BestStars,
	)
	if err != nil {
		return entry, fmt.Errorf("storage: cannot save level progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entry, fmt.Errorf("storage: cannot commit level progress: %w", err)
	}

	return entry, nil
}

// LevelProgress retrieves the stored best for one level.
// Returns nil when the level has never been completed.
func (s *Store) LevelProgress(gameID string, levelID int) (*LevelProgressEntry, error) {
	var e LevelProgressEntry
	var completed int
	var updatedAt any

	err := s.db.QueryRow(
		`SELECT game_id, level_id, completed, best_score, best_time_secs, best_stars, updated_at
		 FROM level_progress
		 WHERE game_id = ? AND level_id = ?`,
		gameID, levelID,
	).Scan(&e.GameID, &e.LevelID, &completed, &e.BestScore, &e.BestTimeSecs, &e.BestStars, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level progress: %w", err)
	}

	e.Completed = completed == 1
	e.UpdatedAt = parseTimestamp(updatedAt)
	return &e, nil
}

// AllLevelProgress retrieves all stored level results for a game,
// ordered by level.
func (s *Store) AllLevelProgress(gameID string) ([]LevelProgressEntry, error) {
	rows, err := s.db.Query(
		`SELECT game_id, level_id, completed, best_score, best_time_secs, best_stars, updated_at
		 FROM level_progress
		 WHERE game_id = ?
		 ORDER BY level_id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level progress: %w", err)
	}
	defer rows.Close()

	var entries []LevelProgressEntry
	for rows.Next() {
		var e LevelProgressEntry
		var completed int
		var updatedAt any
		if err := rows.Scan(&e.GameID, &e.LevelID, &completed, &e.BestScore, &e.BestTimeSecs, &e.BestStars, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Completed = completed == 1
		e.UpdatedAt = parseTimestamp(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// TotalStars sums the best stars across all levels of a game.
func (s *Store) TotalStars(gameID string) (int, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(
		"SELECT SUM(best_stars) FROM level_progress WHERE game_id = ?",
		gameID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query total stars: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return int(total.Int64), nil
}

// SaveDuelMatch records the result of a Lawn Duel.
// Returns the ID of the inserted record.
func (s *Store) SaveDuelMatch(result DuelMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO duel_matches
		 (match_id, player1_session, player2_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.Player1Session,
		result.Player2Session,
		result.Score1,
		result.Score2,
		result.WinnerSession,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save duel match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentDuels retrieves the most recent duel matches.
func (s *Store) RecentDuels(limit int) ([]DuelMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM duel_matches
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duel matches: %w", err)
	}
	defer rows.Close()

	return scanDuelRows(rows)
}

// PlayerDuelHistory retrieves duel history for a specific session.
func (s *Store) PlayerDuelHistory(sessionID string, limit int) ([]DuelMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM duel_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player duels: %w", err)
	}
	defer rows.Close()

	return scanDuelRows(rows)
}

// scanDuelRows reads duel match rows into results.
func scanDuelRows(rows *sql.Rows) ([]DuelMatchResult, error) {
	var results []DuelMatchResult
	for rows.Next() {
		var result DuelMatchResult
		var createdAt any
		var winnerSession sql.NullString

		if err := rows.Scan(
			&result.ID,
			&result.MatchID,
			&result.Player1Session,
			&result.Player2Session,
			&result.Score1,
			&result.Score2,
			&winnerSession,
			&result.EndReason,
			&result.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winnerSession.Valid {
			result.WinnerSession = winnerSession.String
		}
		result.CreatedAt = parseTimestamp(createdAt)

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SaveDuelResult implements duel.ResultSaver.
// This adapter lets the coordinator save results without a storage dependency.
func (s *Store) SaveDuelResult(data duel.ResultData) error {
	result := DuelMatchResult{
		MatchID:        data.MatchID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	}
	_, err := s.SaveDuelMatch(result)
	return err
}

// Ensure Store implements ResultSaver
var _ duel.ResultSaver = (*Store)(nil)

// GameStats contains aggregated statistics for a game mode.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game mode.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for every game mode with recorded scores.
func (s *Store) GetAllGamesStats() ([]*GameStats, error) {
	rows, err := s.db.Query(`SELECT DISTINCT game_id FROM scores ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list games: %w", err)
	}
	defer rows.Close()

	var gameIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan game id: %w", err)
		}
		gameIDs = append(gameIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	stats := make([]*GameStats, 0, len(gameIDs))
	for _, id := range gameIDs {
		st, err := s.GetGameStats(id)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}

	return stats, nil
}
