package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("not found")

// Store wraps DB access for the match archive.
type Store struct {
	DB *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGINT PRIMARY KEY,
			player1 TEXT NOT NULL,
			player2 TEXT NOT NULL DEFAULT '',
			bet_amount BIGINT NOT NULL,
			game_mode TEXT NOT NULL,
			state TEXT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			payout BIGINT NOT NULL DEFAULT 0,
			commission BIGINT NOT NULL DEFAULT 0,
			was_draw BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS matches_player1_idx ON matches (player1)`,
		`CREATE INDEX IF NOT EXISTS matches_player2_idx ON matches (player2)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			match_id BIGINT NOT NULL,
			round INT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			tie_count INT NOT NULL DEFAULT 0,
			is_overtime BOOLEAN NOT NULL DEFAULT FALSE,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS rounds_match_idx ON rounds (match_id)`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) InsertMatch(ctx context.Context, m MatchRecord) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO matches (id, player1, player2, bet_amount, game_mode, state, winner, payout, commission, was_draw)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO NOTHING
	`, int64(m.ID), m.Player1, m.Player2, m.BetAmount, m.GameMode, m.State, m.Winner, m.Payout, m.Commission, m.WasDraw)
	return err
}

func (s *Store) InsertRound(ctx context.Context, r RoundRecord) (string, error) {
	id := NewID()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO rounds (id, match_id, round, winner, tie_count, is_overtime)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, id, int64(r.MatchID), r.Round, r.Winner, r.TieCount, r.IsOvertime)
	return id, err
}

func (s *Store) GetMatch(ctx context.Context, id uint64) (*MatchRecord, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, player1, player2, bet_amount, game_mode, state, winner, payout, commission, was_draw, completed_at
		FROM matches WHERE id = $1
	`, int64(id))
	var m MatchRecord
	var rawID int64
	if err := row.Scan(&rawID, &m.Player1, &m.Player2, &m.BetAmount, &m.GameMode, &m.State, &m.Winner, &m.Payout, &m.Commission, &m.WasDraw, &m.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m.ID = uint64(rawID)
	return &m, nil
}

// ListMatchHistory pages archived matches newest first, optionally filtered
// to matches a player took part in.
func (s *Store) ListMatchHistory(ctx context.Context, player string, limit, offset int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows *sql.Rows
	var err error
	if player == "" {
		rows, err = s.DB.QueryContext(ctx, `
			SELECT id, player1, player2, bet_amount, game_mode, state, winner, payout, commission, was_draw, completed_at
			FROM matches ORDER BY completed_at DESC LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		rows, err = s.DB.QueryContext(ctx, `
			SELECT id, player1, player2, bet_amount, game_mode, state, winner, payout, commission, was_draw, completed_at
			FROM matches WHERE player1 = $1 OR player2 = $1
			ORDER BY completed_at DESC LIMIT $2 OFFSET $3
		`, player, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MatchRecord{}
	for rows.Next() {
		var m MatchRecord
		var rawID int64
		if err := rows.Scan(&rawID, &m.Player1, &m.Player2, &m.BetAmount, &m.GameMode, &m.State, &m.Winner, &m.Payout, &m.Commission, &m.WasDraw, &m.CompletedAt); err != nil {
			return nil, err
		}
		m.ID = uint64(rawID)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CountMatchHistory(ctx context.Context, player string) (int, error) {
	var row *sql.Row
	if player == "" {
		row = s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM matches`)
	} else {
		row = s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM matches WHERE player1 = $1 OR player2 = $1`, player)
	}
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

// ListRoundsByMatch returns round rows in insert order; ULID ids sort
// chronologically.
func (s *Store) ListRoundsByMatch(ctx context.Context, matchID uint64) ([]RoundRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, match_id, round, winner, tie_count, is_overtime, recorded_at
		FROM rounds WHERE match_id = $1 ORDER BY id ASC
	`, int64(matchID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RoundRecord{}
	for rows.Next() {
		var r RoundRecord
		var rawID int64
		if err := rows.Scan(&r.ID, &rawID, &r.Round, &r.Winner, &r.TieCount, &r.IsOvertime, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.MatchID = uint64(rawID)
		out = append(out, r)
	}
	return out, rows.Err()
}
