package store

import "time"

// MatchRecord is a terminal match as archived for history reads. The live
// contract remains authoritative; rows here are written after the fact.
type MatchRecord struct {
	ID          uint64    `json:"id"`
	Player1     string    `json:"player1"`
	Player2     string    `json:"player2"`
	BetAmount   int64     `json:"bet_amount"`
	GameMode    string    `json:"game_mode"`
	State       string    `json:"state"`
	Winner      string    `json:"winner"`
	Payout      int64     `json:"payout"`
	Commission  int64     `json:"commission"`
	WasDraw     bool      `json:"was_draw"`
	CompletedAt time.Time `json:"completed_at"`
}

// RoundRecord is one resolved round instance, overtime replays included.
type RoundRecord struct {
	ID         string    `json:"id"`
	MatchID    uint64    `json:"match_id"`
	Round      int       `json:"round"`
	Winner     string    `json:"winner"`
	TieCount   int       `json:"tie_count"`
	IsOvertime bool      `json:"is_overtime"`
	RecordedAt time.Time `json:"recorded_at"`
}
