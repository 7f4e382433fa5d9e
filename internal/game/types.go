package game

import "time"

// GameMode selects how many round wins complete a match.
type GameMode uint8

const (
	ModeBO1 GameMode = 0
	ModeBO3 GameMode = 1
	ModeBO5 GameMode = 2
)

func (m GameMode) Valid() bool {
	return m <= ModeBO5
}

func (m GameMode) WinsRequired() uint8 {
	switch m {
	case ModeBO3:
		return 2
	case ModeBO5:
		return 3
	default:
		return 1
	}
}

func (m GameMode) String() string {
	switch m {
	case ModeBO3:
		return "bo3"
	case ModeBO5:
		return "bo5"
	default:
		return "bo1"
	}
}

// MatchState is the match lifecycle position. Transitions only move forward
// along the graph; Completed, Expired and Cancelled are terminal.
type MatchState uint8

const (
	StateNone          MatchState = 0
	StateWaitingForP2  MatchState = 1
	StateBothJoined    MatchState = 2
	StateBothCommitted MatchState = 3
	StateP1Revealed    MatchState = 4
	StateP2Revealed    MatchState = 5
	StateCompleted     MatchState = 6
	StateExpired       MatchState = 7
	StateCancelled     MatchState = 8
)

func (s MatchState) Terminal() bool {
	return s == StateCompleted || s == StateExpired || s == StateCancelled
}

func (s MatchState) String() string {
	switch s {
	case StateWaitingForP2:
		return "waiting_for_p2"
	case StateBothJoined:
		return "both_joined"
	case StateBothCommitted:
		return "both_committed"
	case StateP1Revealed:
		return "p1_revealed"
	case StateP2Revealed:
		return "p2_revealed"
	case StateCompleted:
		return "completed"
	case StateExpired:
		return "expired"
	case StateCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Match is one wagering contest between two players.
type Match struct {
	ID              uint64
	Player1         string
	Player2         string
	BetAmount       int64
	GameMode        GameMode
	State           MatchState
	CurrentRound    uint8
	P1Wins          uint8
	P2Wins          uint8
	IsPrivate       bool
	PrivateCodeHash Commitment
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// RoundState is the commit-reveal bookkeeping for one (match, round) pair.
// Overtime replays of a round overwrite the commit fields in place; TieCount
// accumulates until the round resolves or the cap forces a draw.
type RoundState struct {
	P1Commit       Commitment
	P2Commit       Commitment
	P1Choice       Choice
	P2Choice       Choice
	P1Revealed     bool
	P2Revealed     bool
	TieCount       uint8
	CommitDeadline time.Time
	RevealDeadline time.Time
}

// TieCap is the per-round tie limit; hitting it forces the match to complete
// as a draw regardless of game mode.
const TieCap = 10

// PlayerStats are aggregate counters per player address, accumulated across
// matches as a side effect of round resolution and settlement.
type PlayerStats struct {
	TotalMatches   uint64 `json:"total_matches"`
	Wins           uint64 `json:"wins"`
	Losses         uint64 `json:"losses"`
	Ties           uint64 `json:"ties"`
	CurrentStreak  uint64 `json:"current_streak"`
	BestStreak     uint64 `json:"best_streak"`
	OvertimeWins   uint64 `json:"overtime_wins"`
	OvertimeLosses uint64 `json:"overtime_losses"`
	RockCount      uint64 `json:"rock_count"`
	PaperCount     uint64 `json:"paper_count"`
	ScissorsCount  uint64 `json:"scissors_count"`
}

type roundKey struct {
	matchID uint64
	round   uint8
}
