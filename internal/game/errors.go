package game

import "errors"

var (
	ErrInvalidBet       = errors.New("invalid_bet")
	ErrNotFound         = errors.New("match_not_found")
	ErrWrongState       = errors.New("wrong_state")
	ErrSelfJoin         = errors.New("self_join")
	ErrWrongBet         = errors.New("wrong_bet")
	ErrInvalidCode      = errors.New("invalid_code")
	ErrAlreadyCommitted = errors.New("already_committed")
	ErrInvalidCommit    = errors.New("invalid_commitment")
	ErrAlreadyRevealed  = errors.New("already_revealed")
	ErrInvalidReveal    = errors.New("invalid_reveal")
	ErrNotExpired       = errors.New("not_expired")
	ErrNotCreator       = errors.New("not_creator")
	ErrNotParticipant   = errors.New("not_participant")
	ErrNotOwner         = errors.New("not_owner")
	ErrRateTooHigh      = errors.New("rate_too_high")
	ErrTransferFailed   = errors.New("transfer_failed")
	ErrPaused           = errors.New("contract_paused")
	ErrInvalidMode      = errors.New("invalid_game_mode")
	ErrInvalidTimeout   = errors.New("invalid_timeout")
	ErrNoWallets        = errors.New("no_commission_wallets")
)
