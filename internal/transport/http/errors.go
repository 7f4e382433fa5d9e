package httptransport

import (
	"errors"
	"net/http"

	"rps-arena/internal/bank"
	"rps-arena/internal/game"
)

// statusForGameError maps contract sentinels onto HTTP statuses. The error
// text itself is the wire code, so sentinels stay snake_case.
func statusForGameError(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrWrongState),
		errors.Is(err, game.ErrAlreadyCommitted),
		errors.Is(err, game.ErrAlreadyRevealed):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidBet),
		errors.Is(err, game.ErrWrongBet),
		errors.Is(err, game.ErrSelfJoin),
		errors.Is(err, game.ErrInvalidReveal),
		errors.Is(err, game.ErrInvalidCommit),
		errors.Is(err, game.ErrInvalidMode),
		errors.Is(err, game.ErrNotExpired),
		errors.Is(err, game.ErrRateTooHigh),
		errors.Is(err, game.ErrInvalidTimeout),
		errors.Is(err, game.ErrNoWallets),
		errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, bank.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidCode),
		errors.Is(err, game.ErrNotCreator),
		errors.Is(err, game.ErrNotParticipant),
		errors.Is(err, game.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, game.ErrPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, game.ErrTransferFailed),
		errors.Is(err, bank.ErrRecipientBlocked):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeGameError(w http.ResponseWriter, err error) {
	status := statusForGameError(err)
	code := err.Error()
	if status == http.StatusInternalServerError {
		code = "internal_error"
	}
	WriteHTTPError(w, status, code)
}
