package battle

import "errors"

// Client-facing error taxonomy. Validation errors reject the call
// atomically, battle state unchanged, so callers may retry with
// corrected input.
var (
	// ErrDataUnavailable means a required series or rule set could not
	// be loaded at battle creation. Fatal to that creation call only.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrNotFound means the battle id is not registered.
	ErrNotFound = errors.New("battle not found")

	// ErrUnknownUser means the user id is not a battle participant.
	ErrUnknownUser = errors.New("unknown battle participant")

	// ErrEndOfData means no future bar exists to fill an order against.
	ErrEndOfData = errors.New("cannot execute: end of data reached")

	// ErrBattleFinished means the battle is in a terminal state.
	ErrBattleFinished = errors.New("battle already finished")

	ErrInvalidSize       = errors.New("position size is required and must be positive")
	ErrInvalidStopTarget = errors.New("invalid SL/TP: stop must be against direction, target in favor")
	ErrInvalidOrderState = errors.New("invalid trade state or action")
	ErrTradeLimitReached = errors.New("trade limit reached for this battle")
	ErrAssetMismatch     = errors.New("open position is held in a different asset")
)
