package protocol

const (
	// Decision layer.
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrStale         = "E_STALE"
	ErrBlocked       = "E_BLOCKED"
	ErrConflict      = "E_CONFLICT"
	ErrNoBrain       = "E_NO_BRAIN"

	// Observer/transport validation.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrInvalidTarget: {},
	ErrStale:         {},
	ErrBlocked:       {},
	ErrConflict:      {},
	ErrNoBrain:       {},
	ErrBadRequest:    {},
	ErrInternal:      {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
