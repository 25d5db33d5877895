package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure: no infrastructure dependency.

var (
	// Claim errors (invalid transitions). No state is changed when returned.
	ErrInvalidClaim       = errors.New("invalid claim")
	ErrAlreadyClaimed     = errors.New("reward already claimed")
	ErrRequirementNotMet  = errors.New("requirement not met yet")
	ErrUnknownMission     = errors.New("unknown mission")
	ErrUnknownAchievement = errors.New("unknown achievement")

	// Once-per-window actions
	ErrAlreadyCompleted = errors.New("already completed for this period")

	// Usage limits
	ErrLimitExceeded = errors.New("daily usage limit reached")

	// Pack inventory
	ErrNoPacks           = errors.New("no unopened packs")
	ErrInsufficientCoins = errors.New("insufficient coins")

	// Programming errors: negative deltas, bad tables, impossible quiz scores
	ErrInvariant = errors.New("invariant violation")

	// Backup blobs
	ErrMalformedBackup = errors.New("malformed backup")

	// Clinical tools
	ErrUnknownTool  = errors.New("unknown tool")
	ErrUnknownDrug  = errors.New("unknown drug")
	ErrInvalidInput = errors.New("invalid clinical input")
)

// IsInvalidTransition reports whether err is a rejected claim or a
// once-per-window action repeated.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidClaim) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrRequirementNotMet) ||
		errors.Is(err, ErrAlreadyCompleted)
}
