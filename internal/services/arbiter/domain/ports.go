package domain

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/contested.space/internal/platform/errors"
)

// ErrNotFound indicates a pending conflict record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "pending conflict not found")

// Check outcome values produced by a rule engine.
const (
	CheckOutcomeSuccess = "SUCCESS"
	CheckOutcomeFailure = "FAILURE"
)

// CheckRequest asks the rule engine to evaluate one skill check from the
// perspective of a single entity.
type CheckRequest struct {
	EntityID   string
	EntityType string
	CheckType  string
	Context    string
	TargetID   string
	TargetType string
	Conflict   *Conflict
}

// CheckResult is the rule engine's verdict for one check.
type CheckResult struct {
	TotalRollValue int    `json:"total_roll_value"`
	Outcome        string `json:"outcome"`
}

// DiceResult is the rule engine's verdict for one dice roll.
type DiceResult struct {
	Total int `json:"total"`
}

// RuleEngine performs checks and dice rolls and supplies the game clock.
// It is a pure capability; the conflict engine owns no check semantics.
type RuleEngine interface {
	ResolveCheck(ctx context.Context, req CheckRequest) (CheckResult, error)
	ResolveDiceRoll(ctx context.Context, notation string) (DiceResult, error)
	GameTime(ctx context.Context) (time.Time, error)
}

// PendingStore persists conflicts awaiting manual resolution. Save upserts
// by conflict id. FetchAndDelete consumes a record atomically: exactly one
// concurrent caller for a given id observes the record, all others get
// ErrNotFound.
type PendingStore interface {
	Save(ctx context.Context, conflict Conflict) error
	FetchAndDelete(ctx context.Context, conflictID string) (Conflict, error)
}

// NotificationSink delivers GM alerts. Delivery is best-effort: a failed
// alert never rolls back the durable queue entry.
type NotificationSink interface {
	Alert(ctx context.Context, conflictID, guildID, message string, conflict Conflict) error
}

// Logger records operational warnings. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}
