// Package mechanics is the default rule engine: d20 checks with context
// modifiers, resolved through the core dice and check packages. It exists so
// the service runs end to end without an external game server; production
// deployments may swap in a remote implementation of the same interface.
package mechanics

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/louisbranch/contested.space/internal/core/check"
	"github.com/louisbranch/contested.space/internal/core/dice"
	apperrors "github.com/louisbranch/contested.space/internal/platform/errors"
	"github.com/louisbranch/contested.space/internal/platform/random"
	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
)

const (
	checkSides = 20
	difficulty = 10
)

// contextModifiers adjusts a check total by the configured context. The
// table is intentionally small; richer stat systems live behind remote
// rule engines.
var contextModifiers = map[string]int{
	"combat_initiative":   2,
	"athletics":           1,
	"stealth":             1,
	"social_persuasion":   0,
	"social_intimidation": 0,
}

// Engine is a deterministic, seedable implementation of the domain rule
// engine contract.
type Engine struct {
	seed  func() (int64, error)
	clock func() time.Time
}

// New builds an engine. seed and clock may be nil to use crypto-seeded
// randomness and UTC wall time.
func New(seed func() (int64, error), clock func() time.Time) *Engine {
	if seed == nil {
		seed = random.NewSeed
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{seed: seed, clock: clock}
}

// ResolveCheck rolls 1d20, applies the context modifier, and compares the
// total against the standing difficulty.
func (e *Engine) ResolveCheck(ctx context.Context, req domain.CheckRequest) (domain.CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.CheckResult{}, err
	}
	if strings.TrimSpace(req.CheckType) == "" {
		return domain.CheckResult{}, apperrors.New(apperrors.CodeNoCheckType, "check type is required")
	}

	rng, err := e.rng()
	if err != nil {
		return domain.CheckResult{}, err
	}
	rolled, err := dice.RollWithRng(rng, []dice.Spec{{Sides: checkSides, Count: 1}})
	if err != nil {
		return domain.CheckResult{}, apperrors.Wrap(apperrors.CodeRuleEngineError, "roll check dice", err)
	}

	total := rolled.Total + contextModifiers[strings.ToLower(strings.TrimSpace(req.Context))]
	outcome := domain.CheckOutcomeFailure
	if check.MeetsDifficulty(total, difficulty) {
		outcome = domain.CheckOutcomeSuccess
	}
	return domain.CheckResult{
		TotalRollValue: total,
		Outcome:        outcome,
	}, nil
}

// ResolveDiceRoll rolls standard dice notation such as "1d2" or "2d6".
func (e *Engine) ResolveDiceRoll(ctx context.Context, notation string) (domain.DiceResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.DiceResult{}, err
	}
	rng, err := e.rng()
	if err != nil {
		return domain.DiceResult{}, err
	}
	rolled, err := dice.RollNotation(rng, notation)
	if err != nil {
		return domain.DiceResult{}, apperrors.Wrap(apperrors.CodeDiceInvalidNotation, "roll dice notation", err)
	}
	return domain.DiceResult{Total: rolled.Total}, nil
}

// GameTime returns the engine clock. The default engine has no game
// calendar, so this is wall time unless a clock is injected.
func (e *Engine) GameTime(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	return e.clock(), nil
}

func (e *Engine) rng() (*rand.Rand, error) {
	seed, err := e.seed()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRuleEngineError, "generate dice seed", err)
	}
	return rand.New(rand.NewSource(seed)), nil
}
