package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/contested.space/internal/core/check"
	apperrors "github.com/louisbranch/contested.space/internal/platform/errors"
	"github.com/louisbranch/contested.space/internal/platform/id"
)

// tieBreakNotation is the dice roll used for random tie-breaking: 1 means
// the actor wins, anything else the target.
const tieBreakNotation = "1d2"

// AutomaticResolver settles conflicts synchronously through rule-engine
// checks. It performs no persistence and holds no shared mutable state, so
// conflicts on different contention keys may resolve fully in parallel.
type AutomaticResolver struct {
	engine RuleEngine
	rules  RuleProvider
	newID  func() (string, error)
	logger Logger
}

// NewAutomaticResolver builds a resolver. newID may be nil to use the
// platform id generator.
func NewAutomaticResolver(engine RuleEngine, rules RuleProvider, newID func() (string, error), logger Logger) *AutomaticResolver {
	if newID == nil {
		newID = id.NewID
	}
	return &AutomaticResolver{
		engine: engine,
		rules:  rules,
		newID:  newID,
		logger: logger,
	}
}

// Resolve runs the configured check and returns the conflict in a terminal
// state. Documented failure conditions are captured as a failed status with
// a human-readable description; Resolve never panics or propagates them.
func (r *AutomaticResolver) Resolve(ctx context.Context, conflict Conflict) Conflict {
	if conflict.ID == "" {
		generated, err := r.newID()
		if err != nil {
			return r.fail(ctx, conflict, apperrors.CodeRuleEngineError, fmt.Sprintf("generate conflict id: %v", err))
		}
		conflict.ID = generated
	}

	rule, ok := r.rules.RuleFor(conflict.GuildID, conflict.Type)
	if !ok {
		return r.fail(ctx, conflict, apperrors.CodeUnknownConflictType,
			fmt.Sprintf("no rule definition for conflict type %q in guild %q", conflict.Type, conflict.GuildID))
	}
	if rule.Automatic.CheckType == "" {
		return r.fail(ctx, conflict, apperrors.CodeNoCheckType,
			fmt.Sprintf("conflict type %q has no automatic check type configured", conflict.Type))
	}
	actor, ok := conflict.Actor()
	if !ok {
		return r.fail(ctx, conflict, apperrors.CodeNoInvolvedEntities, "conflict has no involved entities")
	}
	target, hasTarget := conflict.Target()

	actorCheck, err := r.engine.ResolveCheck(ctx, CheckRequest{
		EntityID:   actor.ID,
		EntityType: actor.Type,
		CheckType:  rule.Automatic.CheckType,
		Context:    rule.Automatic.ActorContext,
		TargetID:   target.ID,
		TargetType: target.Type,
		Conflict:   &conflict,
	})
	if err != nil {
		return r.fail(ctx, conflict, apperrors.CodeRuleEngineError, fmt.Sprintf("rule engine check failed: %v", err))
	}
	rawChecks := map[string]CheckResult{"actor": actorCheck}

	var outcomeKey, winnerID string
	if rule.Automatic.CheckType == CheckTypeOpposed && hasTarget {
		targetCheck, err := r.engine.ResolveCheck(ctx, CheckRequest{
			EntityID:   target.ID,
			EntityType: target.Type,
			CheckType:  rule.Automatic.CheckType,
			Context:    rule.Automatic.TargetContext,
			TargetID:   actor.ID,
			TargetType: actor.Type,
			Conflict:   &conflict,
		})
		if err != nil {
			return r.fail(ctx, conflict, apperrors.CodeRuleEngineError, fmt.Sprintf("rule engine check failed: %v", err))
		}
		rawChecks["target"] = targetCheck

		actorWon := true
		switch check.Contest(actorCheck.TotalRollValue, targetCheck.TotalRollValue) {
		case check.ContestActorWins:
		case check.ContestTargetWins:
			actorWon = false
		case check.ContestTie:
			actorWon = r.breakTie(ctx, conflict, rule.Automatic.TieBreakerRule)
		}
		if actorWon {
			outcomeKey, winnerID = OutcomeKeyActorWins, actor.ID
		} else {
			outcomeKey, winnerID = OutcomeKeyTargetWins, target.ID
		}
	} else {
		// Single-entity check against an implicit difficulty. Failure maps to
		// "target_wins" even though no target entity exists; see OutcomeKeyTargetWins.
		if actorCheck.Outcome == CheckOutcomeSuccess {
			outcomeKey, winnerID = OutcomeKeyActorWins, actor.ID
		} else {
			outcomeKey = OutcomeKeyTargetWins
		}
	}

	spec, ok := rule.Automatic.Outcomes[outcomeKey]
	if !ok {
		r.logf("conflict %s: no configured outcome for key %q, synthesizing", conflict.ID, outcomeKey)
		spec = OutcomeSpec{Description: fmt.Sprintf("Conflict %q resolved: %s.", conflict.Type, outcomeKey)}
	}

	conflict.Status = StatusResolvedAutomatically
	conflict.Outcome = &Outcome{
		WinnerID:    winnerID,
		OutcomeKey:  outcomeKey,
		Description: spec.Description,
		Effects:     spec.Effects,
		ResolvedBy:  ResolvedBySystem,
		ResolvedAt:  r.gameTime(ctx),
		RawChecks:   rawChecks,
	}
	return conflict
}

// breakTie decides a tied opposed check. Reports true when the actor wins.
func (r *AutomaticResolver) breakTie(ctx context.Context, conflict Conflict, rule string) bool {
	switch rule {
	case TieBreakerTargetPreference:
		return false
	case TieBreakerRandom:
		roll, err := r.engine.ResolveDiceRoll(ctx, tieBreakNotation)
		if err != nil {
			r.logf("conflict %s: tie-break dice roll unavailable, defaulting to actor: %v", conflict.ID, err)
			return true
		}
		return roll.Total == 1
	case TieBreakerActorPreference, "":
		return true
	default:
		r.logf("conflict %s: unrecognized tie_breaker_rule %q, treating as actor preference", conflict.ID, rule)
		return true
	}
}

func (r *AutomaticResolver) fail(ctx context.Context, conflict Conflict, reason apperrors.Code, description string) Conflict {
	r.logf("conflict %s (type %s) failed: %s", conflict.ID, conflict.Type, description)
	conflict.Status = StatusFailed
	conflict.FailureReason = reason
	conflict.Outcome = &Outcome{
		OutcomeKey:  "failed",
		Description: description,
		ResolvedBy:  ResolvedBySystem,
		ResolvedAt:  r.gameTime(ctx),
	}
	return conflict
}

// gameTime stamps resolution times from the rule engine's game clock,
// falling back to wall time when the capability is unavailable.
func (r *AutomaticResolver) gameTime(ctx context.Context) time.Time {
	if r.engine != nil {
		if at, err := r.engine.GameTime(ctx); err == nil {
			return at.UTC()
		}
	}
	return time.Now().UTC()
}

func (r *AutomaticResolver) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
