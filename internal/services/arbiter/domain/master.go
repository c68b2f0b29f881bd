package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/contested.space/internal/platform/errors"
)

// MasterDecision is a master's verdict for a queued conflict. OutcomeType is
// free-form; "custom_outcome" pulls description and effects from Parameters.
type MasterDecision struct {
	OutcomeType string         `json:"outcome_type"`
	WinnerID    string         `json:"winner_id,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// MasterHandler consumes queued conflicts when a master rules on them.
// Consumption is atomic: the pending record is fetched and deleted in one
// step, so two masters ruling on the same conflict cannot both succeed.
type MasterHandler struct {
	store  PendingStore
	rules  RuleProvider
	engine RuleEngine
	logger Logger
}

// NewMasterHandler builds a handler. engine may be nil; resolution times
// then come from wall time.
func NewMasterHandler(store PendingStore, rules RuleProvider, engine RuleEngine, logger Logger) *MasterHandler {
	return &MasterHandler{
		store:  store,
		rules:  rules,
		engine: engine,
		logger: logger,
	}
}

// Resolve applies a master decision to a queued conflict. The pending record
// is consumed atomically; a second call for the same id returns a not-found
// error. Outcome types are honored liberally: a named manual outcome is used
// when configured, "custom_outcome" takes description and effects from the
// decision parameters, anything else falls back to a configured "default"
// and finally a synthesized outcome. A ruling is never bounced back to the
// master over an unrecognized outcome type.
func (h *MasterHandler) Resolve(ctx context.Context, conflictID string, decision MasterDecision) (Conflict, error) {
	conflict, err := h.store.FetchAndDelete(ctx, conflictID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Conflict{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				fmt.Sprintf("pending conflict %s not found (already resolved or never queued)", conflictID),
				map[string]string{"conflict_id": conflictID})
		}
		return Conflict{}, apperrors.Wrap(apperrors.CodePersistenceError, "consume pending conflict", err)
	}

	rule, ok := h.rules.RuleFor(conflict.GuildID, conflict.Type)
	if !ok {
		return Conflict{}, apperrors.WithMetadata(apperrors.CodeNoRuleDefinition,
			fmt.Sprintf("no rule definition for conflict type %q in guild %q", conflict.Type, conflict.GuildID),
			map[string]string{"conflict_id": conflictID, "conflict_type": conflict.Type})
	}

	spec := h.outcomeSpec(conflict, rule.Manual.Outcomes, decision)
	description := spec.Description
	if decision.Description != "" {
		description = decision.Description
	}

	conflict.Status = StatusResolvedManually
	conflict.Outcome = &Outcome{
		WinnerID:          decision.WinnerID,
		OutcomeKey:        decision.OutcomeType,
		Description:       description,
		Effects:           spec.Effects,
		ResolvedBy:        ResolvedByMaster,
		ResolvedAt:        h.gameTime(ctx),
		ParametersApplied: decision.Parameters,
	}
	return conflict, nil
}

// outcomeSpec maps the decision's outcome type onto an outcome: named manual
// outcome, then custom_outcome from caller parameters, then the configured
// default, then a synthesized spec.
func (h *MasterHandler) outcomeSpec(conflict Conflict, outcomes map[string]OutcomeSpec, decision MasterDecision) OutcomeSpec {
	if spec, ok := outcomes[decision.OutcomeType]; ok {
		return spec
	}
	if decision.OutcomeType == OutcomeKeyCustom {
		return customOutcome(conflict, decision.Parameters)
	}
	if spec, ok := outcomes[OutcomeKeyDefault]; ok {
		h.logf("conflict %s: outcome type %q not configured, using default", conflict.ID, decision.OutcomeType)
		return spec
	}
	h.logf("conflict %s: outcome type %q not configured and no fallback, synthesizing", conflict.ID, decision.OutcomeType)
	return OutcomeSpec{
		Description: fmt.Sprintf("Conflict %q resolved by master ruling: %s.", conflict.Type, decision.OutcomeType),
	}
}

// customOutcome builds an outcome from decision parameters: a "description"
// string and an "effects" list of {type, payload} entries.
func customOutcome(conflict Conflict, params map[string]any) OutcomeSpec {
	spec := OutcomeSpec{
		Description: fmt.Sprintf("Conflict %q resolved by a custom master ruling.", conflict.Type),
	}
	if description, ok := params["description"].(string); ok && description != "" {
		spec.Description = description
	}
	rawEffects, ok := params["effects"].([]any)
	if !ok {
		return spec
	}
	for _, raw := range rawEffects {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		effect := Effect{}
		if effectType, ok := entry["type"].(string); ok {
			effect.Type = effectType
		}
		if payload, ok := entry["payload"].(map[string]any); ok {
			effect.Payload = payload
		}
		spec.Effects = append(spec.Effects, effect)
	}
	return spec
}

func (h *MasterHandler) gameTime(ctx context.Context) time.Time {
	if h.engine != nil {
		if at, err := h.engine.GameTime(ctx); err == nil {
			return at.UTC()
		}
	}
	return time.Now().UTC()
}

func (h *MasterHandler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
