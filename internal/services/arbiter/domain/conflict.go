// Package domain implements the conflict resolution engine: detection of
// same-tick contention between entities, automatic rule-driven resolution
// with tie-breaking, a durable manual-resolution queue, and the master
// decision consumer.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/contested.space/internal/platform/errors"
)

// Status describes the lifecycle of a conflict.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusIdentified indicates a freshly detected, unrouted conflict.
	StatusIdentified
	// StatusAwaitingManualResolution indicates the conflict is durably queued
	// for a master decision.
	StatusAwaitingManualResolution
	// StatusResolvedAutomatically indicates the rule engine settled the conflict.
	StatusResolvedAutomatically
	// StatusResolvedManually indicates a master decision settled the conflict.
	StatusResolvedManually
	// StatusFailed indicates resolution terminated with a captured failure.
	StatusFailed
)

var statusNames = map[Status]string{
	StatusUnspecified:              "unspecified",
	StatusIdentified:               "identified",
	StatusAwaitingManualResolution: "awaiting_manual_resolution",
	StatusResolvedAutomatically:    "resolved_automatically",
	StatusResolvedManually:         "resolved_manually",
	StatusFailed:                   "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the status is final. A conflict reaches exactly
// one terminal status and never regresses from it.
func (s Status) Terminal() bool {
	switch s {
	case StatusResolvedAutomatically, StatusResolvedManually, StatusFailed:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the status as its stable string name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its string name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for status, candidate := range statusNames {
		if candidate == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown conflict status %q", name)
}

// Resolver identities stamped on outcomes.
const (
	ResolvedBySystem = "system"
	ResolvedByMaster = "master"
)

// Entity identifies one participant in a conflict.
type Entity struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Effect is an opaque, type-tagged instruction describing a game-state
// change. Effects pass through from rule configuration to the external
// effect applier; the engine never interprets them.
type Effect struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Action is one raw submitted action for a tick.
type Action struct {
	Type    string         `json:"type"`
	Target  string         `json:"target,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Outcome is present only once a conflict reaches a terminal status.
type Outcome struct {
	WinnerID          string                 `json:"winner_id,omitempty"`
	OutcomeKey        string                 `json:"outcome_key"`
	Description       string                 `json:"description"`
	Effects           []Effect               `json:"effects,omitempty"`
	ResolvedBy        string                 `json:"resolved_by"`
	ResolvedAt        time.Time              `json:"resolved_at"`
	RawChecks         map[string]CheckResult `json:"raw_checks,omitempty"`
	ParametersApplied map[string]any         `json:"parameters_applied,omitempty"`
}

// Conflict is the central entity, mutable until terminal. InvolvedEntities
// order is significant: position 0 is the actor, position 1 (if present)
// the target; tie-breaking and outcome naming depend on it.
type Conflict struct {
	ID               string         `json:"id,omitempty"`
	GuildID          string         `json:"guild_id"`
	Type             string         `json:"type"`
	InvolvedEntities []Entity       `json:"involved_entities"`
	Details          map[string]any `json:"details,omitempty"`
	Status           Status         `json:"status"`
	FailureReason    apperrors.Code `json:"failure_reason,omitempty"`
	Outcome          *Outcome       `json:"outcome,omitempty"`
}

// Actor returns the entity at position 0.
func (c Conflict) Actor() (Entity, bool) {
	if len(c.InvolvedEntities) == 0 {
		return Entity{}, false
	}
	return c.InvolvedEntities[0], true
}

// Target returns the entity at position 1.
func (c Conflict) Target() (Entity, bool) {
	if len(c.InvolvedEntities) < 2 {
		return Entity{}, false
	}
	return c.InvolvedEntities[1], true
}
