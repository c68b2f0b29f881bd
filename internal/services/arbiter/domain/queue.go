package domain

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/contested.space/internal/platform/errors"
	"github.com/louisbranch/contested.space/internal/platform/id"
)

// RenderFunc formats a notification template with conflict-specific values.
// Implementations substitute {key} placeholders from values.
type RenderFunc func(template string, values map[string]string) string

// Receipt acknowledges a queued conflict. Routing a conflict to manual
// resolution returns a receipt, never an outcome; the outcome arrives later
// through the master consumer.
type Receipt struct {
	ConflictID   string    `json:"conflict_id"`
	Status       Status    `json:"status"`
	QueuedAt     time.Time `json:"queued_at"`
	MessageForGM string    `json:"message_for_gm"`
}

// ManualQueue routes conflicts that require a master decision: it persists
// the conflict durably, then alerts the guild's master. Persistence is the
// source of truth; notification is best-effort on top of it.
type ManualQueue struct {
	store  PendingStore
	rules  RuleProvider
	sink   NotificationSink
	render RenderFunc
	newID  func() (string, error)
	clock  func() time.Time
	logger Logger
}

// NewManualQueue builds a queue. render, newID, and clock may be nil for
// plain-template rendering, platform ids, and UTC wall time.
func NewManualQueue(store PendingStore, rules RuleProvider, sink NotificationSink, render RenderFunc, newID func() (string, error), clock func() time.Time, logger Logger) *ManualQueue {
	if render == nil {
		render = func(template string, _ map[string]string) string { return template }
	}
	if newID == nil {
		newID = id.NewID
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &ManualQueue{
		store:  store,
		rules:  rules,
		sink:   sink,
		render: render,
		newID:  newID,
		clock:  clock,
		logger: logger,
	}
}

// Enqueue persists the conflict for manual resolution and alerts the master.
// A conflict without a guild id is rejected before any persistence: there is
// no master to notify and no rule scope to resolve under. Persistence
// failures propagate; notification failures are logged and swallowed.
// Conflicts whose rule does not actually require manual resolution are
// accepted with a warning rather than rejected.
func (q *ManualQueue) Enqueue(ctx context.Context, conflict Conflict) (Receipt, error) {
	if conflict.GuildID == "" {
		return Receipt{}, apperrors.WithMetadata(apperrors.CodeNoGuildID, "conflict has no guild id",
			map[string]string{"conflict_id": conflict.ID})
	}
	if conflict.ID == "" {
		generated, err := q.newID()
		if err != nil {
			return Receipt{}, apperrors.Wrap(apperrors.CodePersistenceError, "generate conflict id", err)
		}
		conflict.ID = generated
	}

	rule, hasRule := q.rules.RuleFor(conflict.GuildID, conflict.Type)
	if hasRule && !rule.ManualResolutionRequired {
		q.logf("conflict %s (type %s) is not configured for manual resolution, queueing anyway", conflict.ID, conflict.Type)
	}

	conflict.Status = StatusAwaitingManualResolution
	if err := q.store.Save(ctx, conflict); err != nil {
		return Receipt{}, apperrors.Wrap(apperrors.CodePersistenceError, "persist pending conflict", err)
	}

	message := q.render(q.template(conflict, rule, hasRule), placeholderValues(conflict, rule))
	if q.sink != nil {
		if err := q.sink.Alert(ctx, conflict.ID, conflict.GuildID, message, conflict); err != nil {
			q.logf("conflict %s: master notification failed (conflict remains queued): %v", conflict.ID, err)
		}
	}

	return Receipt{
		ConflictID:   conflict.ID,
		Status:       StatusAwaitingManualResolution,
		QueuedAt:     q.clock(),
		MessageForGM: message,
	}, nil
}

func (q *ManualQueue) template(conflict Conflict, rule RuleDefinition, hasRule bool) string {
	if hasRule && rule.Notification.Message != "" {
		return rule.Notification.Message
	}
	return fmt.Sprintf("Conflict %s (%s) requires manual resolution.", conflict.ID, conflict.Type)
}

// placeholderValues exposes conflict and rule fields to notification
// templates: identity fields, the rule description, every details key, and
// positional entity placeholders with actor/target aliases.
func placeholderValues(conflict Conflict, rule RuleDefinition) map[string]string {
	values := map[string]string{
		"conflict_id":   conflict.ID,
		"type":          conflict.Type,
		"conflict_type": conflict.Type,
		"guild_id":      conflict.GuildID,
		"description":   rule.Description,
	}
	for key, value := range conflict.Details {
		values[key] = fmt.Sprintf("%v", value)
	}
	for i, entity := range conflict.InvolvedEntities {
		values[fmt.Sprintf("entity%d_id", i)] = entity.ID
		values[fmt.Sprintf("entity%d_type", i)] = entity.Type
	}
	if actor, ok := conflict.Actor(); ok {
		values["actor_id"] = actor.ID
		values["actor_type"] = actor.Type
	}
	if target, ok := conflict.Target(); ok {
		values["target_id"] = target.ID
		values["target_type"] = target.Type
	}
	return values
}

func (q *ManualQueue) logf(format string, args ...any) {
	if q.logger != nil {
		q.logger.Printf(format, args...)
	}
}
