package domain

// CheckTypeOpposed is the two-entity opposed check: both sides roll and the
// higher total wins.
const CheckTypeOpposed = "opposed_check"

// Tie-breaker rules applied when an opposed check lands on equal totals.
// Any unrecognized value behaves as TieBreakerActorPreference.
const (
	TieBreakerActorPreference  = "actor_preference"
	TieBreakerTargetPreference = "target_preference"
	TieBreakerRandom           = "random"
)

// Outcome keys used by rule configuration.
//
// OutcomeKeyTargetWins doubles as the failure key for single-entity checks,
// where "target" means the environment or difficulty threshold rather than a
// second entity. The naming is a historical artifact of the rule-config
// format and is preserved for compatibility.
const (
	OutcomeKeyActorWins  = "actor_wins"
	OutcomeKeyTargetWins = "target_wins"
	OutcomeKeyCustom     = "custom_outcome"
	OutcomeKeyDefault    = "default"
)

// OutcomeSpec is one configured outcome: the narration shown to players and
// the opaque effects forwarded to the external effect applier.
type OutcomeSpec struct {
	Description string
	Effects     []Effect
}

// AutomaticRules configures rule-driven resolution for a conflict type.
type AutomaticRules struct {
	CheckType      string
	ActorContext   string
	TargetContext  string
	TieBreakerRule string
	Outcomes       map[string]OutcomeSpec
}

// ManualRules configures the outcomes a master may pick from.
type ManualRules struct {
	Outcomes map[string]OutcomeSpec
}

// NotificationTemplate renders the GM alert for queued conflicts.
// Message may reference placeholders like {conflict_id} or {actor_id}.
type NotificationTemplate struct {
	Message string
}

// RuleDefinition is the guild- and type-scoped rule configuration consumed
// by the engine. Definitions are loaded externally and read-only here.
type RuleDefinition struct {
	ManualResolutionRequired bool
	Description              string
	Automatic                AutomaticRules
	Manual                   ManualRules
	Notification             NotificationTemplate
}

// RuleProvider supplies rule definitions by guild and conflict type.
type RuleProvider interface {
	RuleFor(guildID, conflictType string) (RuleDefinition, bool)
}
