package domain

import (
	"sort"
	"strings"
)

// ConflictTypeSimultaneousMove is the shipped matcher's conflict type.
const ConflictTypeSimultaneousMove = "simultaneous_move_to_limited_space"

// Detail keys set on detected conflicts.
const (
	DetailContentionKey = "contention_key"
	DetailRawActions    = "raw_actions"
)

// Matcher classifies raw actions into one conflict type. ContentionKey
// returns the resource an action contends for (a space, an item id) and
// false when the action is not of interest to this matcher.
type Matcher interface {
	ConflictType() string
	ContentionKey(action Action) (string, bool)
}

// MoveMatcher flags simultaneous MOVE actions targeting the same
// single-occupancy space.
type MoveMatcher struct{}

// ConflictType implements Matcher.
func (MoveMatcher) ConflictType() string { return ConflictTypeSimultaneousMove }

// ContentionKey implements Matcher. The contended resource is the move target.
func (MoveMatcher) ContentionKey(action Action) (string, bool) {
	if !strings.EqualFold(action.Type, "MOVE") || strings.TrimSpace(action.Target) == "" {
		return "", false
	}
	return action.Target, true
}

// Detector groups a tick's per-entity actions into candidate conflicts
// through its pluggable matchers. Detection is classification, not an
// exhaustive rule system: actions no matcher claims are simply ignored.
type Detector struct {
	matchers []Matcher
	rules    RuleProvider
	logger   Logger
}

// NewDetector builds a detector. With no matchers given, the MoveMatcher
// is installed.
func NewDetector(rules RuleProvider, logger Logger, matchers ...Matcher) *Detector {
	if len(matchers) == 0 {
		matchers = []Matcher{MoveMatcher{}}
	}
	return &Detector{
		matchers: matchers,
		rules:    rules,
		logger:   logger,
	}
}

// Detect returns one identified conflict per contention key claimed by more
// than one distinct entity. Claimants appear in the order observed; entity
// ids are walked in sorted order so actor/target assignment is
// deterministic for a given action map. Candidates whose type has no rule
// definition are dropped with a warning.
func (d *Detector) Detect(actions map[string][]Action, guildID string) []Conflict {
	entityIDs := make([]string, 0, len(actions))
	for entityID := range actions {
		entityIDs = append(entityIDs, entityID)
	}
	sort.Strings(entityIDs)

	var conflicts []Conflict
	for _, matcher := range d.matchers {
		claims := make(map[string][]string)
		claimActions := make(map[string]map[string][]Action)
		for _, entityID := range entityIDs {
			for _, action := range actions[entityID] {
				key, ok := matcher.ContentionKey(action)
				if !ok {
					continue
				}
				if claimActions[key] == nil {
					claimActions[key] = make(map[string][]Action)
				}
				if len(claimActions[key][entityID]) == 0 {
					claims[key] = append(claims[key], entityID)
				}
				claimActions[key][entityID] = append(claimActions[key][entityID], action)
			}
		}

		keys := make([]string, 0, len(claims))
		for key := range claims {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			claimants := claims[key]
			if len(claimants) < 2 {
				continue
			}
			if _, ok := d.rules.RuleFor(guildID, matcher.ConflictType()); !ok {
				d.logf("drop conflict candidate type=%s guild=%s: no rule definition", matcher.ConflictType(), guildID)
				continue
			}

			entities := make([]Entity, 0, len(claimants))
			for _, entityID := range claimants {
				entities = append(entities, Entity{ID: entityID, Type: entityType(actions[entityID])})
			}
			conflicts = append(conflicts, Conflict{
				GuildID:          guildID,
				Type:             matcher.ConflictType(),
				InvolvedEntities: entities,
				Details: map[string]any{
					DetailContentionKey: key,
					DetailRawActions:    claimActions[key],
				},
				Status: StatusIdentified,
			})
		}
	}
	return conflicts
}

func (d *Detector) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}

// entityType inspects submitted actions for an entity_type payload hint;
// entities default to "character".
func entityType(actions []Action) string {
	for _, action := range actions {
		if hint, ok := action.Payload["entity_type"].(string); ok && hint != "" {
			return hint
		}
	}
	return "character"
}
