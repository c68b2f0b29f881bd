// Package rules loads guild-scoped conflict rule definitions from YAML.
// Definitions are read once at startup and immutable afterwards; editing
// rules at runtime is out of scope.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
)

type outcomeYAML struct {
	Description string       `yaml:"description"`
	Effects     []effectYAML `yaml:"effects"`
}

type effectYAML struct {
	Type    string         `yaml:"type"`
	Payload map[string]any `yaml:"payload"`
}

type ruleYAML struct {
	ManualResolutionRequired bool   `yaml:"manual_resolution_required"`
	Description              string `yaml:"description"`
	Automatic                struct {
		CheckType      string                 `yaml:"check_type"`
		ActorContext   string                 `yaml:"actor_context"`
		TargetContext  string                 `yaml:"target_context"`
		TieBreakerRule string                 `yaml:"tie_breaker_rule"`
		Outcomes       map[string]outcomeYAML `yaml:"outcomes"`
	} `yaml:"automatic"`
	Manual struct {
		Outcomes map[string]outcomeYAML `yaml:"outcomes"`
	} `yaml:"manual"`
	Notification struct {
		Message string `yaml:"message"`
	} `yaml:"notification"`
}

type fileYAML struct {
	Defaults map[string]ruleYAML            `yaml:"defaults"`
	Guilds   map[string]map[string]ruleYAML `yaml:"guilds"`
}

// Provider serves rule definitions with guild overrides falling back to
// defaults. It satisfies the domain RuleProvider contract.
type Provider struct {
	defaults map[string]domain.RuleDefinition
	guilds   map[string]map[string]domain.RuleDefinition
}

// Load reads and parses a rules file.
func Load(path string) (*Provider, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(content)
}

// Parse builds a provider from YAML content.
func Parse(content []byte) (*Provider, error) {
	var file fileYAML
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	provider := &Provider{
		defaults: make(map[string]domain.RuleDefinition, len(file.Defaults)),
		guilds:   make(map[string]map[string]domain.RuleDefinition, len(file.Guilds)),
	}
	for conflictType, rule := range file.Defaults {
		provider.defaults[conflictType] = toDefinition(rule)
	}
	for guildID, table := range file.Guilds {
		definitions := make(map[string]domain.RuleDefinition, len(table))
		for conflictType, rule := range table {
			definitions[conflictType] = toDefinition(rule)
		}
		provider.guilds[guildID] = definitions
	}
	return provider, nil
}

// RuleFor returns the definition for a conflict type: the guild's override
// when present, otherwise the default table.
func (p *Provider) RuleFor(guildID, conflictType string) (domain.RuleDefinition, bool) {
	if table, ok := p.guilds[guildID]; ok {
		if rule, ok := table[conflictType]; ok {
			return rule, true
		}
	}
	rule, ok := p.defaults[conflictType]
	return rule, ok
}

// ConflictTypes returns every conflict type a guild has a definition for.
func (p *Provider) ConflictTypes(guildID string) []string {
	seen := make(map[string]bool, len(p.defaults))
	for conflictType := range p.defaults {
		seen[conflictType] = true
	}
	for conflictType := range p.guilds[guildID] {
		seen[conflictType] = true
	}
	types := make([]string, 0, len(seen))
	for conflictType := range seen {
		types = append(types, conflictType)
	}
	return types
}

func toDefinition(rule ruleYAML) domain.RuleDefinition {
	return domain.RuleDefinition{
		ManualResolutionRequired: rule.ManualResolutionRequired,
		Description:              rule.Description,
		Automatic: domain.AutomaticRules{
			CheckType:      rule.Automatic.CheckType,
			ActorContext:   rule.Automatic.ActorContext,
			TargetContext:  rule.Automatic.TargetContext,
			TieBreakerRule: rule.Automatic.TieBreakerRule,
			Outcomes:       toOutcomes(rule.Automatic.Outcomes),
		},
		Manual: domain.ManualRules{
			Outcomes: toOutcomes(rule.Manual.Outcomes),
		},
		Notification: domain.NotificationTemplate{
			Message: rule.Notification.Message,
		},
	}
}

func toOutcomes(outcomes map[string]outcomeYAML) map[string]domain.OutcomeSpec {
	if len(outcomes) == 0 {
		return nil
	}
	specs := make(map[string]domain.OutcomeSpec, len(outcomes))
	for key, outcome := range outcomes {
		effects := make([]domain.Effect, 0, len(outcome.Effects))
		for _, effect := range outcome.Effects {
			effects = append(effects, domain.Effect{Type: effect.Type, Payload: effect.Payload})
		}
		specs[key] = domain.OutcomeSpec{
			Description: outcome.Description,
			Effects:     effects,
		}
	}
	return specs
}
