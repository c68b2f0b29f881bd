// Package server wires the conflict resolution engine from its concrete
// parts: the SQLite queue store, the YAML rule provider, the default rule
// engine, and the log notification sink.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
	"github.com/louisbranch/contested.space/internal/services/arbiter/mechanics"
	"github.com/louisbranch/contested.space/internal/services/arbiter/notify"
	"github.com/louisbranch/contested.space/internal/services/arbiter/render"
	"github.com/louisbranch/contested.space/internal/services/arbiter/rules"
	"github.com/louisbranch/contested.space/internal/services/arbiter/storage"
	storagesqlite "github.com/louisbranch/contested.space/internal/services/arbiter/storage/sqlite"
)

// Options configures the arbiter service assembly. Zero-value fields fall
// back to defaults; Store and RuleEngine allow tests and deployments to
// substitute implementations.
type Options struct {
	DBPath     string
	RulesPath  string
	Store      storage.PendingConflictStore
	RuleEngine domain.RuleEngine
	Sink       domain.NotificationSink
	Rules      domain.RuleProvider
	Logger     domain.Logger
	Clock      func() time.Time
}

// Service is the assembled conflict resolution service.
type Service struct {
	Engine *domain.Engine
	Store  storage.PendingConflictStore

	closers []func() error
}

// New assembles a service. The caller must Close it to release the store.
func New(opts Options) (*Service, error) {
	service := &Service{}

	ruleProvider := opts.Rules
	if ruleProvider == nil {
		if opts.RulesPath == "" {
			return nil, fmt.Errorf("rules path is required")
		}
		loaded, err := rules.Load(opts.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		ruleProvider = loaded
	}

	store := opts.Store
	if store == nil {
		if opts.DBPath == "" {
			return nil, fmt.Errorf("db path is required")
		}
		opened, err := storagesqlite.Open(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		store = opened
		service.closers = append(service.closers, opened.Close)
	}
	service.Store = store

	ruleEngine := opts.RuleEngine
	if ruleEngine == nil {
		ruleEngine = mechanics.New(nil, opts.Clock)
	}

	sink := opts.Sink
	if sink == nil {
		sink = notify.NewLogSink(opts.Logger)
	}

	service.Engine = domain.NewEngine(domain.Options{
		RuleEngine: ruleEngine,
		Rules:      ruleProvider,
		Store:      newDomainStoreAdapter(store, opts.Clock),
		Sink:       sink,
		Render:     render.Message,
		Logger:     opts.Logger,
	})
	return service, nil
}

// PendingConflicts returns the guild's conflicts awaiting a master ruling,
// oldest first.
func (s *Service) PendingConflicts(ctx context.Context, guildID string) ([]domain.Conflict, error) {
	records, err := s.Store.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list pending conflicts: %w", err)
	}
	conflicts := make([]domain.Conflict, 0, len(records))
	for _, record := range records {
		var conflict domain.Conflict
		if err := json.Unmarshal([]byte(record.SerializedConflict), &conflict); err != nil {
			return nil, fmt.Errorf("deserialize conflict %s: %w", record.ID, err)
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts, nil
}

// Close releases resources owned by the service.
func (s *Service) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
