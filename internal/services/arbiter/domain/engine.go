package domain

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/contested.space/internal/platform/errors"
)

var tracer = otel.Tracer("contested.space/arbiter")

// RoutingResult reports what happened to one detected conflict: either a
// terminal Conflict (resolved automatically or failed) or a queue Receipt
// for conflicts awaiting a master. Exactly one of the two is meaningful.
type RoutingResult struct {
	Conflict Conflict `json:"conflict"`
	Receipt  *Receipt `json:"receipt,omitempty"`
}

// MasterResolutionResult is the consumed conflict after a master ruling,
// with a message suitable for relaying to the master.
type MasterResolutionResult struct {
	Conflict Conflict `json:"conflict"`
	Message  string   `json:"message"`
}

// Engine is the conflict resolution facade: detection, routing between
// automatic and manual resolution, and master decision consumption.
type Engine struct {
	detector  *Detector
	automatic *AutomaticResolver
	queue     *ManualQueue
	master    *MasterHandler
	rules     RuleProvider
	logger    Logger
}

// Options collects the engine's injected capabilities.
type Options struct {
	RuleEngine RuleEngine
	Rules      RuleProvider
	Store      PendingStore
	Sink       NotificationSink
	Render     RenderFunc
	NewID      func() (string, error)
	Logger     Logger
	Matchers   []Matcher
}

// NewEngine wires the detector, resolver, queue, and master handler from a
// single option set.
func NewEngine(opts Options) *Engine {
	return &Engine{
		detector:  NewDetector(opts.Rules, opts.Logger, opts.Matchers...),
		automatic: NewAutomaticResolver(opts.RuleEngine, opts.Rules, opts.NewID, opts.Logger),
		queue:     NewManualQueue(opts.Store, opts.Rules, opts.Sink, opts.Render, opts.NewID, nil, opts.Logger),
		master:    NewMasterHandler(opts.Store, opts.Rules, opts.RuleEngine, opts.Logger),
		rules:     opts.Rules,
		logger:    opts.Logger,
	}
}

// DetectAndRoute detects conflicts in a tick's action map and routes each to
// automatic or manual resolution per its rule definition. Results appear in
// detection order. A routing failure for one conflict is captured in its
// result; it never aborts the remaining conflicts.
func (e *Engine) DetectAndRoute(ctx context.Context, actions map[string][]Action, guildID string) ([]RoutingResult, error) {
	ctx, span := tracer.Start(ctx, "arbiter.DetectAndRoute",
		trace.WithAttributes(attribute.String("guild.id", guildID), attribute.Int("actions.entities", len(actions))))
	defer span.End()

	conflicts := e.detector.Detect(actions, guildID)
	results := make([]RoutingResult, 0, len(conflicts))
	for _, conflict := range conflicts {
		results = append(results, e.route(ctx, conflict))
	}
	span.SetAttributes(attribute.Int("conflicts.detected", len(conflicts)))
	return results, nil
}

// RouteConflict routes one already-identified conflict without running
// detection, for callers that detect contention upstream.
func (e *Engine) RouteConflict(ctx context.Context, conflict Conflict) (RoutingResult, error) {
	ctx, span := tracer.Start(ctx, "arbiter.RouteConflict",
		trace.WithAttributes(attribute.String("guild.id", conflict.GuildID), attribute.String("conflict.type", conflict.Type)))
	defer span.End()

	return e.route(ctx, conflict), nil
}

// route sends one identified conflict down its configured path.
func (e *Engine) route(ctx context.Context, conflict Conflict) RoutingResult {
	rule, ok := e.rules.RuleFor(conflict.GuildID, conflict.Type)
	if ok && rule.ManualResolutionRequired {
		receipt, err := e.queue.Enqueue(ctx, conflict)
		if err != nil {
			e.logf("conflict %s: enqueue failed: %v", conflict.ID, err)
			conflict.Status = StatusFailed
			conflict.FailureReason = failureCode(err)
			return RoutingResult{Conflict: conflict}
		}
		conflict.ID = receipt.ConflictID
		conflict.Status = StatusAwaitingManualResolution
		return RoutingResult{Conflict: conflict, Receipt: &receipt}
	}
	return RoutingResult{Conflict: e.automatic.Resolve(ctx, conflict)}
}

// ResolveMasterDecision consumes a queued conflict with a master ruling.
func (e *Engine) ResolveMasterDecision(ctx context.Context, conflictID string, decision MasterDecision) (MasterResolutionResult, error) {
	ctx, span := tracer.Start(ctx, "arbiter.ResolveMasterDecision",
		trace.WithAttributes(attribute.String("conflict.id", conflictID), attribute.String("outcome.type", decision.OutcomeType)))
	defer span.End()

	conflict, err := e.master.Resolve(ctx, conflictID, decision)
	if err != nil {
		span.RecordError(err)
		return MasterResolutionResult{}, err
	}
	result := MasterResolutionResult{Conflict: conflict}
	if conflict.Outcome != nil {
		result.Message = fmt.Sprintf("Conflict %s resolved: %s", conflict.ID, conflict.Outcome.Description)
	}
	return result, nil
}

// failureCode extracts the structured code from an error chain.
func failureCode(err error) apperrors.Code {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return apperrors.CodeUnknown
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
