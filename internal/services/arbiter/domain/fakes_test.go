package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var testGameTime = time.Date(2026, 8, 23, 18, 0, 0, 0, time.UTC)

// fakeRules serves one definition table for every guild, with optional
// per-guild overrides.
type fakeRules struct {
	defaults map[string]RuleDefinition
	guilds   map[string]map[string]RuleDefinition
}

func (f *fakeRules) RuleFor(guildID, conflictType string) (RuleDefinition, bool) {
	if table, ok := f.guilds[guildID]; ok {
		if rule, ok := table[conflictType]; ok {
			return rule, true
		}
	}
	rule, ok := f.defaults[conflictType]
	return rule, ok
}

// fakeEngine scripts check totals by entity id and dice totals in call order.
type fakeEngine struct {
	totalsByEntity map[string]int
	outcomes       map[string]string
	diceTotals     []int
	checkErr       error
	diceErr        error
	gameTimeErr    error

	checkRequests []CheckRequest
}

func (f *fakeEngine) ResolveCheck(_ context.Context, req CheckRequest) (CheckResult, error) {
	f.checkRequests = append(f.checkRequests, req)
	if f.checkErr != nil {
		return CheckResult{}, f.checkErr
	}
	total, ok := f.totalsByEntity[req.EntityID]
	if !ok {
		return CheckResult{}, fmt.Errorf("no scripted total for %s", req.EntityID)
	}
	outcome := f.outcomes[req.EntityID]
	if outcome == "" {
		outcome = CheckOutcomeFailure
		if total >= 10 {
			outcome = CheckOutcomeSuccess
		}
	}
	return CheckResult{TotalRollValue: total, Outcome: outcome}, nil
}

func (f *fakeEngine) ResolveDiceRoll(_ context.Context, _ string) (DiceResult, error) {
	if f.diceErr != nil {
		return DiceResult{}, f.diceErr
	}
	if len(f.diceTotals) == 0 {
		return DiceResult{}, errors.New("no scripted dice totals left")
	}
	total := f.diceTotals[0]
	f.diceTotals = f.diceTotals[1:]
	return DiceResult{Total: total}, nil
}

func (f *fakeEngine) GameTime(_ context.Context) (time.Time, error) {
	if f.gameTimeErr != nil {
		return time.Time{}, f.gameTimeErr
	}
	return testGameTime, nil
}

// fakeStore is an in-memory pending store with error injection.
type fakeStore struct {
	mu       sync.Mutex
	saved    map[string]Conflict
	saveErr  error
	fetchErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]Conflict)}
}

func (f *fakeStore) Save(_ context.Context, conflict Conflict) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[conflict.ID] = conflict
	return nil
}

func (f *fakeStore) FetchAndDelete(_ context.Context, conflictID string) (Conflict, error) {
	if f.fetchErr != nil {
		return Conflict{}, f.fetchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	conflict, ok := f.saved[conflictID]
	if !ok {
		return Conflict{}, ErrNotFound
	}
	delete(f.saved, conflictID)
	return conflict, nil
}

// fakeSink records alerts and can fail on demand.
type fakeSink struct {
	alerts []string
	err    error
}

func (f *fakeSink) Alert(_ context.Context, conflictID, guildID, message string, _ Conflict) error {
	if f.err != nil {
		return f.err
	}
	f.alerts = append(f.alerts, fmt.Sprintf("%s|%s|%s", guildID, conflictID, message))
	return nil
}

// testLogger captures log lines for assertions.
type testLogger struct {
	lines []string
}

func (l *testLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func sequentialIDs(prefix string) func() (string, error) {
	next := 0
	return func() (string, error) {
		next++
		return fmt.Sprintf("%s-%d", prefix, next), nil
	}
}

func opposedRule(tieBreaker string) RuleDefinition {
	return RuleDefinition{
		Automatic: AutomaticRules{
			CheckType:      CheckTypeOpposed,
			ActorContext:   "combat_initiative",
			TargetContext:  "combat_initiative",
			TieBreakerRule: tieBreaker,
			Outcomes: map[string]OutcomeSpec{
				OutcomeKeyActorWins: {
					Description: "The actor prevails.",
					Effects:     []Effect{{Type: "MOVE_ENTITY"}},
				},
				OutcomeKeyTargetWins: {
					Description: "The target holds.",
				},
			},
		},
	}
}
