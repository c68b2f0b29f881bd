package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, strings.TrimSpace(format))
}

func TestAlertLogs(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	sink := NewLogSink(logger)

	err := sink.Alert(context.Background(), "c-1", "guild-1", "Duel awaits your ruling.", domain.Conflict{Type: "duel_challenge"})
	if err != nil {
		t.Fatalf("alert: %v", err)
	}
	if len(logger.lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(logger.lines))
	}
}

func TestAlertRequiresLogger(t *testing.T) {
	t.Parallel()

	sink := NewLogSink(nil)
	if err := sink.Alert(context.Background(), "c-1", "guild-1", "msg", domain.Conflict{}); err == nil {
		t.Fatal("expected missing logger error")
	}
}
