// Package notify delivers master alerts for conflicts awaiting manual
// resolution.
package notify

import (
	"context"
	"fmt"

	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
)

// LogSink writes master alerts to the service log. It is the default sink
// for local runs; deployments wire a real channel (Discord, web inbox)
// behind the same interface.
type LogSink struct {
	logger domain.Logger
}

// NewLogSink builds a sink writing through the given logger.
func NewLogSink(logger domain.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Alert implements the domain notification contract.
func (s *LogSink) Alert(ctx context.Context, conflictID, guildID, message string, conflict domain.Conflict) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.logger == nil {
		return fmt.Errorf("log sink has no logger")
	}
	s.logger.Printf("master alert guild=%s conflict=%s type=%s: %s", guildID, conflictID, conflict.Type, message)
	return nil
}
