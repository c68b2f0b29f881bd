// Package storage defines the persistence contract for conflicts awaiting
// manual resolution.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested pending conflict record is missing.
var ErrNotFound = errors.New("record not found")

// PendingConflictRecord stores one conflict awaiting a master decision. The
// conflict itself is carried as serialized JSON; the store never interprets
// it beyond the indexed columns.
type PendingConflictRecord struct {
	ID                 string
	GuildID            string
	SerializedConflict string
	CreatedAt          time.Time
}

// PendingConflictStore persists the manual resolution queue. Save upserts by
// id. FetchAndDelete atomically consumes a record: concurrent calls for the
// same id yield the record to exactly one caller, ErrNotFound to the rest.
type PendingConflictStore interface {
	Save(ctx context.Context, record PendingConflictRecord) error
	FetchAndDelete(ctx context.Context, id string) (PendingConflictRecord, error)
	ListByGuild(ctx context.Context, guildID string) ([]PendingConflictRecord, error)
}
