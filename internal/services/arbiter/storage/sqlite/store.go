// Package sqlite provides SQLite-backed persistence for the manual
// resolution queue.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/contested.space/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/contested.space/internal/services/arbiter/storage"
	"github.com/louisbranch/contested.space/internal/services/arbiter/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for pending conflicts.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens an arbiter SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

// Save upserts one pending conflict row by id.
func (s *Store) Save(ctx context.Context, record storage.PendingConflictRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("pending conflict id is required")
	}
	if strings.TrimSpace(record.GuildID) == "" {
		return fmt.Errorf("pending conflict guild id is required")
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO pending_conflicts (id, guild_id, serialized_conflict, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			guild_id = excluded.guild_id,
			serialized_conflict = excluded.serialized_conflict
	`, record.ID, record.GuildID, record.SerializedConflict, toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("save pending conflict: %w", err)
	}
	return nil
}

// FetchAndDelete consumes one pending conflict row. The delete and read are
// one statement, so a row is observed by at most one caller.
func (s *Store) FetchAndDelete(ctx context.Context, id string) (storage.PendingConflictRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PendingConflictRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PendingConflictRecord{}, fmt.Errorf("storage is not configured")
	}

	var record storage.PendingConflictRecord
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
		DELETE FROM pending_conflicts
		WHERE id = ?
		RETURNING id, guild_id, serialized_conflict, created_at
	`, id).Scan(&record.ID, &record.GuildID, &record.SerializedConflict, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PendingConflictRecord{}, storage.ErrNotFound
		}
		return storage.PendingConflictRecord{}, fmt.Errorf("consume pending conflict: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

// ListByGuild returns a guild's queued conflicts in enqueue order.
func (s *Store) ListByGuild(ctx context.Context, guildID string) ([]storage.PendingConflictRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, guild_id, serialized_conflict, created_at
		FROM pending_conflicts
		WHERE guild_id = ?
		ORDER BY created_at ASC, id ASC
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("list pending conflicts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []storage.PendingConflictRecord
	for rows.Next() {
		var record storage.PendingConflictRecord
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.GuildID, &record.SerializedConflict, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending conflict: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending conflicts: %w", err)
	}
	return records, nil
}
