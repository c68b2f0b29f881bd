package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
	"github.com/louisbranch/contested.space/internal/services/arbiter/storage"
)

type fakePendingStore struct {
	records map[string]storage.PendingConflictRecord
	saveErr error
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{records: make(map[string]storage.PendingConflictRecord)}
}

func (f *fakePendingStore) Save(_ context.Context, record storage.PendingConflictRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakePendingStore) FetchAndDelete(_ context.Context, id string) (storage.PendingConflictRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return storage.PendingConflictRecord{}, storage.ErrNotFound
	}
	delete(f.records, id)
	return record, nil
}

func (f *fakePendingStore) ListByGuild(_ context.Context, guildID string) ([]storage.PendingConflictRecord, error) {
	var records []storage.PendingConflictRecord
	for _, record := range f.records {
		if record.GuildID == guildID {
			records = append(records, record)
		}
	}
	return records, nil
}

func TestAdapterRoundTripsConflict(t *testing.T) {
	t.Parallel()

	store := newFakePendingStore()
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	adapter := newDomainStoreAdapter(store, func() time.Time { return now })

	conflict := domain.Conflict{
		ID:      "c-1",
		GuildID: "guild-1",
		Type:    "duel_challenge",
		InvolvedEntities: []domain.Entity{
			{ID: "p1", Type: "character"},
			{ID: "p2", Type: "character"},
		},
		Details: map[string]any{"contention_key": "dueling_grounds"},
		Status:  domain.StatusAwaitingManualResolution,
	}
	if err := adapter.Save(context.Background(), conflict); err != nil {
		t.Fatalf("save conflict: %v", err)
	}
	if record := store.records["c-1"]; record.GuildID != "guild-1" || !record.CreatedAt.Equal(now) {
		t.Fatalf("unexpected stored record: %+v", record)
	}

	got, err := adapter.FetchAndDelete(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("fetch and delete: %v", err)
	}
	if got.ID != "c-1" || got.Status != domain.StatusAwaitingManualResolution {
		t.Fatalf("unexpected conflict: %+v", got)
	}
	if got.InvolvedEntities[0].ID != "p1" || got.InvolvedEntities[1].ID != "p2" {
		t.Fatalf("entity order not preserved: %+v", got.InvolvedEntities)
	}
}

func TestAdapterMapsNotFound(t *testing.T) {
	t.Parallel()

	adapter := newDomainStoreAdapter(newFakePendingStore(), nil)
	if _, err := adapter.FetchAndDelete(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}

func TestAdapterRejectsCorruptRecord(t *testing.T) {
	t.Parallel()

	store := newFakePendingStore()
	store.records["c-1"] = storage.PendingConflictRecord{
		ID:                 "c-1",
		GuildID:            "guild-1",
		SerializedConflict: "{not json",
	}
	adapter := newDomainStoreAdapter(store, nil)
	if _, err := adapter.FetchAndDelete(context.Background(), "c-1"); err == nil {
		t.Fatal("expected deserialize error")
	}
}
