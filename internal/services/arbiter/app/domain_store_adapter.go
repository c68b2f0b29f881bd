package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/contested.space/internal/services/arbiter/domain"
	"github.com/louisbranch/contested.space/internal/services/arbiter/storage"
)

// domainStoreAdapter bridges the storage record contract to the domain
// pending-store contract. Conflicts travel as JSON inside the record; the
// indexed columns come from the conflict's identity fields.
type domainStoreAdapter struct {
	store storage.PendingConflictStore
	clock func() time.Time
}

func newDomainStoreAdapter(store storage.PendingConflictStore, clock func() time.Time) *domainStoreAdapter {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &domainStoreAdapter{store: store, clock: clock}
}

func (a *domainStoreAdapter) Save(ctx context.Context, conflict domain.Conflict) error {
	if a == nil || a.store == nil {
		return fmt.Errorf("pending store is not configured")
	}
	serialized, err := json.Marshal(conflict)
	if err != nil {
		return fmt.Errorf("serialize conflict %s: %w", conflict.ID, err)
	}
	return a.store.Save(ctx, storage.PendingConflictRecord{
		ID:                 conflict.ID,
		GuildID:            conflict.GuildID,
		SerializedConflict: string(serialized),
		CreatedAt:          a.clock(),
	})
}

func (a *domainStoreAdapter) FetchAndDelete(ctx context.Context, conflictID string) (domain.Conflict, error) {
	if a == nil || a.store == nil {
		return domain.Conflict{}, fmt.Errorf("pending store is not configured")
	}
	record, err := a.store.FetchAndDelete(ctx, conflictID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Conflict{}, domain.ErrNotFound
		}
		return domain.Conflict{}, err
	}
	var conflict domain.Conflict
	if err := json.Unmarshal([]byte(record.SerializedConflict), &conflict); err != nil {
		return domain.Conflict{}, fmt.Errorf("deserialize conflict %s: %w", conflictID, err)
	}
	return conflict, nil
}
