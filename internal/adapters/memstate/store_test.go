package memstate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := New(time.Hour)
	ctx := context.Background()

	status := &model.BatchStatus{
		ID:          "batch-1",
		SubmittedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Codes: []model.CodeStatus{
			{ProcessCode: "CIV1001", State: model.CodeStateDispatched},
		},
	}
	require.NoError(t, store.Save(ctx, status))

	got, err := store.Get(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, "batch-1", got.ID)
	require.Len(t, got.Codes, 1)
	assert.Equal(t, model.CodeStateDispatched, got.Codes[0].State)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := New(time.Hour)
	ctx := context.Background()

	status := &model.BatchStatus{
		ID:    "batch-1",
		Codes: []model.CodeStatus{{ProcessCode: "CIV1001", State: model.CodeStateDispatched}},
	}
	require.NoError(t, store.Save(ctx, status))

	// Mutating the live snapshot after Save must not affect stored state.
	status.Codes[0].State = model.CodeStatePublished

	got, err := store.Get(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, model.CodeStateDispatched, got.Codes[0].State)
}

func TestStoreGetUnknown(t *testing.T) {
	store := New(time.Hour)

	_, err := store.Get(context.Background(), "no-such-batch")
	assert.ErrorIs(t, err, core.ErrBatchNotFound)
}

func TestStoreSaveValidation(t *testing.T) {
	store := New(time.Hour)

	require.Error(t, store.Save(context.Background(), nil))
	require.Error(t, store.Save(context.Background(), &model.BatchStatus{}))
}

func TestStoreExpiry(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store := NewWithClock(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.BatchStatus{ID: "batch-1"}))

	_, err := store.Get(ctx, "batch-1")
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Minute)
	_, err = store.Get(ctx, "batch-1")
	assert.ErrorIs(t, err, core.ErrBatchNotFound)
}

func TestStoreSaveResetsTTL(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store := NewWithClock(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.BatchStatus{ID: "batch-1"}))

	now = now.Add(50 * time.Minute)
	require.NoError(t, store.Save(ctx, &model.BatchStatus{ID: "batch-1"}))

	now = now.Add(50 * time.Minute)
	_, err := store.Get(ctx, "batch-1")
	require.NoError(t, err)
}

func TestStorePrunesExpiredEntries(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store := NewWithClock(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.BatchStatus{ID: "old"}))

	now = now.Add(2 * time.Hour)
	require.NoError(t, store.Save(ctx, &model.BatchStatus{ID: "new"}))

	store.mu.Lock()
	_, oldStillHeld := store.entries["old"]
	store.mu.Unlock()
	assert.False(t, oldStillHeld, "expired entries must be pruned on save")
}
