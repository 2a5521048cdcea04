package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOccupancyRecordRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOccupancyRecordRepository(db)
	ctx := context.Background()

	property := createTestProperty(t, db)
	source := createTestRoom(t, db, property.ID, 2)
	target := createTestRoom(t, db, property.ID, 2)
	tenantID := uuid.New()
	requestID := uuid.New()

	require.NoError(t, repo.Append(ctx,
		housing.NewOccupancyRecord(source, tenantID, housing.RecordTypeMoveIn, nil, testNow)))
	require.NoError(t, repo.Append(ctx,
		housing.NewOccupancyRecord(source, tenantID, housing.RecordTypeTransferOut, &requestID, testNow.Add(time.Hour)),
		housing.NewOccupancyRecord(target, tenantID, housing.RecordTypeTransferIn, &requestID, testNow.Add(time.Hour)),
	))

	t.Run("room history is newest first", func(t *testing.T) {
		filter := shared.DefaultFilter()
		records, err := repo.FindByRoom(ctx, source.ID, filter)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, housing.RecordTypeTransferOut, records[0].Type)
		assert.Equal(t, &requestID, records[0].RequestID)
		assert.Equal(t, housing.RecordTypeMoveIn, records[1].Type)
		assert.Nil(t, records[1].RequestID)

		count, err := repo.CountByRoom(ctx, source.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("tenant history is oldest first", func(t *testing.T) {
		records, err := repo.FindByTenant(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, housing.RecordTypeMoveIn, records[0].Type)
		assert.Equal(t, property.ID, records[0].PropertyID)
	})

	t.Run("empty append is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Append(ctx))
	})
}
