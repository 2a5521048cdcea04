package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// setupTestDB opens a migrated in-memory SQLite database. A single
// connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// newMockDB opens GORM with the postgres dialector over sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func createTestProperty(t *testing.T, db *gorm.DB) *housing.Property {
	t.Helper()
	property, err := housing.NewProperty("Maple House", "12 Maple St", testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormPropertyRepository(db).Save(context.Background(), property))
	return property
}

func createTestRoom(t *testing.T, db *gorm.DB, propertyID uuid.UUID, capacity int) *housing.Room {
	t.Helper()
	room, err := housing.NewRoom(propertyID, capacity, housing.RoomDetails{Name: "Room"}, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormRoomRepository(db).Create(context.Background(), room))
	return room
}

func testOccupant(t *testing.T, name string) housing.Occupant {
	t.Helper()
	occ, err := housing.NewOccupant(uuid.New(), name, name+"@example.com", testNow)
	require.NoError(t, err)
	return occ
}
