package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-services-backend/internal/db"
	"campus-services-backend/internal/store"
)

const roomHeader = "name,capacity,maintenanceStart,maintenanceEnd\n"

func newTestImporter(t *testing.T) (*Importer, store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	s := store.NewGormStore(gormDB)
	return New(s, 0), s
}

func TestImportRooms_CreatesRoomsAndWindows(t *testing.T) {
	imp, s := newTestImporter(t)

	csv := roomHeader +
		"R101,30,,\n" +
		"R102,50,2026-07-01,2026-07-14\n"
	result, err := imp.ImportRooms(context.Background(), strings.NewReader(csv), false)
	require.NoError(t, err)

	assert.True(t, result.Succeeded)
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Errors)

	room, err := s.GetRoomByName(context.Background(), "R102")
	require.NoError(t, err)
	assert.Equal(t, 50, room.Capacity)
	require.Len(t, room.MaintenanceWindows, 1)
}

func TestImportRooms_StripsByteOrderMark(t *testing.T) {
	imp, s := newTestImporter(t)

	csv := "\uFEFF" + roomHeader + "R101,30\n"
	result, err := imp.ImportRooms(context.Background(), strings.NewReader(csv), false)
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)

	_, err = s.GetRoomByName(context.Background(), "R101")
	assert.NoError(t, err)
}

func TestImportRooms_ReimportWithoutSkipReportsEveryDuplicate(t *testing.T) {
	imp, _ := newTestImporter(t)
	ctx := context.Background()
	csv := roomHeader + "R101,30\nR102,50\n"

	first, err := imp.ImportRooms(ctx, strings.NewReader(csv), false)
	require.NoError(t, err)
	require.Len(t, first.Created, 2)

	second, err := imp.ImportRooms(ctx, strings.NewReader(csv), false)
	require.NoError(t, err)
	assert.False(t, second.Succeeded)
	assert.Empty(t, second.Created)
	require.Len(t, second.Errors, 2)
	for _, re := range second.Errors {
		assert.Equal(t, "Room already exists", re.Error)
	}
	assert.Equal(t, "All rooms in the file already exist", second.Message)
}

func TestImportRooms_ReimportWithSkipIsQuiet(t *testing.T) {
	imp, _ := newTestImporter(t)
	ctx := context.Background()
	csv := roomHeader + "R101,30\nR102,50\n"

	_, err := imp.ImportRooms(ctx, strings.NewReader(csv), false)
	require.NoError(t, err)

	second, err := imp.ImportRooms(ctx, strings.NewReader(csv), true)
	require.NoError(t, err)
	assert.True(t, second.Succeeded)
	assert.Empty(t, second.Created)
	assert.Empty(t, second.Errors)
}

func TestImportRooms_RowFailuresDoNotAbortBatch(t *testing.T) {
	imp, _ := newTestImporter(t)

	// Rows 2 and 5 are invalid; everything else must still be created.
	csv := roomHeader +
		"R101,30\n" +
		",40\n" +
		"R103,25\n" +
		"R104,10\n" +
		"R105,zero\n" +
		"R106,80\n"
	result, err := imp.ImportRooms(context.Background(), strings.NewReader(csv), false)
	require.NoError(t, err)

	assert.True(t, result.Succeeded)
	assert.Len(t, result.Created, 4)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "Room name is required", result.Errors[0].Error)
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Equal(t, "Capacity must be a positive integer", result.Errors[1].Error)
}

func TestImportRooms_ValidationMessages(t *testing.T) {
	imp, _ := newTestImporter(t)

	testCases := []struct {
		name string
		row  string
		want string
	}{
		{"zero capacity", "R1,0", "Capacity must be a positive integer"},
		{"negative capacity", "R1,-3", "Capacity must be a positive integer"},
		{"inverted maintenance range", "R1,10,2026-08-01,2026-07-01", "Maintenance start date must not be after end date"},
		{"half maintenance range", "R1,10,2026-08-01,", "Maintenance start and end dates must both be provided"},
		{"bad maintenance date", "R1,10,August,2026-08-02", "Invalid maintenance start date: August"},
		{"too few columns", "R1", "Expected columns: name, capacity, maintenanceStart, maintenanceEnd"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := imp.ImportRooms(context.Background(), strings.NewReader(roomHeader+tc.row+"\n"), false)
			require.NoError(t, err)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, 1, result.Errors[0].Row)
			assert.Equal(t, tc.want, result.Errors[0].Error)
			assert.False(t, result.Succeeded)
			assert.Equal(t, "No rooms were imported", result.Message)
		})
	}
}

func TestImportRooms_IntraBatchDuplicate(t *testing.T) {
	imp, _ := newTestImporter(t)

	csv := roomHeader + "R101,30\nR101,30\n"
	result, err := imp.ImportRooms(context.Background(), strings.NewReader(csv), false)
	require.NoError(t, err)

	// The second occurrence sees the row inserted moments earlier.
	assert.Len(t, result.Created, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "Room already exists", result.Errors[0].Error)
	assert.True(t, result.Succeeded)
}

func TestImportRooms_MaxRows(t *testing.T) {
	_, s := newTestImporter(t)
	imp := New(s, 2)

	csv := roomHeader + "R101,30\nR102,30\nR103,30\n"
	result, err := imp.ImportRooms(context.Background(), strings.NewReader(csv), false)
	require.NoError(t, err)

	assert.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
}

func TestImportRooms_EmptyFile(t *testing.T) {
	imp, _ := newTestImporter(t)

	result, err := imp.ImportRooms(context.Background(), strings.NewReader(roomHeader), false)
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "No new rooms to import", result.Message)
}
