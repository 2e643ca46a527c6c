package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

const timetableHeader = "courseName,day,roomName,userEmails,startTime,endTime\n"

func seedTimetableFixtures(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "R101", Capacity: 30}))
	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "R102", Capacity: 60}))
	require.NoError(t, s.DB().Create(&model.User{Name: "Alice", Email: "alice@campus.edu", Role: model.RoleLecturer}).Error)
	require.NoError(t, s.DB().Create(&model.User{Name: "Bob", Email: "bob@campus.edu", Role: model.RoleStudent}).Error)
}

func TestImportTimetables_RequiresAdmin(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	csv := timetableHeader + "Algorithms,Monday,R101,alice@campus.edu,09:00,10:00\n"
	for _, role := range []string{model.RoleStudent, model.RoleLecturer, ""} {
		_, err := imp.ImportTimetables(context.Background(), strings.NewReader(csv), role)
		assert.ErrorIs(t, err, ErrNotAdmin)
	}

	// Fails closed: nothing was created.
	entries, err := s.ListTimetableEntries(context.Background(), store.TimetableFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportTimetables_CreatesEntries(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	csv := timetableHeader +
		"Algorithms,Monday,R101,alice@campus.edu;bob@campus.edu,09:00,10:00\n" +
		"Databases,Tuesday,R102,alice@campus.edu,11:00,12:30\n"
	result, err := imp.ImportTimetables(context.Background(), strings.NewReader(csv), model.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CreatedCount)
	assert.Empty(t, result.Errors)

	entries, err := s.ListTimetableEntries(context.Background(), store.TimetableFilter{Day: "Monday"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Algorithms", entries[0].CourseName)
	assert.Len(t, entries[0].Users, 2)
}

func TestImportTimetables_EqualTimesRejected(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	csv := timetableHeader + "Algorithms,Monday,R101,alice@campus.edu,09:00,09:00\n"
	result, err := imp.ImportTimetables(context.Background(), strings.NewReader(csv), model.RoleAdmin)
	require.NoError(t, err)

	assert.Zero(t, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 1: Start time must be before end time.", result.Errors[0])
}

func TestImportTimetables_BackToBackAccepted(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)
	ctx := context.Background()

	first := timetableHeader + "Algorithms,Monday,R101,alice@campus.edu,09:00,10:00\n"
	result, err := imp.ImportTimetables(ctx, strings.NewReader(first), model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 1, result.CreatedCount)

	// Touching at the boundary is not an overlap for timetable entries.
	second := timetableHeader + "Databases,Monday,R101,bob@campus.edu,10:00,11:00\n"
	result, err = imp.ImportTimetables(ctx, strings.NewReader(second), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
	assert.Empty(t, result.Errors)
}

func TestImportTimetables_OverlapRejected(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	// The second row overlaps the first row of the same batch: intra-batch
	// conflicts are caught because rows are inserted sequentially.
	csv := timetableHeader +
		"Algorithms,Monday,R101,alice@campus.edu,09:00,10:00\n" +
		"Databases,Monday,R101,bob@campus.edu,09:30,10:30\n"
	result, err := imp.ImportTimetables(context.Background(), strings.NewReader(csv), model.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 2: Time conflict with an existing timetable entry", result.Errors[0])
}

func TestImportTimetables_MissingUsersReportedExactly(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	csv := timetableHeader + "Algorithms,Monday,R101,alice@campus.edu;ghost@campus.edu;nobody@campus.edu,09:00,10:00\n"
	result, err := imp.ImportTimetables(context.Background(), strings.NewReader(csv), model.RoleAdmin)
	require.NoError(t, err)

	assert.Zero(t, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 1: Users not found: ghost@campus.edu, nobody@campus.edu", result.Errors[0])
}

func TestImportTimetables_RowNumberingIsStable(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	// Rows 2 and 5 are invalid; created rows and error numbering must not
	// shift because of earlier failures.
	csv := timetableHeader +
		"Algorithms,Monday,R101,alice@campus.edu,09:00,10:00\n" +
		"DB,Monday,R102,alice@campus.edu,09:00,10:00\n" +
		"Databases,Tuesday,R101,alice@campus.edu,09:00,10:00\n" +
		"Networks,Wednesday,R101,bob@campus.edu,09:00,10:00\n" +
		"Compilers,Funday,R101,alice@campus.edu,09:00,10:00\n" +
		"Operating Systems,Thursday,R101,alice@campus.edu,09:00,10:00\n"
	result, err := imp.ImportTimetables(context.Background(), strings.NewReader(csv), model.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, 4, result.CreatedCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "Row 2: Course name must be at least 3 characters", result.Errors[0])
	assert.Equal(t, "Row 5: Invalid day: Funday", result.Errors[1])
}

func TestImportTimetables_ValidationMessages(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	testCases := []struct {
		name string
		row  string
		want string
	}{
		{"unknown room", "Algorithms,Monday,R999,alice@campus.edu,09:00,10:00", "Row 1: Room not found: R999"},
		{"no emails", "Algorithms,Monday,R101,,09:00,10:00", "Row 1: At least one user email is required"},
		{"bad start time", "Algorithms,Monday,R101,alice@campus.edu,9am,10:00", "Row 1: Invalid start time: 9am"},
		{"bad end time", "Algorithms,Monday,R101,alice@campus.edu,09:00,25:00", "Row 1: Invalid end time: 25:00"},
		{"too few columns", "Algorithms,Monday,R101", "Row 1: Expected columns: courseName, day, roomName, userEmails, startTime, endTime"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := imp.ImportTimetables(context.Background(), strings.NewReader(timetableHeader+tc.row+"\n"), model.RoleAdmin)
			require.NoError(t, err)
			assert.Zero(t, result.CreatedCount)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tc.want, result.Errors[0])
		})
	}
}

func TestImportTimetables_DayIsCaseInsensitive(t *testing.T) {
	imp, s := newTestImporter(t)
	seedTimetableFixtures(t, s)

	csv := timetableHeader + "Algorithms,monday,R101,alice@campus.edu,09:00,10:00\n"
	result, err := imp.ImportTimetables(context.Background(), strings.NewReader(csv), model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 1, result.CreatedCount)

	entries, err := s.ListTimetableEntries(context.Background(), store.TimetableFilter{Day: "Monday"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
