package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-services-backend/internal/api"
	"campus-services-backend/internal/db"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

const integrationSecret = "integration-secret"

// TestBookingLifecycle walks the whole flow: rooms arrive by CSV import, a
// student books one, an admin confirms, and the interval invariants hold at
// every step.
func TestBookingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	appStore := store.NewGormStore(testDB)
	router := api.NewRouter(appStore, nil, api.RouterOptions{
		JWTSecret:       integrationSecret,
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTL:        time.Minute,
	})

	require.NoError(t, testDB.Create(&model.User{Name: "Alice", Email: "alice@campus.edu", Role: model.RoleLecturer}).Error)

	admin := token(t, 1, model.RoleAdmin)
	student := token(t, 2, model.RoleStudent)

	// 1. Rooms arrive via bulk import; one row is bad and must not sink the batch.
	roomsCSV := "name,capacity,maintenanceStart,maintenanceEnd\n" +
		"Lecture Hall A,120\n" +
		"Seminar Room 1,broken\n" +
		"Seminar Room 2,16\n"
	w := request(router, http.MethodPost, "/api/import/rooms", admin, "text/csv", roomsCSV)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"row":2`)
	assert.Contains(t, w.Body.String(), "Capacity must be a positive integer")

	// 2. The student books a slot; an overlapping second attempt is refused.
	w = request(router, http.MethodPost, "/api/bookings", student, "application/json",
		`{"room":"Lecture Hall A","date":"2030-05-01","startTime":"09:00","endTime":"10:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var booking model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))

	w = request(router, http.MethodPost, "/api/bookings", student, "application/json",
		`{"room":"Lecture Hall A","date":"2030-05-01","startTime":"09:30","endTime":"10:30"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 3. The admin confirms; the student is not allowed to.
	patch := fmt.Sprintf("/api/bookings/%d/status", booking.ID)
	w = request(router, http.MethodPatch, patch, student, "application/json", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(router, http.MethodPatch, patch, admin, "application/json", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// 4. The room cannot be deleted while the confirmed booking lies ahead.
	w = request(router, http.MethodDelete, "/api/rooms/Lecture Hall A", admin, "", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// 5. Timetable import honors the exclusive boundary rule.
	ttCSV := "courseName,day,roomName,userEmails,startTime,endTime\n" +
		"Algorithms,Monday,Seminar Room 2,alice@campus.edu,09:00,10:00\n" +
		"Databases,Monday,Seminar Room 2,alice@campus.edu,10:00,11:00\n" +
		"Networks,Monday,Seminar Room 2,alice@campus.edu,10:30,11:30\n"
	w = request(router, http.MethodPost, "/api/import/timetable", admin, "text/csv", ttCSV)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		CreatedCount int      `json:"createdCount"`
		Errors       []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 3: Time conflict with an existing timetable entry", result.Errors[0])

	// 6. No two surviving non-cancelled bookings overlap.
	var bookings []model.Booking
	require.NoError(t, testDB.Where("status <> ?", model.BookingStatusCancelled).Find(&bookings).Error)
	for i, a := range bookings {
		for j, b := range bookings {
			if i == j || a.RoomName != b.RoomName || a.Date != b.Date {
				continue
			}
			overlapping := a.StartTime <= b.EndTime && a.EndTime >= b.StartTime
			assert.False(t, overlapping, "bookings %d and %d overlap", a.ID, b.ID)
		}
	}
}

func token(t *testing.T, userID int64, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  float64(userID),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(integrationSecret))
	require.NoError(t, err)
	return signed
}

func request(r *gin.Engine, method, path, token, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, strings.ReplaceAll(path, " ", "%20"), strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
