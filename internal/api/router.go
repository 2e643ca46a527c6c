package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"campus-services-backend/internal/importer"
	"campus-services-backend/internal/mw"
	"campus-services-backend/internal/store"
)

// RouterOptions carries the transport-level settings for NewRouter.
type RouterOptions struct {
	JWTSecret       string
	RateLimitPerSec float64
	RateLimitBurst  int
	RequestIPHeader string
	CacheTTL        time.Duration
	ImportMaxRows   int
	VAPIDPublicKey  string
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, notifier Notifier, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	imp := importer.New(s, opts.ImportMaxRows)
	handler := NewHandler(s, imp, notifier, opts.VAPIDPublicKey)

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst, opts.RequestIPHeader)

	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Auth(opts.JWTSecret))
	{
		api.GET("/rooms", caching, handler.ListRooms)
		api.POST("/rooms", mw.RequireAdmin(), handler.CreateRoom)
		api.DELETE("/rooms/:name", mw.RequireAdmin(), handler.DeleteRoom)
		api.GET("/rooms/:name/bookings", handler.ListRoomBookings)

		api.GET("/bookings", handler.ListBookings)
		api.POST("/bookings", handler.CreateBooking)
		api.PATCH("/bookings/:id/status", mw.RequireAdmin(), handler.UpdateBookingStatus)

		api.GET("/timetable", caching, handler.ListTimetable)
		api.POST("/timetable", mw.RequireAdmin(), handler.CreateTimetableEntry)

		api.POST("/import/rooms", mw.RequireAdmin(), handler.ImportRooms)
		// The timetable importer checks the role itself, before any row is
		// processed; the handler maps the refusal to 403.
		api.POST("/import/timetable", handler.ImportTimetable)

		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
