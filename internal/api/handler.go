package api

import (
	"campus-services-backend/internal/importer"
	"campus-services-backend/internal/store"
)

// Notifier is the injected notification channel. Handlers fire it and forget
// it; delivery failures never fail the primary operation.
type Notifier interface {
	Dispatch(bookingID int64)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store          store.Store
	importer       *importer.Importer
	notifier       Notifier
	vapidPublicKey string
}

// NewHandler creates a new API handler. notifier may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, imp *importer.Importer, notifier Notifier, vapidPublicKey string) *Handler {
	return &Handler{
		store:          s,
		importer:       imp,
		notifier:       notifier,
		vapidPublicKey: vapidPublicKey,
	}
}
