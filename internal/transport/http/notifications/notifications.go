package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/httperrors"
)

type service interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type listRequest struct {
	UserID uuid.UUID `schema:"userId,required"`
	Limit  int       `schema:"limit"`
	Offset int       `schema:"offset"`
}

// List handles the notification listing request.
func List(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &listRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request for list notifications", "error", err)

		return
	}

	ns, err := service.List(r.Context(), query.UserID, query.Limit, query.Offset)
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error listing notifications", "error", err)

		return
	}
	if ns == nil {
		ns = []notification.Notification{}
	}

	if err := json.NewEncoder(w).Encode(ns); err != nil {
		slog.Error("Error sending response for list notifications", "error", err)
	}
}

// UnreadCount handles the unread counter request.
func UnreadCount(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)

		return
	}

	count, err := service.UnreadCount(r.Context(), userID)
	if err != nil {
		httperrors.Write(w, err)
		slog.Error("Error counting unread notifications", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(map[string]int{"count": count}); err != nil {
		slog.Error("Error sending response for unread count", "error", err)
	}
}

type markReadRequest struct {
	UserID uuid.UUID `json:"userId"`
}

// MarkRead handles marking one notification as read.
func MarkRead(w http.ResponseWriter, r *http.Request, service service) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)

		return
	}

	req := markReadRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == uuid.Nil {
		http.Error(w, "userId is required", http.StatusBadRequest)

		return
	}

	if err := service.MarkRead(r.Context(), id, req.UserID); err != nil {
		httperrors.Write(w, err)
		slog.Error("Error marking notification read", "notification_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles marking all of a user's notifications as read.
func MarkAllRead(w http.ResponseWriter, r *http.Request, service service) {
	req := markReadRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == uuid.Nil {
		http.Error(w, "userId is required", http.StatusBadRequest)

		return
	}

	if err := service.MarkAllRead(r.Context(), req.UserID); err != nil {
		httperrors.Write(w, err)
		slog.Error("Error marking notifications read", "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
