package handlers

import (
	"net/http"

	"github.com/adilzhan-s/lostfound/internal/services"
	"github.com/adilzhan-s/lostfound/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler exposes the user's notification inbox.
type NotificationHandler struct {
	Service *services.NotificationService
}

// NewNotificationHandler creates a new instance of NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GetNotificationsHandler handles GET /api/notifications.
func (h *NotificationHandler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	notifications, err := h.Service.GetUserNotifications(r.Context(), userID)
	if err != nil {
		respondError(w, err, "Failed to fetch notifications")
		return
	}

	respondOK(w, "Notifications fetched", apiResponse{"notifications": notifications})
}

// PurgeExpiredHandler handles POST /api/admin/notifications/purge: an
// admin-triggered run of the expired-notification cleanup, for when waiting
// on the hourly cron is not an option.
func (h *NotificationHandler) PurgeExpiredHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteExpiredNotifications(r.Context()); err != nil {
		logrus.WithError(err).Error("Manual notification purge failed")
		respondError(w, err, "Failed to purge notifications")
		return
	}
	respondOK(w, "Expired notifications purged", nil)
}

// MarkReadHandler handles POST /api/notifications/{id}/read. Marking an
// already-read notification succeeds without changing anything.
func (h *NotificationHandler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.MarkAsRead(r.Context(), userID, notifID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"userID":  claims.UserID,
			"notifID": notifID.Hex(),
		}).Warn("Mark-read rejected")
		respondError(w, err, "Notification not found")
		return
	}

	respondOK(w, "Notification marked as read", nil)
}
