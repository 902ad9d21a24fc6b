package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"solvehub/internal/api/middleware"
	"solvehub/internal/app/service"
	"solvehub/internal/common"
	"solvehub/internal/domain/model"
	"solvehub/internal/platform/realtime"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	channel             *realtime.RedisChannel // nil disables the stream endpoint
}

func NewNotificationHandler(notificationService *service.NotificationService, channel *realtime.RedisChannel) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, channel: channel}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/{id}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)
	r.Get("/preferences", h.getPreferences)
	r.Put("/preferences", h.updatePreferences)
	r.Get("/stream", h.stream)
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	page, pageSize := pagination(r)

	notifications, err := h.notificationService.List(r.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.notificationService.MarkRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (h *NotificationHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (h *NotificationHandler) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	prefs, err := h.notificationService.GetPreferences(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *NotificationHandler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req model.NotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	prefs, err := h.notificationService.UpdatePreferences(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, prefs)
}

// stream pushes new notifications to the client over server-sent events. The
// persisted records remain the durable fallback; a dropped connection just
// means the client polls on reconnect.
func (h *NotificationHandler) stream(w http.ResponseWriter, r *http.Request) {
	if h.channel == nil {
		common.RespondWithError(w, http.StatusServiceUnavailable, "Realtime channel not configured")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		common.RespondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	messages, closeSub := h.channel.Subscribe(r.Context(), userID)
	defer closeSub()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: notification:new\ndata: %s\n\n", msg.Payload)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
