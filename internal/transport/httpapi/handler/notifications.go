package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stellarhub/defihub/internal/notify"
)

// NotificationsHandler serves the in-app notification center.
type NotificationsHandler struct {
	queue *notify.Queue
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(queue *notify.Queue) *NotificationsHandler {
	return &NotificationsHandler{queue: queue}
}

// List handles GET /notifications
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.queue.List()
	if items == nil {
		items = []notify.Notification{}
	}
	respondJSON(w, items, http.StatusOK)
}

// Stream handles GET /notifications/stream as server-sent events. Every
// push, in-place resolve and dismissal is delivered as one event.
func (h *NotificationsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	updates, cancel := h.queue.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, open := <-updates:
			if !open {
				return
			}
			payload, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// Dismiss handles DELETE /notifications/{id}
func (h *NotificationsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid notification id", http.StatusBadRequest)
		return
	}
	if !h.queue.Dismiss(id) {
		respondError(w, "notification not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
