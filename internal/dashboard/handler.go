package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/steveyegge/waymark/internal/cache"
)

// Handler feeds dashboard broadcasts from the rest of the system. It
// implements notify.Emitter so core events reach connected clients, and
// exposes a sync hook for the cache daemon.
type Handler struct {
	server *Server
	db     *cache.DB
}

// NewHandler wires a dashboard server to an optional cache database.
// When db is non-nil, each sync completion also broadcasts fresh stats.
func NewHandler(server *Server, db *cache.DB) *Handler {
	return &Handler{server: server, db: db}
}

// Emit broadcasts one core event to all dashboard clients.
func (h *Handler) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.server.Broadcast(Message{
		Type:      MessageTypeEvent,
		Event:     event,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// SyncCompleted reports a finished cache sync. Suitable as a
// cache.Daemon OnSync callback.
func (h *Handler) SyncCompleted(waypoints, deps int) {
	data, _ := json.Marshal(map[string]int{
		"waypoints":    waypoints,
		"dependencies": deps,
	})
	h.server.Broadcast(Message{
		Type:      MessageTypeSyncComplete,
		Timestamp: time.Now(),
		Data:      data,
	})
	h.broadcastStats()
}

func (h *Handler) broadcastStats() {
	if h.db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats, err := h.db.GetStats(ctx)
	if err != nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	h.server.Broadcast(Message{
		Type:      MessageTypeStats,
		Timestamp: time.Now(),
		Data:      data,
	})
}
