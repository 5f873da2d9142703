package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/feed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HealthHandler probes the service's backing stores.
func HealthHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"redis":    "ok",
			"postgres": "ok",
			"mongo":    "ok",
		}
		healthy := true

		if err := deps.Redis.Ping(r.Context()).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
		if sqlDB, err := deps.DB.DB(); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else if err := sqlDB.PingContext(r.Context()); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		}
		if err := deps.Mongo.Ping(r.Context(), nil); err != nil {
			checks["mongo"] = err.Error()
			healthy = false
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		WriteJSONResponse(w, checks, status)
	}
}

// RecentSyncsHandler lists the latest processed events from the audit log.
func RecentSyncsHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(50)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 1 {
				WriteJSONError(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		records, err := deps.Audit.Recent(r.Context(), limit)
		if err != nil {
			WriteJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSONResponse(w, records, http.StatusOK)
	}
}

// FeedHandler upgrades the connection and attaches it to the outcome feed.
// Clients only listen; the read loop exists to notice disconnects.
func FeedHandler(hub *feed.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("error upgrading to websocket: %v", err)
			return
		}
		hub.Add(conn)

		go func() {
			defer hub.Remove(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
