package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/audit"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/feed"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/timeline"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Deps holds what the ops endpoints need to answer.
type Deps struct {
	Redis    *redis.Client
	DB       *gorm.DB
	Mongo    *mongo.Client
	Audit    *audit.Store
	Feed     *feed.Hub
	Timeline *timeline.Service
}

// StartServer starts the ops HTTP server
func StartServer(addr string, deps *Deps) error {
	r := mux.NewRouter()

	r.HandleFunc("/health", HealthHandler(deps)).Methods("GET")
	r.HandleFunc("/syncs", RecentSyncsHandler(deps)).Methods("GET")
	r.HandleFunc("/challenges/{legacy_id}/phases", ChallengePhasesHandler(deps)).Methods("GET")
	r.HandleFunc("/challenges/{legacy_id}/phases/{phase_id}", UpdatePhaseHandler(deps)).Methods("PUT")
	r.HandleFunc("/challenges/{legacy_id}/notifications", EnableNotificationsHandler(deps)).Methods("POST")
	r.HandleFunc("/phase-types", PhaseTypesHandler(deps)).Methods("GET")
	r.HandleFunc("/ws/feed", FeedHandler(deps.Feed)).Methods("GET")

	log.Printf("starting ops server on %s", addr)
	return http.ListenAndServe(addr, r)
}
