package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/api"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/audit"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/bus"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/canonical"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/config"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/db"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/dispatch"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/feed"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/handlers"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/legacy"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/lookup"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/model"
	syncpkg "github.com/lijuuu/ChallengeLegacySyncService/internal/sync"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/timeline"
	"github.com/lijuuu/ChallengeLegacySyncService/internal/translate"
)

func main() {
	cfg := config.LoadConfig()

	gormDB, err := db.InitDB(&cfg)
	if err != nil {
		log.Fatalf("postgres init failed: %v", err)
	}
	mongoClient, err := db.InitMongo(&cfg)
	if err != nil {
		log.Fatalf("mongo init failed: %v", err)
	}
	redisClient, err := db.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("redis init failed: %v", err)
	}

	apiClient := api.NewClient(cfg.AuthToken)
	resolver := lookup.NewResolver(apiClient, cfg)
	translator := translate.NewTranslator(resolver, cfg.Legacy)
	gateway := legacy.NewGateway(apiClient, cfg.LegacyChallengeAPIURL)
	updater := canonical.NewUpdater(apiClient, cfg.ChallengeAPIURL)
	publisher := bus.NewPublisher(redisClient, cfg.Originator)

	engine := syncpkg.NewEngine(translator, gateway, updater, publisher, cfg.UpdateTopic, cfg.Legacy.TaskTypeID)

	dispatcher := dispatch.NewDispatcher()
	dispatcher.Register(cfg.CreateTopic, engine.ProcessCreate)
	dispatcher.Register(cfg.UpdateTopic, engine.ProcessUpdate)

	auditStore := audit.NewStore(mongoClient, cfg.MongoDB)
	hub := feed.NewHub()
	timelineService := timeline.NewService(gormDB)

	onProcessed := func(msg *model.EventMessage, outcome syncpkg.Outcome, procErr error, took time.Duration) {
		record := audit.Record{
			ChallengeID: challengeIDFromPayload(msg),
			Topic:       msg.Topic,
			Outcome:     string(outcome),
			DurationMS:  took.Milliseconds(),
		}
		if procErr != nil {
			record.Error = procErr.Error()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := auditStore.Insert(ctx, record); err != nil {
			log.Printf("failed to record sync outcome: %v", err)
		}
		hub.Broadcast(feed.OutcomeEvent{
			ChallengeID: record.ChallengeID,
			Topic:       record.Topic,
			Outcome:     record.Outcome,
			Error:       record.Error,
		})
	}

	consumer := bus.NewConsumer(
		redisClient,
		cfg.ConsumerGroup,
		cfg.ConsumerName,
		[]string{cfg.CreateTopic, cfg.UpdateTopic},
		dispatcher,
		onProcessed,
	)

	go func() {
		if err := consumer.Run(context.Background()); err != nil {
			log.Fatalf("consumer stopped: %v", err)
		}
	}()

	deps := &handlers.Deps{
		Redis:    redisClient,
		DB:       gormDB,
		Mongo:    mongoClient,
		Audit:    auditStore,
		Feed:     hub,
		Timeline: timelineService,
	}
	if err := handlers.StartServer(":"+cfg.HTTPPort, deps); err != nil {
		log.Fatalf("ops server failed: %v", err)
	}
}

func challengeIDFromPayload(msg *model.EventMessage) string {
	var event model.ChallengeEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return ""
	}
	return event.ID
}
