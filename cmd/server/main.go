package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resihub/community-system/internal/api"
	"github.com/resihub/community-system/internal/infrastructure/config"
	communitymongo "github.com/resihub/community-system/internal/infrastructure/db/mongo"
	communityredis "github.com/resihub/community-system/internal/infrastructure/db/redis"
	"github.com/resihub/community-system/internal/infrastructure/imagestore"
	"github.com/resihub/community-system/internal/infrastructure/notify"
	"github.com/resihub/community-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.Env == "development", os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := communitymongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := communityredis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- External collaborators ---
	images := imagestore.New(cfg.ImageStore.BaseURL, cfg.ImageStore.APIKey, logger.Component("imagestore"))
	email := notify.NewEmailClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From, logger.Component("email"))
	sms := notify.NewSMSClient(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.Sender, logger.Component("sms"))
	publisher := communityredis.NewPublisher(rdb)

	// --- Notification fan-out ---
	dispatcher := notify.NewDispatcher(
		cfg.NotifyWorkers,
		communitymongo.NewUserRepository(db),
		email, sms, publisher,
		cfg.Email.AdminInbox,
		logger.Component("notify"),
	)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		DB:        db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Images:    images,
		Events:    dispatcher,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// ensureIndexes creates every collection index the repositories rely on,
// including the unique email and (resident, month, year) constraints.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := communitymongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := communitymongo.NewComplaintRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := communitymongo.NewAssignmentRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return communitymongo.NewFeeRepository(db).EnsureIndexes(ctx)
}
