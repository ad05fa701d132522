package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"campusmentor/backend/internal/api/handler"
	"campusmentor/backend/internal/chat"
	"campusmentor/backend/internal/chathub"
	"campusmentor/backend/internal/config"
	"campusmentor/backend/internal/logger"
	"campusmentor/backend/internal/moderation"
	"campusmentor/backend/internal/ranking"
	"campusmentor/backend/internal/report"
	"campusmentor/backend/internal/request"
	"campusmentor/backend/internal/storage"
	"campusmentor/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func setupDependencies(cfg *config.Config, zlog *zap.Logger) (*mongo.Database, *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zlog.Fatal("failed to connect MongoDB", zap.Error(err))
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		zlog.Fatal("failed to ping MongoDB", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		zlog.Fatal("failed to connect Redis", zap.Error(err))
	}

	zlog.Info("database and redis connections established")
	return client.Database(cfg.MongoDatabase), rdb
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting campusmentor backend")

	db, rdb := setupDependencies(cfg, zlog)
	store := storage.NewService(db, rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Profile reads go through the cache; the ranker and the search handler
	// share the same cached source.
	profileCache := ranking.NewProfileCache(store, &ranking.RedisBackend{Client: rdb}, config.ProfileCacheTTL, zlog)
	ranker := ranking.NewRanker(profileCache)

	// One moderation client, two policies: request messages block on outage,
	// chat messages pass with a warning.
	modClient := moderation.NewClient(cfg.ModerationURL)
	requestGate := moderation.NewGate(modClient, moderation.PolicyBlocking, zlog)
	chatGate := moderation.NewGate(modClient, moderation.PolicyAdvisory, zlog)

	lifecycle := request.NewLifecycle(store, requestGate)
	chatSvc := chat.NewService(store, chatGate, zlog)

	hub := chathub.NewHub(store, zlog)
	go hub.Run(ctx)
	hub.ListenEvents(ctx, store.SubscribeChannelEvents(ctx))

	var notifier report.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramReviewerChat != "" {
		chatID, err := strconv.ParseInt(cfg.TelegramReviewerChat, 10, 64)
		if err != nil {
			zlog.Fatal("invalid TELEGRAM_REVIEWER_CHAT", zap.Error(err))
		}
		tg, err := telegram.NewReviewerNotifier(cfg.TelegramBotToken, chatID, zlog)
		if err != nil {
			zlog.Fatal("failed to start telegram notifier", zap.Error(err))
		}
		notifier = tg
	}
	reports := report.NewService(store, notifier, zlog)

	r := gin.Default()
	h := handler.NewHandler(store, profileCache, ranker, lifecycle, chatSvc, reports, hub, cfg.JWTSecret, zlog)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	zlog.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
