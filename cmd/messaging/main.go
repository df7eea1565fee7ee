package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/yildirimyagiz/menem-sub000/internal/api"
	"github.com/yildirimyagiz/menem-sub000/internal/auth"
	"github.com/yildirimyagiz/menem-sub000/internal/cache"
	"github.com/yildirimyagiz/menem-sub000/internal/config"
	"github.com/yildirimyagiz/menem-sub000/internal/events"
	"github.com/yildirimyagiz/menem-sub000/internal/logger"
	"github.com/yildirimyagiz/menem-sub000/internal/repository"
	"github.com/yildirimyagiz/menem-sub000/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(logger.Config{Development: cfg.App.Env != "production"})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	mc, err := repository.NewMongoClient(cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.DB)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pub := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog)
	defer func() { _ = pub.Close() }()

	counters := cache.NewUnreadCounters(rdb, cfg.Redis.Prefix, 30*time.Second)

	chatSvc := service.NewChatService(repository.NewMessageRepository(db), counters, pub, zlog)
	channelSvc := service.NewChannelService(repository.NewChannelRepository(db))
	notifSvc := service.NewNotificationService(repository.NewNotificationRepository(db))

	inbox := service.NewInbox(chatSvc, notifSvc, cfg.Inbox.Limit, zlog)
	inbox.OnOpenChat = func(senderID string) {
		zlog.Infow("open chat", "sender_id", senderID)
	}
	inbox.OnOpenNotification = func(notificationID string) {
		zlog.Infow("open notification", "notification_id", notificationID)
	}

	grouper := service.NewGrouper(time.UTC)
	grouper.Start()

	jv, err := auth.New(cfg.JWT.Alg, cfg.JWT.PublicKeyPath, cfg.JWT.HSSecret)
	if err != nil {
		zlog.Fatalw("jwt init", "err", err)
	}

	h := api.NewHandlers(chatSvc, channelSvc, notifSvc, inbox, grouper, zlog)
	app := api.NewServer(cfg, h, jv)

	go func() {
		if err := app.Listen(":" + cfg.App.PortString()); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()
	zlog.Infow("messaging service started", "port", cfg.App.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	zlog.Infow("messaging service stopped")
}
