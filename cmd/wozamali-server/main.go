package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wozamali-core/internal/handler"
	"wozamali-core/internal/model"
	"wozamali-core/internal/server"
	"wozamali-core/internal/service"
	"wozamali-core/internal/service/mq"
	"wozamali-core/internal/worker"
	"wozamali-core/pkg/cache"
	"wozamali-core/pkg/config"
	"wozamali-core/pkg/database"
	"wozamali-core/pkg/logger"
	"wozamali-core/pkg/utils/lock"
)

// @title Woza Mali Settlement API
// @version 1.0
// @description Recycling collection submission, settlement and Green Scholar Fund reporting.

// @BasePath /
func main() {
	// 0. 初始化 Config & Logger
	config.Init()
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	cfg := config.Global
	dev := cfg.App.Env == "development"

	// 1. 连接数据库
	db, err := database.ConnectPostgres(cfg.DB.DSN(), dev)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if dev {
		// 开发环境直接 AutoMigrate; 生产环境使用 cmd/migrate
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("AutoMigrate 失败", zap.Error(err))
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取 sql.DB 失败", zap.Error(err))
	}

	// 2. 连接 Redis
	rdb, err := database.ConnectRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 3. 缓存 + 分布式锁
	// L1: Memory, L2: Redis (TTL from Set)
	multiCache := cache.NewMultiLevelCache(
		cache.NewMemoryCache(time.Minute, 5*time.Minute),
		cache.NewRedisCache(rdb, cfg.Redis.CachePrefix),
	)
	locker := lock.NewRedisLock(rdb)

	// 4. 消息队列
	var producer mq.Producer
	var consumer mq.Consumer
	if cfg.Redis.MQType == "kafka" {
		logger.Info("MQ Mode: Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
		producer = mq.NewKafkaProducer(cfg.Kafka.Brokers)
		consumer = mq.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	} else {
		logger.Info("MQ Mode: Redis Streams")
		producer = mq.NewRedisProducer(rdb)
		consumer = mq.NewRedisConsumer(rdb, cfg.Settlement.ConsumerGroup, cfg.Settlement.ConsumerName)
	}

	// 5. 业务服务
	catalog := service.NewCatalogStore(db, multiCache, cfg.Settlement.CatalogCacheTTL)
	collections := service.NewCollectionService(db, catalog, locker, cfg.Settlement)
	wallets := service.NewWalletService(db)
	fund := service.NewFundService(db, multiCache, time.Minute)
	relay := service.NewRelayService(db, producer, cfg.Settlement)

	// 6. Asynq 客户端 + Worker
	taskClient := worker.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	contributions := service.NewContributionService(db, locker, taskClient)

	workerServer := worker.NewServer(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Worker.Concurrency, wallets)
	if err := workerServer.Start(); err != nil {
		logger.Fatal("Worker 启动失败", zap.Error(err))
	}

	// 7. 定时任务
	cronService := service.NewCronService(locker, relay, fund)
	cronService.Start()

	// 8. HTTP + gRPC
	checks := map[string]handler.Check{
		"postgres": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	r := server.NewHTTPRouter(server.Handlers{
		Health:      handler.NewHealthHandler(checks),
		Materials:   handler.NewMaterialHandler(catalog),
		Collections: handler.NewCollectionHandler(collections),
		Wallets:     handler.NewWalletHandler(wallets, fund),
	})
	grpcServer, healthServer := server.NewGRPCServer()

	app, err := server.New(server.Config{
		HttpPort:        cfg.App.HttpPort,
		GrpcPort:        cfg.App.GrpcPort,
		ShutdownTimeout: 10 * time.Second,
	}, r, grpcServer)
	if err != nil {
		logger.Fatal("应用启动失败", zap.Error(err))
	}

	// 9. 后台组件
	app.Go(relay.Start)
	app.Go(func(ctx context.Context) {
		topic := cfg.Settlement.SettledTopic
		logger.Info("开始监听结算事件", zap.String("topic", topic))
		if err := contributions.Start(ctx, consumer, topic); err != nil && ctx.Err() == nil {
			logger.Error("结算事件订阅失败", zap.Error(err))
		}
	})
	app.Go(func(ctx context.Context) {
		server.WatchHealth(ctx, healthServer, checks, 10*time.Second)
	})

	// 10. 退出清理 (reverse order)
	app.OnShutdown(func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("关闭 Redis 失败", zap.Error(err))
		}
	})
	app.OnShutdown(func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("关闭数据库失败", zap.Error(err))
		}
	})
	app.OnShutdown(func() { _ = producer.Close() })
	app.OnShutdown(func() { _ = consumer.Close() })
	app.OnShutdown(func() { _ = taskClient.Close() })
	app.OnShutdown(workerServer.Stop)
	app.OnShutdown(cronService.Stop)

	// 运行 (阻塞)
	app.Run()
	logger.Info("系统已退出")
}
