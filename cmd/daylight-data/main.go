package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/config"
	"github.com/mdjska/daylight-analysis/internal/logger"
	"github.com/mdjska/daylight-analysis/internal/mqtt"
	"github.com/mdjska/daylight-analysis/internal/report"
	"github.com/mdjska/daylight-analysis/internal/repository"
	"github.com/mdjska/daylight-analysis/internal/service"
	"github.com/mdjska/daylight-analysis/internal/simulation"
	"github.com/mdjska/daylight-analysis/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "daylight-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 可选数据库：未启用或连接失败时退回内存 repo，一次性运行仍可产出报告
	var db *sql.DB
	var repo repository.RunsRepository = repository.NewMemoryRunsRepository()
	if cfg.DBEnabled {
		if d, err := repository.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			repo = repository.NewPostgresRunsRepository(db, log)
			log.Info("DB enabled for daylight-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repo", zap.Error(err))
		}
	}

	// 可选 Redis：缓存最近一次运行的房间树
	var redisClient *redis.Client
	var cache *store.TreeCache
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = store.NewTreeCache(store.NewRedisKV(redisClient))
	}

	// 可选模拟引擎：启用时在提取后对每个房间做采光评估
	var sim *simulation.Client
	if cfg.Simulation.Enabled {
		sim = simulation.NewClient(cfg.Simulation, log)
	}

	svc := service.NewExtractionService(cfg, repo, cache, sim, report.NewWriter(log), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MQTT.Enabled {
		runTriggered(ctx, cfg, svc, log)
	} else {
		// 默认一次性批处理：提取 → 报告 → 退出
		result, err := svc.Run(ctx, &service.RunRequest{})
		if err != nil {
			log.Fatal("extraction run failed", zap.Error(err))
		}
		log.Info("report written",
			zap.String("run_id", result.RunID),
			zap.String("path", result.ReportPath),
		)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}

// runTriggered 订阅 MQTT 触发主题并常驻，直到收到退出信号
func runTriggered(ctx context.Context, cfg *config.Config, svc service.ExtractionService, log *zap.Logger) {
	trigger := mqtt.NewExtractTrigger(cfg.MQTT, svc, log)
	if err := trigger.Connect(); err != nil {
		log.Fatal("failed to start extract trigger", zap.Error(err))
	}
	defer trigger.Disconnect()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	log.Info("shutting down")
}
