package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/messaging"
	cartpersistence "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	catalogcache "github.com/wyfcoding/storefront/internal/catalog/infrastructure/cache"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/shopify"
	currencypersistence "github.com/wyfcoding/storefront/internal/currency/infrastructure/persistence"
	"github.com/wyfcoding/storefront/internal/storefront/application"
	sfdomain "github.com/wyfcoding/storefront/internal/storefront/domain"
	"github.com/wyfcoding/storefront/internal/storefront/infrastructure/persistence"
	httpserver "github.com/wyfcoding/storefront/internal/storefront/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	ctx := context.Background()

	// 3. 初始化指标
	metricsImpl := metrics.New(cfg.ServiceName)

	// 4. 初始化基础设施
	var redisCache *cache.RedisCache
	if needsRedis(cfg) {
		redisCache, err = cache.New(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			if cfg.Storage.Driver == "redis" {
				logger.Error(ctx, "failed to init redis", "error", err)
				os.Exit(1)
			}
			// 仅缓存和限流依赖 Redis 时降级运行
			logger.Warn(ctx, "redis unavailable, cache and rate limit disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	store, closeStore, err := newSnapshotStore(cfg, redisCache)
	if err != nil {
		logger.Error(ctx, "failed to init snapshot store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var publisher cartdomain.EventPublisher = messaging.NewLogPublisher()
	var eventQueue *messaging.AsyncPublisher
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		})
		if err != nil {
			logger.Error(ctx, "failed to init kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		// 请求路径只入队，后台任务负责写入 Kafka
		eventQueue = messaging.NewAsyncPublisher(messaging.NewKafkaPublisher(producer), cfg.Kafka.QueueSize, 5*time.Second)
		publisher = eventQueue
	}

	shopifyClient := shopify.NewClient(cfg.Commerce)
	var productCatalog catalogdomain.ProductCatalog = shopifyClient
	if redisCache != nil && cfg.Commerce.CacheTTL > 0 {
		productCatalog = catalogcache.NewCachedCatalog(shopifyClient, redisCache, time.Duration(cfg.Commerce.CacheTTL)*time.Second)
	}

	// 5. 初始化应用服务
	registry := application.NewRegistry(application.RegistryDeps{
		Carts:       cartpersistence.NewSnapshotRepository(store),
		Preferences: currencypersistence.NewPreferenceRepository(store),
		Gateway:     shopifyClient,
		Publisher:   publisher,
		Metrics:     metricsImpl,
	})
	catalogQuery := catalogapp.NewCatalogQueryService(productCatalog)
	storefrontSvc := application.NewStorefrontService(catalogQuery, application.Options{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.Cart.FreeShippingThreshold),
		RecommendationFetch:   cfg.Cart.RecommendationFetch,
		RecommendationLimit:   cfg.Cart.RecommendationLimit,
	})

	// 6. 初始化接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(cfg.HTTP.AllowOrigins),
		middleware.GinMetricsMiddleware(metricsImpl),
	)
	if redisCache != nil {
		r.Use(middleware.RateLimitMiddleware(ratelimit.NewRedisRateLimiter(redisCache.GetClient()), cfg.RateLimit))
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metricsImpl.Handler()))
	}

	api := r.Group("")
	api.Use(middleware.SessionMiddleware())
	httpserver.NewStorefrontHandler(registry, storefrontSvc, catalogQuery, metricsImpl).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 7. 启动服务
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 事件发送，关闭时发完队列中剩余事件
	if eventQueue != nil {
		g.Go(func() error { return eventQueue.Run(gctx) })
	}

	// 空闲会话清理
	g.Go(func() error {
		idle := time.Duration(cfg.Storage.SessionIdleMinutes) * time.Minute
		if idle <= 0 {
			<-gctx.Done()
			return nil
		}
		ticker := time.NewTicker(idle / 2)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := registry.EvictIdle(idle); n > 0 {
					logger.Debug(gctx, "idle sessions evicted", "count", n)
				}
			}
		}
	})

	// 8. 优雅关闭
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(ctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(ctx, "context cancelled, shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}

// errShutdown 让其余后台任务随关闭信号退出
var errShutdown = errors.New("shutdown requested")

func needsRedis(cfg *config.Config) bool {
	return cfg.Storage.Driver == "redis" || cfg.RateLimit.Enabled || cfg.Commerce.CacheTTL > 0
}

func newSnapshotStore(cfg *config.Config, redisCache *cache.RedisCache) (sfdomain.SnapshotStore, func(), error) {
	switch cfg.Storage.Driver {
	case "redis":
		ttl := time.Duration(cfg.Storage.TTLHours) * time.Hour
		return persistence.NewRedisStore(redisCache, ttl), func() {}, nil
	case "mysql":
		database, err := db.Init(db.Config{
			DSN:                cfg.Database.DSN,
			MaxOpenConns:       cfg.Database.MaxOpenConns,
			MaxIdleConns:       cfg.Database.MaxIdleConns,
			ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
			LogEnabled:         cfg.Database.LogEnabled,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		})
		if err != nil {
			return nil, nil, err
		}
		store, err := persistence.NewMySQLStore(database.DB)
		if err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		return store, func() { _ = database.Close() }, nil
	default:
		return persistence.NewMemoryStore(), func() {}, nil
	}
}
