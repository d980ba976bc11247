// Package api 组装 HTTP 接口：中间件链、/api/v1 路由、响应缓存与调试端点.
package api

import (
	"context"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/cache"
	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/router"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	"github.com/sloopymg1/ghana-creative-platform/pkg/log"
	"github.com/sloopymg1/ghana-creative-platform/pkg/metrics"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
)

// responseCacheNamespace 响应缓存在 KV 中的命名空间.
const responseCacheNamespace = "http"

// NewEngine 创建 gin 引擎并按顺序挂载中间件与路由，sched 为 nil 时不注册任务管理接口.
func NewEngine(cfg *configs.AppConfig, manager *storage.Manager, sched *scheduler.Scheduler) *gin.Engine {
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.TracingMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.CORSMiddleware(cfg.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.CircuitBreakerMiddleware(cfg.CircuitBreaker),
		middleware.StorageMiddleware(manager),
		middleware.ClientInfoMiddleware(),
		middleware.AuthMiddleware(cfg.Auth, Authenticate),
		middleware.RateLimitMiddleware(cfg.RateLimit),
	)

	opts := router.Options{Scheduler: sched}
	if cfg.Server.ResponseCacheTTL > 0 && manager.GetKVClient() != nil {
		respCache := cache.NewCache(manager.GetKVClient(), responseCacheNamespace)
		opts.ResponseCache = middleware.CacheMiddleware(middleware.DefaultCacheConfig(respCache, cfg.Server.ResponseCacheTTL))
	}

	router.Register(engine, opts)
	router.RegisterSwaggerRoute(engine)

	if err := metrics.StartMetricsServer(cfg.Metrics, engine); err != nil {
		log.Logger().Error().Err(err).Msg("register metrics endpoints failed")
	}

	return engine
}

// Authenticate 校验令牌并返回请求主体.
func Authenticate(ctx context.Context, token string) (*rbac.Subject, error) {
	_, sub, err := service.NewAuthService(ctx).Authenticate(ctx, token)
	return sub, err
}
