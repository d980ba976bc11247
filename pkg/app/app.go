// Package app 组装 HTTP 服务：配置、日志、追踪、指标、存储、中间件、路由与后台任务.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sloopymg1/ghana-creative-platform/pkg/api"
	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/jobs"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	"github.com/sloopymg1/ghana-creative-platform/pkg/log"
	"github.com/sloopymg1/ghana-creative-platform/pkg/metrics"
	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
	"github.com/sloopymg1/ghana-creative-platform/pkg/tracing"
)

// App 应用实例.
type App struct {
	Engine    *gin.Engine
	Manager   *storage.Manager
	Scheduler *scheduler.Scheduler
	config    *configs.AppConfig
	cancel    context.CancelFunc
}

// Options 启动选项.
type Options struct {
	// Migrate 启动时自动迁移表结构并写入默认角色.
	Migrate bool
	// Jobs 启动定时任务与事件消费者.
	Jobs bool
}

// NewApp 按已加载的配置初始化全部依赖并注册路由，调用前需先执行 configs.InitConfig.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	config := configs.GetConfig()
	if err := configs.Validate(); err != nil {
		return nil, err
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	if err := tracing.InitTracer(config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	manager, err := storage.Init(ctx, config)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctxPkg.WithStorageManager(ctx, manager))
	a := &App{Manager: manager, config: config, cancel: cancel}

	if opts.Migrate {
		if err := Migrate(runCtx, manager); err != nil {
			a.close()
			return nil, err
		}
	}

	if opts.Jobs {
		if err := a.startBackground(runCtx); err != nil {
			a.close()
			return nil, err
		}
	}

	a.Engine = api.NewEngine(config, manager, a.Scheduler)

	return a, nil
}

// startBackground 启动定时任务与领域事件消费者.
func (a *App) startBackground(ctx context.Context) error {
	sched, err := scheduler.NewScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := jobs.RegisterCronJobs(sched, a.Manager); err != nil {
		_ = sched.Stop()
		return fmt.Errorf("register cron jobs: %w", err)
	}

	if err := jobs.RegisterConsumers(ctx, a.Manager); err != nil {
		_ = sched.Stop()
		return fmt.Errorf("register consumers: %w", err)
	}

	sched.Start()
	a.Scheduler = sched

	return nil
}

// Migrate 迁移表结构并写入默认权限与角色，可重复执行.
func Migrate(ctx context.Context, manager *storage.Manager) error {
	if err := model.AutoMigrate(manager.GetDBClient().GetDB().WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx = ctxPkg.WithStorageManager(ctx, manager)
	if err := service.NewRBACService(ctx).Seed(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	return nil
}

// Run 启动 HTTP 服务，ctx 取消后优雅退出.
func (a *App) Run(ctx context.Context) error {
	cfg := a.config.Server
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		log.Logger().Info().Str("addr", srv.Addr).Msg("http server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
	}

	log.Logger().Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.GetTimeoutDuration())
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	a.close()

	return err
}

func (a *App) close() {
	if a.Scheduler != nil {
		_ = a.Scheduler.Stop()
	}

	a.cancel()

	_ = tracing.ShutdownTracer(context.Background())

	if err := a.Manager.Close(); err != nil {
		log.Logger().Warn().Err(err).Msg("close storage")
	}
}
