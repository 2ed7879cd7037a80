package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/config"
	"gitlab.com/peopleclay/api/push-activity-service/internal/crm"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/internal/server"
	"gitlab.com/peopleclay/api/push-activity-service/internal/storage"
	"gitlab.com/peopleclay/api/push-activity-service/internal/upstream"
	"gitlab.com/peopleclay/api/push-activity-service/internal/usecase"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

func main() {
	// Set timezone to UTC
	time.Local = time.UTC

	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	metricsEnabled := cfg.Metrics.Enabled
	observer.InitMetrics(metricsEnabled)

	logger.Log.Info("Starting Push Activity Service",
		zap.String("environment", cfg.Environment),
		zap.String("upstream_base_url", cfg.Upstream.BaseURL),
		zap.String("crm_transport", cfg.CRM.Transport),
	)

	// Initialize repositories
	postgresRepo, err := initPostgresRepo(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize Postgres repository", zap.Error(err))
	}

	campaignRepo := storage.NewCampaignRepoAdapter(postgresRepo)
	leadRepo := storage.NewLeadRepoAdapter(postgresRepo)
	pushRecordRepo := storage.NewPushRecordRepoAdapter(postgresRepo)
	changeLogRepo := storage.NewChangeLogRepoAdapter(postgresRepo)
	syncRunRepo := storage.NewSyncRunRepoAdapter(postgresRepo)

	// Upstream feed client
	feed, err := upstream.NewLemlistClient(cfg.Upstream)
	if err != nil {
		logger.Log.Fatal("Failed to initialize upstream feed client", zap.Error(err))
	}

	// Downstream CRM publisher
	publisher, err := crm.NewPublisher(cfg.CRM)
	if err != nil {
		logger.Log.Fatal("Failed to initialize CRM publisher", zap.Error(err))
	}

	service := usecase.NewPushActivityService(
		campaignRepo, leadRepo, pushRecordRepo, changeLogRepo, syncRunRepo,
		feed, publisher, cfg.Sync,
	)

	apiServer := server.NewServer(cfg.Server.Port, service, logger.Log,
		cfg.ChangeLog.DefaultLimit, cfg.ChangeLog.MaxLimit)

	if metricsEnabled {
		apiServer.RegisterMetricsHandler(promhttp.Handler())
		logger.Log.Info("Metrics endpoint enabled", zap.String("path", "/metrics"), zap.Int("port", cfg.Server.Port))
	} else {
		logger.Log.Info("Metrics endpoint disabled for environment", zap.String("environment", cfg.Environment))
	}

	apiServer.Start()

	logger.Log.Info("API endpoints available",
		zap.String("health", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("campaigns", fmt.Sprintf("http://localhost:%d/v1/campaigns", cfg.Server.Port)),
	)

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Log.Info("Received termination signal", zap.String("signal", sig.String()))

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Log.Info("Starting graceful shutdown", zap.Duration("timeout", 30*time.Second))

	var wg sync.WaitGroup
	wg.Add(3)

	// Shutdown API server (includes metrics if enabled)
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Stopping API server")
		start := time.Now()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Error stopping API server", zap.Error(err))
		} else {
			logger.Log.Info("[shutdown] API server stopped",
				zap.Duration("duration", time.Since(start)))
		}
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping API server",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Close CRM publisher
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Closing CRM publisher")
		start := time.Now()
		if err := publisher.Close(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Failed to close CRM publisher", zap.Error(err))
		} else {
			logger.Log.Info("[shutdown] CRM publisher closed",
				zap.Duration("duration", time.Since(start)))
		}
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while closing CRM publisher",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Close database connection
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Closing PostgreSQL connection")
		start := time.Now()
		if err := postgresRepo.Close(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Failed to close PostgreSQL connection", zap.Error(err))
		} else {
			logger.Log.Info("[shutdown] PostgreSQL connection closed",
				zap.Duration("duration", time.Since(start)))
		}
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while closing PostgreSQL connection",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Wait with a timeout for all components to shut down
	waitCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Log.Info("[shutdown] All components stopped gracefully")
	case <-shutdownCtx.Done():
		logger.Log.Warn("[shutdown] Graceful shutdown timed out, forcing exit")
	}

	logger.Log.Info("Push Activity Service shutdown complete")
}

// Initialize PostgreSQL repository
func initPostgresRepo(cfg *config.Config) (*storage.PostgresRepo, error) {
	if cfg.Database.PostgresDSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	repo, err := storage.NewPostgresRepo(cfg.Database.PostgresDSN, cfg.Database.PostgresAutoMigrate, cfg.Sync.LeadPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres repository: %w", err)
	}

	logger.Log.Info("Initialized PostgreSQL repository")
	return repo, nil
}
