// Package app はアプリケーションの初期化と起動を提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/oportunizando/oportunizando/internal/auth"
	"github.com/oportunizando/oportunizando/internal/board"
	"github.com/oportunizando/oportunizando/internal/catalog"
	"github.com/oportunizando/oportunizando/internal/config"
	"github.com/oportunizando/oportunizando/internal/database"
	"github.com/oportunizando/oportunizando/internal/handler"
	"github.com/oportunizando/oportunizando/internal/interest"
	"github.com/oportunizando/oportunizando/internal/logger"
	"github.com/oportunizando/oportunizando/internal/metrics"
	"github.com/oportunizando/oportunizando/internal/middleware"
	"github.com/oportunizando/oportunizando/internal/repository"
	"github.com/oportunizando/oportunizando/internal/security"
	"github.com/oportunizando/oportunizando/internal/user"
)

// Init はロガーと設定を初期化する。
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	return cfg, nil
}

// Run はコマンドを解析してアプリケーションを起動する。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		return runHealthcheck()
	}

	cfg, err := Init(w)
	if err != nil {
		return err
	}

	slog.Info("starting oportunizando", "command", string(cmd))

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はHTTPサーバーを起動する。
func runServe(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("データベースのオープンに失敗: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("データベースへの接続に失敗: %w", err)
	}

	// リポジトリ
	userRepo := repository.NewPostgresUserRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	areaRepo := repository.NewPostgresAreaRepo(db)
	oppRepo := repository.NewPostgresOpportunityRepo(db)
	interestRepo := repository.NewPostgresInterestRepo(db)
	boardRepo := repository.NewPostgresBoardRepo(db)

	// メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	boardRepo.SetLatencyObserver(collector)

	sanitizer := security.NewContentSanitizer()

	// サービス
	authService := auth.NewService(userRepo, sessionRepo, auth.ServiceConfig{
		SessionMaxAge: cfg.SessionMaxAge,
	})
	boardService := board.NewService(boardRepo, oppRepo, collector)
	catalogService := catalog.NewService(oppRepo, areaRepo, sanitizer)
	interestService := interest.NewService(interestRepo, areaRepo)
	userService := user.NewService(userRepo, sessionRepo, interestRepo, boardRepo)

	// レート制限は req/min で設定されるため、req/sec に換算する
	rateLimiterConfig := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		rateLimiterConfig.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterConfig.GeneralBurst = cfg.RateLimitGeneral
	}
	if cfg.RateLimitMutation > 0 {
		rateLimiterConfig.MutationRate = rate.Limit(float64(cfg.RateLimitMutation) / 60.0)
		rateLimiterConfig.MutationBurst = cfg.RateLimitMutation
	}

	router := handler.NewRouter(&handler.RouterDeps{
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       middleware.NewRateLimiter(rateLimiterConfig),
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		Logger:         slog.Default(),
		StatusRecorder: collector,
		MetricsHandler: metrics.Handler(registry),
		HealthChecker:  db,
		AuthService:    authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},
		BoardService:    boardService,
		CatalogService:  catalogService,
		InterestService: interestService,
		UserService:     userService,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// シグナル受信でグレースフルシャットダウンする
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTPサーバーを起動", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case sig := <-stop:
		slog.Info("シャットダウンシグナルを受信", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("シャットダウンに失敗: %w", err)
	}

	slog.Info("シャットダウン完了")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
func runMigrate(cfg *config.Config) error {
	slog.Info("マイグレーションを開始", "database_url", maskDatabaseURL(cfg.DatabaseURL))

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("マイグレーションに失敗: %w", err)
	}

	slog.Info("マイグレーション完了")
	return nil
}

// runHealthcheck はローカルのヘルスエンドポイントを叩いて生存確認する。
// コンテナのHEALTHCHECKから呼ばれる想定。
func runHealthcheck() error {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://localhost:" + port + "/health")
	if err != nil {
		return fmt.Errorf("ヘルスチェックに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ヘルスチェックが異常ステータスを返却: %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL は接続文字列の認証情報をログ用にマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***"
	}
	return "***"
}
