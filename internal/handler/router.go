package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oportunizando/oportunizando/internal/middleware"
)

// HealthChecker はDB接続の疎通確認を行う。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 可観測性
	Logger         *slog.Logger                  // nil可
	StatusRecorder middleware.HTTPStatusRecorder // nil可
	MetricsHandler http.Handler                  // nil可
	HealthChecker  HealthChecker                 // nil可

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ボード
	BoardService BoardServiceInterface

	// 機会カタログ
	CatalogService CatalogServiceInterface

	// 興味エリア
	InterestService InterestServiceInterface

	// ユーザー
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORSMiddleware → SecurityHeaders → SessionMiddleware → CSRFMiddleware → RateLimitMiddleware(General)
//
// 認証ルート（/auth/*）とCSRFトークン取得はミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// panic回復を最上位に、続けてCORSとセキュリティヘッダーを全ルートに適用する
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	boardHandler := NewBoardHandler(deps.BoardService)
	oppHandler := NewOpportunityHandler(deps.CatalogService)
	interestHandler := NewInterestHandler(deps.InterestService)
	userHandler := NewUserHandler(deps.UserService, deps.AuthConfig)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// CSRFトークン取得エンドポイント
	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// ヘルスチェック（DB疎通込み）
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheusスクレイプエンドポイント
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ボード管理
		r.Route("/api/board", func(r chi.Router) {
			r.Get("/", boardHandler.GetBoard)

			// PUT /api/board/{opportunityID}/state - 状態遷移（変更専用レート制限を追加）
			r.With(deps.RateLimiter.MutationMiddleware()).
				Put("/{opportunityID}/state", boardHandler.Move)
		})

		// 機会カタログ
		r.Route("/api/opportunities/{id}", func(r chi.Router) {
			r.Get("/", oppHandler.GetOpportunity)

			// POST /api/opportunities/{id}/board - ボードへ追加（変更専用レート制限を追加）
			r.With(deps.RateLimiter.MutationMiddleware()).
				Post("/board", boardHandler.AddToBoard)
		})

		// エリア閲覧・検索
		r.Route("/api/areas", func(r chi.Router) {
			r.Get("/", interestHandler.ListAreas)
			r.Get("/{id}/opportunities", oppHandler.ListByArea)
		})

		// 興味エリア管理
		r.Route("/api/interests", func(r chi.Router) {
			r.Get("/", interestHandler.ListInterests)
			r.With(deps.RateLimiter.MutationMiddleware()).
				Post("/", interestHandler.SelectInterests)
			r.With(deps.RateLimiter.MutationMiddleware()).
				Delete("/{areaID}", interestHandler.RemoveInterest)
		})

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Delete("/me", userHandler.Withdraw)
		})
	})

	return r
}
