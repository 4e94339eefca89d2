package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kenta/moviemeter/internal/metrics"
	"github.com/kenta/moviemeter/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// お気に入り
	FavoriteService FavoriteServiceInterface

	// 映画
	MovieService  MovieServiceInterface
	PosterFetcher PosterFetcherInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → CORS
//
// お気に入りルートはさらに RequireAuth → RateLimit(General)、
// 映画ルートは OptionalAuth（検索のみ RateLimit(Search)）を通る。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通ミドルウェア
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	favoriteHandler := NewFavoriteHandler(deps.FavoriteService)
	movieHandler := NewMovieHandler(deps.MovieService, deps.PosterFetcher)

	// --- 認証ルート（OAuthフロー） ---
	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/google", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- お気に入りルート（認証必須） ---
	r.Route("/api/favorites", func(r chi.Router) {
		r.Use(middleware.NewRequireAuthMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/", favoriteHandler.List)
		r.Post("/", favoriteHandler.Add)
		r.Get("/check/{movieId}", favoriteHandler.Check)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", favoriteHandler.Update)
			r.Delete("/", favoriteHandler.Remove)
		})
	})

	// --- 映画ルート（認証不要、セッションがあればユーザーIDを注入） ---
	r.Route("/api/movies", func(r chi.Router) {
		r.Use(middleware.NewOptionalAuthMiddleware(deps.SessionFinder))

		// 検索のみIPベースのレート制限を追加
		r.With(deps.RateLimiter.SearchMiddleware()).Get("/search", movieHandler.Search)

		r.Route("/{imdbID}", func(r chi.Router) {
			r.Get("/", movieHandler.GetByIMDbID)
			r.Get("/poster", movieHandler.Poster)
		})
	})

	// --- 運用ルート ---
	r.Get("/health", healthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// 未定義ルート
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Route not found")
	})

	return r
}

// healthCheck はサーバーの稼働状態を返す。
// GET /health
func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "OK",
		"message": "Movie Meter API is running",
	})
}
