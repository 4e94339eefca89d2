package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kenta/moviemeter/internal/model"
	"github.com/kenta/moviemeter/internal/movie"
)

// MovieServiceInterface は映画ハンドラーが必要とするサービスインターフェース。
type MovieServiceInterface interface {
	Search(ctx context.Context, query string, page int) (*movie.SearchResult, error)
	GetByIMDbID(ctx context.Context, imdbID string) (*model.Movie, error)
	FindLocalByIMDbID(ctx context.Context, imdbID string) (*model.Movie, error)
}

// PosterFetcherInterface はポスタープロキシに必要なインターフェース。
type PosterFetcherInterface interface {
	FetchPoster(ctx context.Context, posterURL string) (data []byte, mimeType string, err error)
}

// MovieHandler は映画検索・詳細取得のHTTPハンドラー。
// 検索と詳細はOMDbへのプロキシで、認証不要で利用できる。
type MovieHandler struct {
	service MovieServiceInterface
	poster  PosterFetcherInterface
}

// NewMovieHandler はMovieHandlerを生成する。
func NewMovieHandler(service MovieServiceInterface, poster PosterFetcherInterface) *MovieHandler {
	return &MovieHandler{
		service: service,
		poster:  poster,
	}
}

// Search は映画タイトル検索を処理する。
// GET /api/movies/search?q=xxx&page=1
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	result, err := h.service.Search(r.Context(), query, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"movies":       result.Movies,
		"totalResults": result.TotalResults,
	})
}

// GetByIMDbID は映画の詳細を取得する。
// ローカル未取り込みの映画はOMDbから取り込んでローカルIDを採番する。
// GET /api/movies/:imdbID
func (h *MovieHandler) GetByIMDbID(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")
	if imdbID == "" {
		handleServiceError(w, model.NewMovieNotFoundError())
		return
	}

	found, err := h.service.FindLocalByIMDbID(r.Context(), imdbID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movie":   toMovieResponse(found),
	})
}

// Poster はポスター画像をプロキシ配信する。
// 外部画像ホストへの直接リンクを避けるため、サーバー側でSSRF防止付きに取得して返す。
// GET /api/movies/:imdbID/poster
func (h *MovieHandler) Poster(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")
	if imdbID == "" {
		handleServiceError(w, model.NewPosterNotFoundError())
		return
	}

	found, err := h.service.FindLocalByIMDbID(r.Context(), imdbID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	data, mimeType, err := h.poster.FetchPoster(r.Context(), found.Poster)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
