package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kenta/moviemeter/internal/middleware"
	"github.com/kenta/moviemeter/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
type FavoriteServiceInterface interface {
	List(ctx context.Context, userID int64) ([]model.FavoriteWithMovie, error)
	Add(ctx context.Context, userID, movieID int64, review *string, rating *int) (*model.FavoriteWithMovie, error)
	Update(ctx context.Context, userID, favoriteID int64, review *string, rating *int) (*model.FavoriteWithMovie, error)
	Remove(ctx context.Context, userID, favoriteID int64) error
	Check(ctx context.Context, userID, movieID int64) (bool, *int64, error)
}

// FavoriteHandler はお気に入り管理のHTTPハンドラー。
// すべてのエンドポイントはRequireAuthミドルウェアの背後に配置される前提で、
// ユーザーIDをリクエストコンテキストから解決する。
type FavoriteHandler struct {
	service FavoriteServiceInterface
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
func NewFavoriteHandler(service FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// addFavoriteRequest はお気に入り追加リクエストのボディ。
// movieIdはローカルのmovies.id。reviewとratingは任意。
type addFavoriteRequest struct {
	MovieID int64   `json:"movieId"`
	Review  *string `json:"review"`
	Rating  *int    `json:"rating"`
}

// updateFavoriteRequest はお気に入り更新リクエストのボディ。
// 省略（null）はフィールドのクリアを意味する。
type updateFavoriteRequest struct {
	Review *string `json:"review"`
	Rating *int    `json:"rating"`
}

// List はお気に入り一覧を返す。
// GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	favorites, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 空でも配列を返す（nullにしない）
	responses := make([]favoriteResponse, 0, len(favorites))
	for i := range favorites {
		responses = append(responses, toFavoriteResponse(&favorites[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"favorites": responses,
	})
}

// Add は映画をお気に入りに追加する。
// POST /api/favorites
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MovieID == 0 {
		handleServiceError(w, model.NewMovieIDRequiredError())
		return
	}

	favorite, err := h.service.Add(r.Context(), userID, req.MovieID, req.Review, req.Rating)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Movie added to favorites",
		"favorite": toFavoriteResponse(favorite),
	})
}

// Update はお気に入りのレビュー・評価を更新する。
// PUT /api/favorites/:id
func (h *FavoriteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	favoriteID, ok := parseIDParam(r, "id")
	if !ok {
		handleServiceError(w, model.NewFavoriteNotFoundError())
		return
	}

	var req updateFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	favorite, err := h.service.Update(r.Context(), userID, favoriteID, req.Review, req.Rating)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Favorite updated",
		"favorite": toFavoriteResponse(favorite),
	})
}

// Remove はお気に入りを削除する。
// DELETE /api/favorites/:id
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	favoriteID, ok := parseIDParam(r, "id")
	if !ok {
		handleServiceError(w, model.NewFavoriteNotFoundError())
		return
	}

	if err := h.service.Remove(r.Context(), userID, favoriteID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Removed from favorites",
	})
}

// Check は指定映画がお気に入り済みかを返す。
// GET /api/favorites/check/:movieId
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	movieID, ok := parseIDParam(r, "movieId")
	if !ok {
		// 不正なIDはお気に入り未登録として扱う
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"isFavorited": false,
			"favoriteId":  nil,
		})
		return
	}

	isFavorited, favoriteID, err := h.service.Check(r.Context(), userID, movieID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"isFavorited": isFavorited,
		"favoriteId":  favoriteID,
	})
}

// parseIDParam はURLパラメータを正の整数IDとして解析する。
func parseIDParam(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
