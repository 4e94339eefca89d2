package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kenta/moviemeter/internal/middleware"
	"github.com/kenta/moviemeter/internal/model"
)

// --- モック定義 ---

type mockFavoriteService struct {
	listFn   func(ctx context.Context, userID int64) ([]model.FavoriteWithMovie, error)
	addFn    func(ctx context.Context, userID, movieID int64, review *string, rating *int) (*model.FavoriteWithMovie, error)
	updateFn func(ctx context.Context, userID, favoriteID int64, review *string, rating *int) (*model.FavoriteWithMovie, error)
	removeFn func(ctx context.Context, userID, favoriteID int64) error
	checkFn  func(ctx context.Context, userID, movieID int64) (bool, *int64, error)
}

func (m *mockFavoriteService) List(ctx context.Context, userID int64) ([]model.FavoriteWithMovie, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFavoriteService) Add(ctx context.Context, userID, movieID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, movieID, review, rating)
	}
	return &model.FavoriteWithMovie{}, nil
}

func (m *mockFavoriteService) Update(ctx context.Context, userID, favoriteID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, favoriteID, review, rating)
	}
	return &model.FavoriteWithMovie{}, nil
}

func (m *mockFavoriteService) Remove(ctx context.Context, userID, favoriteID int64) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, userID, favoriteID)
	}
	return nil
}

func (m *mockFavoriteService) Check(ctx context.Context, userID, movieID int64) (bool, *int64, error) {
	if m.checkFn != nil {
		return m.checkFn(ctx, userID, movieID)
	}
	return false, nil, nil
}

var _ FavoriteServiceInterface = (*mockFavoriteService)(nil)

// --- ヘルパー ---

// newAuthedRequest は認証済みユーザーIDをコンテキストに付与したリクエストを生成する。
func newAuthedRequest(method, target string, body string, userID int64) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// withURLParam はchiのURLパラメータをリクエストコンテキストに設定する。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return body
}

// --- テスト ---

func TestListFavorites_ReturnsEnvelope(t *testing.T) {
	review := "great"
	rating := 9
	service := &mockFavoriteService{
		listFn: func(ctx context.Context, userID int64) ([]model.FavoriteWithMovie, error) {
			if userID != 1 {
				t.Errorf("userID = %d, want 1", userID)
			}
			return []model.FavoriteWithMovie{
				{
					Favorite: model.Favorite{ID: 10, UserID: 1, MovieID: 5, Review: &review, Rating: &rating},
					IMDbID:   "tt1375666",
					Title:    "Inception",
				},
			}, nil
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodGet, "/api/favorites", "", 1)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	favorites, ok := body["favorites"].([]any)
	if !ok || len(favorites) != 1 {
		t.Fatalf("favorites = %v, want 1 entry", body["favorites"])
	}
	first := favorites[0].(map[string]any)
	if first["title"] != "Inception" {
		t.Errorf("title = %v, want Inception", first["title"])
	}
	if first["review"] != "great" {
		t.Errorf("review = %v, want great", first["review"])
	}
}

func TestListFavorites_Empty_ReturnsArrayNotNull(t *testing.T) {
	h := NewFavoriteHandler(&mockFavoriteService{})

	req := newAuthedRequest(http.MethodGet, "/api/favorites", "", 1)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	// 空でもJSON配列（null不可）
	if !strings.Contains(rec.Body.String(), `"favorites":[]`) {
		t.Errorf("body = %s, want empty array for favorites", rec.Body.String())
	}
}

func TestAddFavorite_MissingMovieID_Returns400(t *testing.T) {
	h := NewFavoriteHandler(&mockFavoriteService{})

	req := newAuthedRequest(http.MethodPost, "/api/favorites", `{"review":"nice"}`, 1)
	rec := httptest.NewRecorder()
	h.Add(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Movie ID is required" {
		t.Errorf("message = %v, want %q", body["message"], "Movie ID is required")
	}
}

func TestAddFavorite_MovieNotFound_Returns404(t *testing.T) {
	service := &mockFavoriteService{
		addFn: func(ctx context.Context, userID, movieID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
			return nil, model.NewMovieNotFoundError()
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodPost, "/api/favorites", `{"movieId":999}`, 1)
	rec := httptest.NewRecorder()
	h.Add(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Movie not found" {
		t.Errorf("message = %v, want %q", body["message"], "Movie not found")
	}
}

func TestAddFavorite_Duplicate_Returns400(t *testing.T) {
	service := &mockFavoriteService{
		addFn: func(ctx context.Context, userID, movieID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
			return nil, model.NewAlreadyFavoritedError()
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodPost, "/api/favorites", `{"movieId":5}`, 1)
	rec := httptest.NewRecorder()
	h.Add(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Movie already in favorites" {
		t.Errorf("message = %v, want %q", body["message"], "Movie already in favorites")
	}
}

func TestAddFavorite_Success_ReturnsFavorite(t *testing.T) {
	service := &mockFavoriteService{
		addFn: func(ctx context.Context, userID, movieID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
			if movieID != 5 {
				t.Errorf("movieID = %d, want 5", movieID)
			}
			if review == nil || *review != "nice" {
				t.Errorf("review = %v, want nice", review)
			}
			if rating == nil || *rating != 8 {
				t.Errorf("rating = %v, want 8", rating)
			}
			return &model.FavoriteWithMovie{
				Favorite: model.Favorite{ID: 10, UserID: userID, MovieID: movieID, Review: review, Rating: rating},
				Title:    "Inception",
			}, nil
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodPost, "/api/favorites", `{"movieId":5,"review":"nice","rating":8}`, 1)
	rec := httptest.NewRecorder()
	h.Add(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Movie added to favorites" {
		t.Errorf("message = %v, want %q", body["message"], "Movie added to favorites")
	}
	favorite, ok := body["favorite"].(map[string]any)
	if !ok {
		t.Fatalf("favorite = %v, want object", body["favorite"])
	}
	if favorite["movie_id"] != float64(5) {
		t.Errorf("movie_id = %v, want 5", favorite["movie_id"])
	}
}

func TestUpdateFavorite_NotFound_Returns404(t *testing.T) {
	service := &mockFavoriteService{
		updateFn: func(ctx context.Context, userID, favoriteID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
			return nil, model.NewFavoriteNotFoundError()
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodPut, "/api/favorites/42", `{"review":"x"}`, 1)
	req = withURLParam(req, "id", "42")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Favorite not found" {
		t.Errorf("message = %v, want %q", body["message"], "Favorite not found")
	}
}

func TestUpdateFavorite_InvalidID_Returns404(t *testing.T) {
	h := NewFavoriteHandler(&mockFavoriteService{})

	req := newAuthedRequest(http.MethodPut, "/api/favorites/abc", `{}`, 1)
	req = withURLParam(req, "id", "abc")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUpdateFavorite_InvalidRating_Returns400(t *testing.T) {
	service := &mockFavoriteService{
		updateFn: func(ctx context.Context, userID, favoriteID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
			return nil, model.NewInvalidRatingError()
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodPut, "/api/favorites/42", `{"rating":11}`, 1)
	req = withURLParam(req, "id", "42")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRemoveFavorite_Success_ReturnsMessage(t *testing.T) {
	var removedID int64
	service := &mockFavoriteService{
		removeFn: func(ctx context.Context, userID, favoriteID int64) error {
			removedID = favoriteID
			return nil
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodDelete, "/api/favorites/42", "", 1)
	req = withURLParam(req, "id", "42")
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if removedID != 42 {
		t.Errorf("removed ID = %d, want 42", removedID)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Removed from favorites" {
		t.Errorf("message = %v, want %q", body["message"], "Removed from favorites")
	}
}

func TestCheckFavorite_Favorited_ReturnsID(t *testing.T) {
	favID := int64(7)
	service := &mockFavoriteService{
		checkFn: func(ctx context.Context, userID, movieID int64) (bool, *int64, error) {
			return true, &favID, nil
		},
	}
	h := NewFavoriteHandler(service)

	req := newAuthedRequest(http.MethodGet, "/api/favorites/check/5", "", 1)
	req = withURLParam(req, "movieId", "5")
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	body := decodeBody(t, rec)
	if body["isFavorited"] != true {
		t.Errorf("isFavorited = %v, want true", body["isFavorited"])
	}
	if body["favoriteId"] != float64(7) {
		t.Errorf("favoriteId = %v, want 7", body["favoriteId"])
	}
}

func TestCheckFavorite_NotFavorited_ReturnsNullID(t *testing.T) {
	h := NewFavoriteHandler(&mockFavoriteService{})

	req := newAuthedRequest(http.MethodGet, "/api/favorites/check/5", "", 1)
	req = withURLParam(req, "movieId", "5")
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	body := decodeBody(t, rec)
	if body["isFavorited"] != false {
		t.Errorf("isFavorited = %v, want false", body["isFavorited"])
	}
	if body["favoriteId"] != nil {
		t.Errorf("favoriteId = %v, want null", body["favoriteId"])
	}
}

func TestFavoriteHandlers_MissingContext_Returns401(t *testing.T) {
	h := NewFavoriteHandler(&mockFavoriteService{})

	// 認証ミドルウェアを通らないリクエスト
	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
