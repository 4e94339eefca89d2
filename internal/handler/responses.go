// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kenta/moviemeter/internal/model"
)

// favoriteResponse はお気に入り（映画情報付き）のAPIレスポンス。
// reviewとratingは未入力をnullで表す。
type favoriteResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	MovieID    int64     `json:"movie_id"`
	Review     *string   `json:"review"`
	Rating     *int      `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	IMDbID     string    `json:"imdb_id"`
	Title      string    `json:"title"`
	Year       string    `json:"year"`
	Poster     string    `json:"poster"`
	Genre      string    `json:"genre"`
	Director   string    `json:"director"`
	Actors     string    `json:"actors"`
	Plot       string    `json:"plot"`
	IMDbRating string    `json:"imdb_rating"`
}

// movieResponse は映画のAPIレスポンス。
type movieResponse struct {
	ID         int64  `json:"id"`
	IMDbID     string `json:"imdb_id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Poster     string `json:"poster"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	Actors     string `json:"actors"`
	Plot       string `json:"plot"`
	IMDbRating string `json:"imdb_rating"`
}

// toFavoriteResponse はmodel.FavoriteWithMovieからAPIレスポンスに変換する。
func toFavoriteResponse(fav *model.FavoriteWithMovie) favoriteResponse {
	return favoriteResponse{
		ID:         fav.ID,
		UserID:     fav.UserID,
		MovieID:    fav.MovieID,
		Review:     fav.Review,
		Rating:     fav.Rating,
		CreatedAt:  fav.CreatedAt,
		UpdatedAt:  fav.UpdatedAt,
		IMDbID:     fav.IMDbID,
		Title:      fav.Title,
		Year:       fav.Year,
		Poster:     fav.Poster,
		Genre:      fav.Genre,
		Director:   fav.Director,
		Actors:     fav.Actors,
		Plot:       fav.Plot,
		IMDbRating: fav.IMDbRating,
	}
}

// toMovieResponse はmodel.MovieからAPIレスポンスに変換する。
func toMovieResponse(movie *model.Movie) movieResponse {
	return movieResponse{
		ID:         movie.ID,
		IMDbID:     movie.IMDbID,
		Title:      movie.Title,
		Year:       movie.Year,
		Poster:     movie.Poster,
		Genre:      movie.Genre,
		Director:   movie.Director,
		Actors:     movie.Actors,
		Plot:       movie.Plot,
		IMDbRating: movie.IMDbRating,
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeFailure は `{success:false, message}` 形式のエラーレスポンスを書き込む。
func writeFailure(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"message": message,
	})
}

// handleServiceError はサービス層から返されたエラーをHTTPレスポンスに変換する。
// APIErrorはコードに応じたステータスとメッセージをそのまま返し、
// それ以外は詳細をログにのみ残して一般メッセージの500に丸める。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeFailure(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeFailure(w, http.StatusInternalServerError, "Internal server error")
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMovieIDRequired,
		model.ErrCodeInvalidRating,
		model.ErrCodeAlreadyFavorited,
		model.ErrCodeSearchQueryRequired:
		return http.StatusBadRequest
	case model.ErrCodeMovieNotFound,
		model.ErrCodeFavoriteNotFound,
		model.ErrCodePosterNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
