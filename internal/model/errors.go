package model

import "fmt"

// APIError はクライアントへそのまま返してよいドメインエラーを表す。
// Messageはレスポンスの message フィールドとして公開される。
// ここに分類されないエラーはすべて500の一般メッセージに丸め、詳細はログにのみ残す。
type APIError struct {
	Code    string // エラーコード
	Message string // クライアント向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMovieIDRequired     = "MOVIE_ID_REQUIRED"
	ErrCodeMovieNotFound       = "MOVIE_NOT_FOUND"
	ErrCodeAlreadyFavorited    = "ALREADY_FAVORITED"
	ErrCodeFavoriteNotFound    = "FAVORITE_NOT_FOUND"
	ErrCodeInvalidRating       = "INVALID_RATING"
	ErrCodeSearchQueryRequired = "SEARCH_QUERY_REQUIRED"
	ErrCodePosterNotFound      = "POSTER_NOT_FOUND"
)

// NewMovieIDRequiredError は映画ID未指定エラーを生成する。
func NewMovieIDRequiredError() *APIError {
	return &APIError{
		Code:    ErrCodeMovieIDRequired,
		Message: "Movie ID is required",
	}
}

// NewMovieNotFoundError は映画未検出エラーを生成する。
func NewMovieNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeMovieNotFound,
		Message: "Movie not found",
	}
}

// NewAlreadyFavoritedError は重複お気に入りエラーを生成する。
func NewAlreadyFavoritedError() *APIError {
	return &APIError{
		Code:    ErrCodeAlreadyFavorited,
		Message: "Movie already in favorites",
	}
}

// NewFavoriteNotFoundError はお気に入り未検出エラーを生成する。
// 他ユーザー所有の場合も存在しない場合も同一のエラーを返し、
// 他人のデータの存在を観測できないようにする。
func NewFavoriteNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeFavoriteNotFound,
		Message: "Favorite not found",
	}
}

// NewInvalidRatingError は評価値の範囲外エラーを生成する。
func NewInvalidRatingError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRating,
		Message: "Rating must be an integer between 1 and 10",
	}
}

// NewSearchQueryRequiredError は検索クエリ未指定エラーを生成する。
func NewSearchQueryRequiredError() *APIError {
	return &APIError{
		Code:    ErrCodeSearchQueryRequired,
		Message: "Search query is required",
	}
}

// NewPosterNotFoundError はポスター未検出エラーを生成する。
func NewPosterNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodePosterNotFound,
		Message: "Poster not available",
	}
}
