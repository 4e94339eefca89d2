package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: "MOVIE_NOT_FOUND", Message: "Movie not found"}
	if got := err.Error(); got != "[MOVIE_NOT_FOUND] Movie not found" {
		t.Errorf("Error() = %q, want %q", got, "[MOVIE_NOT_FOUND] Movie not found")
	}
}

func TestAPIError_Constructors(t *testing.T) {
	tests := []struct {
		name        string
		err         *APIError
		wantCode    string
		wantMessage string
	}{
		{"映画ID未指定", NewMovieIDRequiredError(), ErrCodeMovieIDRequired, "Movie ID is required"},
		{"映画未検出", NewMovieNotFoundError(), ErrCodeMovieNotFound, "Movie not found"},
		{"重複お気に入り", NewAlreadyFavoritedError(), ErrCodeAlreadyFavorited, "Movie already in favorites"},
		{"お気に入り未検出", NewFavoriteNotFoundError(), ErrCodeFavoriteNotFound, "Favorite not found"},
		{"評価範囲外", NewInvalidRatingError(), ErrCodeInvalidRating, "Rating must be an integer between 1 and 10"},
		{"検索クエリ未指定", NewSearchQueryRequiredError(), ErrCodeSearchQueryRequired, "Search query is required"},
		{"ポスター未検出", NewPosterNotFoundError(), ErrCodePosterNotFound, "Poster not available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMessage)
			}
		})
	}
}

func TestAPIError_UnwrapsWithErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("service failed: %w", NewMovieNotFoundError())

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As failed to extract *APIError from wrapped error")
	}
	if apiErr.Code != ErrCodeMovieNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeMovieNotFound)
	}
}
