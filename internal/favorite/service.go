// Package favorite はお気に入り管理のドメインロジックを提供する。
package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kenta/moviemeter/internal/model"
	"github.com/kenta/moviemeter/internal/repository"
)

// Sanitizer はレビュー本文のサニタイズに必要なインターフェース。
// security.TextSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder はお気に入り操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordFavoriteMutation(op string)
}

// Service はお気に入りに関するビジネスロジックを提供する。
// すべての操作は認証済みユーザーのIDで明示的にスコープされ、
// IDはハンドラーがリクエストコンテキストから解決して渡す。
type Service struct {
	favRepo   repository.FavoriteRepository
	movieRepo repository.MovieRepository
	sanitizer Sanitizer
	metrics   MetricsRecorder
}

// NewService はServiceを生成する。
func NewService(
	favRepo repository.FavoriteRepository,
	movieRepo repository.MovieRepository,
	sanitizer Sanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		favRepo:   favRepo,
		movieRepo: movieRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// List はユーザーのお気に入り一覧を映画情報付きで返す。作成日時の新しい順。
func (s *Service) List(ctx context.Context, userID int64) ([]model.FavoriteWithMovie, error) {
	favorites, err := s.favRepo.ListWithMovieByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// Add は映画をお気に入りに追加する。
// 映画IDはローカルのmoviesテーブルに解決できる必要があり、
// (ユーザー, 映画)の組が既に存在する場合は重複エラーを返す。
// 一意制約違反（事前チェックをすり抜けた同時リクエスト）も同じ重複エラーに正規化する。
func (s *Service) Add(ctx context.Context, userID, movieID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	review = s.sanitizeReview(review)

	// 1. 映画の存在確認
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to check movie existence: %w", err)
	}
	if movie == nil {
		return nil, model.NewMovieNotFoundError()
	}

	// 2. 重複確認
	existing, err := s.favRepo.FindByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing favorite: %w", err)
	}
	if existing != nil {
		return nil, model.NewAlreadyFavoritedError()
	}

	// 3. 作成
	id, err := s.favRepo.Create(ctx, &model.Favorite{
		UserID:  userID,
		MovieID: movieID,
		Review:  review,
		Rating:  rating,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return nil, model.NewAlreadyFavoritedError()
		}
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	s.metrics.RecordFavoriteMutation("add")
	slog.Info("favorite added",
		slog.Int64("user_id", userID),
		slog.Int64("movie_id", movieID),
	)

	// 4. 映画情報付きで返す
	created, err := s.favRepo.FindWithMovieByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load created favorite: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("created favorite not found: %d", id)
	}

	return created, nil
}

// Update はお気に入りのレビューと評価を上書きする。
// reviewとratingはnilでクリア（NULL化）される。
// 存在しない場合と他ユーザー所有の場合は同一の未検出エラーを返し、
// 他人のデータの存在を観測できないようにする（403は返さない）。
func (s *Service) Update(ctx context.Context, userID, favoriteID int64, review *string, rating *int) (*model.FavoriteWithMovie, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	review = s.sanitizeReview(review)

	ok, err := s.favRepo.Update(ctx, favoriteID, userID, review, rating)
	if err != nil {
		return nil, fmt.Errorf("failed to update favorite: %w", err)
	}
	if !ok {
		return nil, model.NewFavoriteNotFoundError()
	}

	s.metrics.RecordFavoriteMutation("update")

	updated, err := s.favRepo.FindWithMovieByID(ctx, favoriteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated favorite: %w", err)
	}
	if updated == nil {
		return nil, model.NewFavoriteNotFoundError()
	}

	return updated, nil
}

// Remove はお気に入りを削除する。
// 未検出の扱いはUpdateと同じ（所有者の違いを観測させない）。
func (s *Service) Remove(ctx context.Context, userID, favoriteID int64) error {
	ok, err := s.favRepo.Delete(ctx, favoriteID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if !ok {
		return model.NewFavoriteNotFoundError()
	}

	s.metrics.RecordFavoriteMutation("remove")
	slog.Info("favorite removed",
		slog.Int64("user_id", userID),
		slog.Int64("favorite_id", favoriteID),
	)

	return nil
}

// Check は指定映画がお気に入り済みかを返す。
// お気に入り済みの場合はそのIDも返す（トグルUIが一覧取得なしで状態を描画するため）。
func (s *Service) Check(ctx context.Context, userID, movieID int64) (bool, *int64, error) {
	fav, err := s.favRepo.FindByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	if fav == nil {
		return false, nil, nil
	}
	return true, &fav.ID, nil
}

// sanitizeReview はレビュー本文からHTMLタグを除去する。nilはそのまま通す。
func (s *Service) sanitizeReview(review *string) *string {
	if review == nil {
		return nil
	}
	cleaned := s.sanitizer.Sanitize(*review)
	return &cleaned
}

// validateRating は評価値が未入力（nil）または1〜10の整数であることを検証する。
func validateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < 1 || *rating > 10 {
		return model.NewInvalidRatingError()
	}
	return nil
}
