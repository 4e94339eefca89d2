package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/kenta/moviemeter/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const uniqueViolation = "23505"

// favoriteWithMovieQuery はお気に入りと映画情報をJOINするSELECT句。
const favoriteWithMovieQuery = `
	SELECT
		f.id, f.user_id, f.movie_id, f.review, f.rating, f.created_at, f.updated_at,
		m.imdb_id, m.title, m.year, m.poster, m.genre, m.director,
		m.actors, m.plot, m.imdb_rating
	FROM favorites f
	JOIN movies m ON f.movie_id = m.id`

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

func scanFavoriteWithMovie(scan func(dest ...any) error) (*model.FavoriteWithMovie, error) {
	fav := &model.FavoriteWithMovie{}
	err := scan(
		&fav.ID, &fav.UserID, &fav.MovieID, &fav.Review, &fav.Rating, &fav.CreatedAt, &fav.UpdatedAt,
		&fav.IMDbID, &fav.Title, &fav.Year, &fav.Poster, &fav.Genre, &fav.Director,
		&fav.Actors, &fav.Plot, &fav.IMDbRating,
	)
	if err != nil {
		return nil, err
	}
	return fav, nil
}

// ListWithMovieByUserID はユーザーのお気に入り一覧を映画情報付きで返す。
// created_at降順（新しい順）。
func (r *PostgresFavoriteRepo) ListWithMovieByUserID(ctx context.Context, userID int64) ([]model.FavoriteWithMovie, error) {
	rows, err := r.db.QueryContext(ctx,
		favoriteWithMovieQuery+`
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []model.FavoriteWithMovie{}
	for rows.Next() {
		fav, err := scanFavoriteWithMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, *fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return favorites, nil
}

// FindWithMovieByID は指定IDのお気に入りを映画情報付きで取得する。見つからない場合はnilを返す。
func (r *PostgresFavoriteRepo) FindWithMovieByID(ctx context.Context, id int64) (*model.FavoriteWithMovie, error) {
	fav, err := scanFavoriteWithMovie(r.db.QueryRowContext(ctx,
		favoriteWithMovieQuery+` WHERE f.id = $1`,
		id,
	).Scan)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}

	return fav, nil
}

// FindByUserAndMovie はユーザーIDと映画IDでお気に入りを検索する。見つからない場合はnilを返す。
func (r *PostgresFavoriteRepo) FindByUserAndMovie(ctx context.Context, userID, movieID int64) (*model.Favorite, error) {
	fav := &model.Favorite{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, movie_id, review, rating, created_at, updated_at
		 FROM favorites WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID,
	).Scan(&fav.ID, &fav.UserID, &fav.MovieID, &fav.Review, &fav.Rating, &fav.CreatedAt, &fav.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite by user and movie: %w", err)
	}

	return fav, nil
}

// Create はお気に入りを作成し、新規行のIDを返す。
// (user_id, movie_id)の一意制約違反時はErrDuplicateFavoriteを返す。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, favorite *model.Favorite) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO favorites (user_id, movie_id, review, rating)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		favorite.UserID, favorite.MovieID, favorite.Review, favorite.Rating,
	).Scan(&id)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicateFavorite
		}
		return 0, fmt.Errorf("failed to create favorite: %w", err)
	}

	return id, nil
}

// Update は指定ユーザー所有のお気に入りのreview/ratingを上書きする。
// 所有者が異なる場合と行が存在しない場合は区別せずfalseを返す。
func (r *PostgresFavoriteRepo) Update(ctx context.Context, id, userID int64, review *string, rating *int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE favorites
		 SET review = $1, rating = $2, updated_at = now()
		 WHERE id = $3 AND user_id = $4`,
		review, rating, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete は指定ユーザー所有のお気に入りを削除する。
// 所有者が異なる場合と行が存在しない場合は区別せずfalseを返す。
func (r *PostgresFavoriteRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
