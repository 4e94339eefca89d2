// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/kenta/moviemeter/internal/model"
)

// ErrDuplicateFavorite は(user_id, movie_id)の一意制約違反を表す。
// 事前チェックをすり抜けた同時リクエストでもこのエラーに正規化される。
var ErrDuplicateFavorite = errors.New("favorite already exists")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// UpsertByGoogleID はOAuthプロフィールをローカルユーザーへ解決する。
	// 未登録のgoogle_idなら新規作成、登録済みならemail/name/picture/updated_atを
	// 上書きする。単一のINSERT ... ON CONFLICT文で実行されるため中途半端な行は残らない。
	UpsertByGoogleID(ctx context.Context, assertion *model.IdentityAssertion) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// MovieRepository は映画キャッシュの永続化インターフェース。
type MovieRepository interface {
	// FindByID は指定IDの映画を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Movie, error)

	// FindByIMDbID はIMDb IDで映画を検索する。見つからない場合はnilを返す。
	FindByIMDbID(ctx context.Context, imdbID string) (*model.Movie, error)

	// Upsert はimdb_idをキーに映画を作成または上書き更新し、保存後の行を返す。
	Upsert(ctx context.Context, movie *model.Movie) (*model.Movie, error)
}

// FavoriteRepository はお気に入りデータの永続化インターフェース。
// すべての書き込み操作はuser_idでスコープされる。
type FavoriteRepository interface {
	// ListWithMovieByUserID はユーザーのお気に入り一覧を映画情報付きで返す。
	// created_at降順（新しい順）。
	ListWithMovieByUserID(ctx context.Context, userID int64) ([]model.FavoriteWithMovie, error)

	// FindWithMovieByID は指定IDのお気に入りを映画情報付きで取得する。
	// 見つからない場合はnilを返す。
	FindWithMovieByID(ctx context.Context, id int64) (*model.FavoriteWithMovie, error)

	// FindByUserAndMovie はユーザーIDと映画IDでお気に入りを検索する。
	// 見つからない場合はnilを返す。
	FindByUserAndMovie(ctx context.Context, userID, movieID int64) (*model.Favorite, error)

	// Create はお気に入りを作成し、新規行のIDを返す。
	// (user_id, movie_id)の一意制約違反時はErrDuplicateFavoriteを返す。
	Create(ctx context.Context, favorite *model.Favorite) (int64, error)

	// Update は指定ユーザー所有のお気に入りのreview/ratingを上書きし、
	// updated_atを更新する。該当行がない場合はfalseを返す。
	Update(ctx context.Context, id, userID int64, review *string, rating *int) (bool, error)

	// Delete は指定ユーザー所有のお気に入りを削除する。該当行がない場合はfalseを返す。
	Delete(ctx context.Context, id, userID int64) (bool, error)
}
