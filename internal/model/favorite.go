package model

import "time"

// Favorite はユーザーと映画の「お気に入り」関係を表す。
// (user_id, movie_id) の組はDB制約により一意。
// ReviewとRatingは任意入力で、nilは「未入力」を意味する（数値とは区別される）。
type Favorite struct {
	ID        int64
	UserID    int64
	MovieID   int64
	Review    *string
	Rating    *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FavoriteWithMovie はお気に入りに映画の記述フィールドをJOINした読み取りモデル。
// 一覧・追加・更新のAPIレスポンスで使用する。
type FavoriteWithMovie struct {
	Favorite
	IMDbID     string
	Title      string
	Year       string
	Poster     string
	Genre      string
	Director   string
	Actors     string
	Plot       string
	IMDbRating string
}
