package model

import "time"

// Movie は外部カタログ（OMDb）から取り込んだ映画のローカルキャッシュを表す。
// imdb_idが外部カタログ側の識別子で、一意である。
// OMDbの詳細取得のたびに記述フィールドを上書き更新する読み取りキャッシュであり、
// お気に入りサブシステムが映画データを変更することはない。
type Movie struct {
	ID         int64
	IMDbID     string
	Title      string
	Year       string
	Poster     string
	Genre      string
	Director   string
	Actors     string
	Plot       string
	IMDbRating string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
