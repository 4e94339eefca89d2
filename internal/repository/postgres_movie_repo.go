package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kenta/moviemeter/internal/model"
)

// movieColumns はmoviesテーブルのSELECT列。Scanの順序と一致させること。
const movieColumns = `id, imdb_id, title, year, poster, genre, director, actors, plot, imdb_rating, created_at, updated_at`

// PostgresMovieRepo はPostgreSQLを使用した映画キャッシュリポジトリ。
type PostgresMovieRepo struct {
	db *sql.DB
}

// NewPostgresMovieRepo はPostgresMovieRepoを生成する。
func NewPostgresMovieRepo(db *sql.DB) *PostgresMovieRepo {
	return &PostgresMovieRepo{db: db}
}

func scanMovie(row *sql.Row) (*model.Movie, error) {
	m := &model.Movie{}
	err := row.Scan(
		&m.ID, &m.IMDbID, &m.Title, &m.Year, &m.Poster, &m.Genre,
		&m.Director, &m.Actors, &m.Plot, &m.IMDbRating, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FindByID は指定IDの映画を取得する。見つからない場合はnilを返す。
func (r *PostgresMovieRepo) FindByID(ctx context.Context, id int64) (*model.Movie, error) {
	movie, err := scanMovie(r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = $1`,
		id,
	))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find movie by ID: %w", err)
	}

	return movie, nil
}

// FindByIMDbID はIMDb IDで映画を検索する。見つからない場合はnilを返す。
func (r *PostgresMovieRepo) FindByIMDbID(ctx context.Context, imdbID string) (*model.Movie, error) {
	movie, err := scanMovie(r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE imdb_id = $1`,
		imdbID,
	))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find movie by IMDb ID: %w", err)
	}

	return movie, nil
}

// Upsert はimdb_idをキーに映画を作成または上書き更新し、保存後の行を返す。
// ローカルIDと作成日時は既存行のまま維持される。
func (r *PostgresMovieRepo) Upsert(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	saved, err := scanMovie(r.db.QueryRowContext(ctx,
		`INSERT INTO movies (imdb_id, title, year, poster, genre, director, actors, plot, imdb_rating)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (imdb_id) DO UPDATE
		 SET title = EXCLUDED.title,
		     year = EXCLUDED.year,
		     poster = EXCLUDED.poster,
		     genre = EXCLUDED.genre,
		     director = EXCLUDED.director,
		     actors = EXCLUDED.actors,
		     plot = EXCLUDED.plot,
		     imdb_rating = EXCLUDED.imdb_rating,
		     updated_at = now()
		 RETURNING `+movieColumns,
		movie.IMDbID, movie.Title, movie.Year, movie.Poster, movie.Genre,
		movie.Director, movie.Actors, movie.Plot, movie.IMDbRating,
	))

	if err != nil {
		return nil, fmt.Errorf("failed to upsert movie: %w", err)
	}

	return saved, nil
}

// compile-time interface check
var _ MovieRepository = (*PostgresMovieRepo)(nil)
