package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kenta/moviemeter/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, google_id, email, name, picture, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name, &user.Picture, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// UpsertByGoogleID はOAuthプロフィールをローカルユーザーへ解決する。
// google_idは不変で、既存行のidも変わらない。単一文のため原子的に実行される。
func (r *PostgresUserRepo) UpsertByGoogleID(ctx context.Context, assertion *model.IdentityAssertion) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (google_id, email, name, picture)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (google_id) DO UPDATE
		 SET email = EXCLUDED.email,
		     name = EXCLUDED.name,
		     picture = EXCLUDED.picture,
		     updated_at = now()
		 RETURNING id, google_id, email, name, picture, created_at, updated_at`,
		assertion.GoogleID, assertion.Email, assertion.Name, assertion.Picture,
	).Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name, &user.Picture, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
