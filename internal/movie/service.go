// Package movie は外部カタログ（OMDb）に裏付けられた映画検索・取り込みのドメインロジックを提供する。
package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kenta/moviemeter/internal/cache"
	"github.com/kenta/moviemeter/internal/model"
	"github.com/kenta/moviemeter/internal/repository"
)

// Catalog はOMDbクライアントのインターフェース。
type Catalog interface {
	// Search はOMDbでタイトル検索を実行する。
	Search(ctx context.Context, query string, page int) (*SearchResult, error)
	// GetByIMDbID はIMDb IDで映画の詳細を取得する。見つからない場合はnilを返す。
	GetByIMDbID(ctx context.Context, imdbID string) (*MovieDetail, error)
}

// Sanitizer はテキストサニタイズのインターフェース。
// security.TextSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder はOMDbリクエストとキャッシュヒットのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordOMDbRequest()
	RecordSearchCacheHit()
}

// ServiceConfig は映画サービスの設定。
type ServiceConfig struct {
	SearchCacheTTL time.Duration // 検索キャッシュのTTL
}

// Service は映画検索とローカルキャッシュへの取り込みを提供する。
// 検索はOMDbへのプロキシで、結果は設定があればRedisに短期キャッシュされる。
// 詳細取得はmoviesテーブルへのread-throughキャッシュとして動作し、
// お気に入り追加時の映画ID解決はこの取り込みに依存する。
type Service struct {
	catalog   Catalog
	movieRepo repository.MovieRepository
	store     cache.Store // nilの場合キャッシュ無効
	sanitizer Sanitizer
	metrics   MetricsRecorder
	config    ServiceConfig
}

// NewService はServiceを生成する。storeはnilを許容する（キャッシュ無効）。
func NewService(
	catalog Catalog,
	movieRepo repository.MovieRepository,
	store cache.Store,
	sanitizer Sanitizer,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		catalog:   catalog,
		movieRepo: movieRepo,
		store:     store,
		sanitizer: sanitizer,
		metrics:   metrics,
		config:    config,
	}
}

// Search はOMDbでタイトル検索を実行する。
// 同一クエリの結果はTTL付きでキャッシュされる。キャッシュ層の障害は
// 検索自体を失敗させず、ログに記録してOMDbへフォールバックする。
func (s *Service) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if query == "" {
		return nil, model.NewSearchQueryRequiredError()
	}
	if page < 1 {
		page = 1
	}

	key := searchCacheKey(query, page)

	if s.store != nil {
		cached, err := s.store.Get(ctx, key)
		if err != nil {
			slog.Warn("search cache get failed", slog.String("error", err.Error()))
		} else if cached != nil {
			var result SearchResult
			if err := json.Unmarshal(cached, &result); err == nil {
				s.metrics.RecordSearchCacheHit()
				return &result, nil
			}
			slog.Warn("search cache entry corrupt, falling back to OMDb", slog.String("key", key))
		}
	}

	s.metrics.RecordOMDbRequest()
	result, err := s.catalog.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	if s.store != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.store.Set(ctx, key, data, s.config.SearchCacheTTL); err != nil {
				slog.Warn("search cache set failed", slog.String("error", err.Error()))
			}
		}
	}

	return result, nil
}

// GetByIMDbID はIMDb IDで映画の詳細を取得し、ローカルのmoviesテーブルへ
// 取り込んで返す。取り込みによりローカルIDが採番され、お気に入り追加で
// 参照可能になる。OMDbに存在しない場合はAPIエラー（映画未検出）を返す。
func (s *Service) GetByIMDbID(ctx context.Context, imdbID string) (*model.Movie, error) {
	s.metrics.RecordOMDbRequest()
	detail, err := s.catalog.GetByIMDbID(ctx, imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie detail: %w", err)
	}
	if detail == nil {
		return nil, model.NewMovieNotFoundError()
	}

	saved, err := s.movieRepo.Upsert(ctx, &model.Movie{
		IMDbID:     detail.IMDbID,
		Title:      detail.Title,
		Year:       detail.Year,
		Poster:     detail.Poster,
		Genre:      detail.Genre,
		Director:   detail.Director,
		Actors:     detail.Actors,
		Plot:       s.sanitizer.Sanitize(detail.Plot),
		IMDbRating: detail.IMDbRating,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store movie: %w", err)
	}

	return saved, nil
}

// FindLocalByIMDbID はローカルキャッシュ済みの映画をIMDb IDで返す。
// 未取り込みの場合はOMDbから取り込んで返す。
func (s *Service) FindLocalByIMDbID(ctx context.Context, imdbID string) (*model.Movie, error) {
	local, err := s.movieRepo.FindByIMDbID(ctx, imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to find local movie: %w", err)
	}
	if local != nil {
		return local, nil
	}

	return s.GetByIMDbID(ctx, imdbID)
}

// searchCacheKey は検索キャッシュのキーを生成する。
func searchCacheKey(query string, page int) string {
	return "omdb:search:" + query + ":" + strconv.Itoa(page)
}
