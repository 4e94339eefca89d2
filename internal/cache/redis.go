// Package cache はOMDb検索レスポンスの短期キャッシュを提供する。
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store はキー・バリュー型キャッシュのインターフェース。
// ミス時は(nil, nil)を返す。キャッシュはベストエフォートであり、
// 利用側はエラーを致命的に扱ってはならない。
type Store interface {
	// Get はキーに対応する値を取得する。ミス時は(nil, nil)を返す。
	Get(ctx context.Context, key string) ([]byte, error)
	// Set はキーに値をTTL付きで保存する。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore はRedisを使用したStoreの実装。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore はRedisStoreを生成し、接続を確認する。
// redisURLが空の場合は(nil, nil)を返す（キャッシュ無効として扱う）。
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Get はキーに対応する値を取得する。ミス時は(nil, nil)を返す。
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return val, nil
}

// Set はキーに値をTTL付きで保存する。
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Close はRedis接続を閉じる。
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// compile-time interface check
var _ Store = (*RedisStore)(nil)
