package movie

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kenta/moviemeter/internal/model"
)

// maxPosterSize はポスター画像の最大サイズ（5MB）。
const maxPosterSize = 5 * 1024 * 1024

// posterTimeout はポスター取得のタイムアウト。
const posterTimeout = 10 * time.Second

// SSRFValidator はURL検証とSSRF防止クライアント生成のインターフェース。
// security.SSRFGuardServiceの部分集合として定義する。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration) *http.Client
}

// PosterFetcher はポスター画像のプロキシ取得機能の実装。
// フロントエンドが混在コンテンツやホットリンク制限を踏まずに
// ポスターを表示できるよう、サーバー側でSSRF防止付きに取得する。
type PosterFetcher struct {
	ssrfGuard SSRFValidator
}

// NewPosterFetcher はPosterFetcherの新しいインスタンスを生成する。
func NewPosterFetcher(ssrfGuard SSRFValidator) *PosterFetcher {
	return &PosterFetcher{
		ssrfGuard: ssrfGuard,
	}
}

// FetchPoster は指定URLからポスター画像を取得する。
// URLが空の場合およびURL検証に失敗した場合はポスター未検出エラーを返す。
func (f *PosterFetcher) FetchPoster(ctx context.Context, posterURL string) (data []byte, mimeType string, err error) {
	if posterURL == "" {
		return nil, "", model.NewPosterNotFoundError()
	}

	// SSRF検証
	if err := f.ssrfGuard.ValidateURL(posterURL); err != nil {
		slog.Warn("poster fetch blocked", slog.String("url", posterURL), slog.String("error", err.Error()))
		return nil, "", model.NewPosterNotFoundError()
	}

	client := f.ssrfGuard.NewSafeClient(posterTimeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, posterURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create poster request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("poster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", model.NewPosterNotFoundError()
	}

	// サイズ上限付きで読み込む
	limited := io.LimitReader(resp.Body, maxPosterSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read poster body: %w", err)
	}
	if int64(len(body)) > maxPosterSize {
		return nil, "", fmt.Errorf("poster exceeds size limit (%d bytes)", maxPosterSize)
	}

	mimeType = resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(body)
	}

	return body, mimeType, nil
}
