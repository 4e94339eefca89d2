// Package client はMovie Meter APIのGoクライアントSDKを提供する。
// 認証済みセッションと、お気に入りコレクションのローカルミラーを保持する。
// ミラーはサーバーを信頼できる唯一の情報源とし、書き込み操作のレスポンスで
// 逐次整合（write-through）する。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Favorite はクライアント側で保持するお気に入り（映画情報付き）。
type Favorite struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	MovieID    int64     `json:"movie_id"`
	Review     *string   `json:"review"`
	Rating     *int      `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	IMDbID     string    `json:"imdb_id"`
	Title      string    `json:"title"`
	Year       string    `json:"year"`
	Poster     string    `json:"poster"`
	Genre      string    `json:"genre"`
	Director   string    `json:"director"`
	Actors     string    `json:"actors"`
	Plot       string    `json:"plot"`
	IMDbRating string    `json:"imdb_rating"`
}

// Result は書き込み操作の結果を表す。
// 通信障害やサーバーエラーもエラーではなくSuccess=falseのResultとして返る。
type Result struct {
	Success  bool
	Message  string
	Favorite *Favorite
}

// apiEnvelope はAPIレスポンスの共通エンベロープ。
type apiEnvelope struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Favorite  *Favorite  `json:"favorite"`
	Favorites []Favorite `json:"favorites"`
}

// Client はMovie Meter APIのクライアント。
// すべての公開メソッドはゴルーチンセーフで、ミラーの観察
// （IsFavorited/FavoriteByMovieID/Favorites)は通信を伴わない。
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	sessionID string
	favorites []Favorite
}

// NewClient は新しいClientを生成する。
// httpClientがnilの場合はタイムアウト付きのデフォルトクライアントを使用する。
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		favorites:  []Favorite{},
	}
}

// SetSession はセッションIDを設定し、ミラーをサーバーから再取得する。
// ログイン（アイデンティティの変化）がミラーを書き換える唯一の契機のひとつ。
// 再取得に失敗した場合、ミラーは空になる。
func (c *Client) SetSession(ctx context.Context, sessionID string) {
	c.mu.Lock()
	c.sessionID = sessionID
	c.favorites = []Favorite{}
	c.mu.Unlock()

	c.Refresh(ctx)
}

// ClearSession はセッションを破棄し、ミラーを空にする。
func (c *Client) ClearSession() {
	c.mu.Lock()
	c.sessionID = ""
	c.favorites = []Favorite{}
	c.mu.Unlock()
}

// Refresh はお気に入り一覧をサーバーから再取得してミラーを置き換える。
// 取得に失敗した場合はミラーを変更せずfalseを返す。
func (c *Client) Refresh(ctx context.Context) bool {
	envelope, err := c.do(ctx, http.MethodGet, "/api/favorites", nil)
	if err != nil || !envelope.Success {
		return false
	}

	favorites := envelope.Favorites
	if favorites == nil {
		favorites = []Favorite{}
	}

	c.mu.Lock()
	c.favorites = favorites
	c.mu.Unlock()
	return true
}

// AddFavorite は映画をお気に入りに追加し、レスポンスでミラーを整合する。
// 新しいお気に入りはミラーの先頭に追加される（作成日時の新しい順の維持）。
func (c *Client) AddFavorite(ctx context.Context, movieID int64, review *string, rating *int) Result {
	body := map[string]any{
		"movieId": movieID,
		"review":  review,
		"rating":  rating,
	}

	envelope, err := c.do(ctx, http.MethodPost, "/api/favorites", body)
	if err != nil {
		return failureResult(err)
	}
	if !envelope.Success || envelope.Favorite == nil {
		return Result{Success: false, Message: envelope.Message}
	}

	c.mu.Lock()
	c.favorites = append([]Favorite{*envelope.Favorite}, c.favorites...)
	c.mu.Unlock()

	return Result{Success: true, Message: envelope.Message, Favorite: envelope.Favorite}
}

// UpdateFavorite はお気に入りのレビュー・評価を更新し、ミラーの該当要素を置き換える。
func (c *Client) UpdateFavorite(ctx context.Context, favoriteID int64, review *string, rating *int) Result {
	body := map[string]any{
		"review": review,
		"rating": rating,
	}

	path := "/api/favorites/" + strconv.FormatInt(favoriteID, 10)
	envelope, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return failureResult(err)
	}
	if !envelope.Success || envelope.Favorite == nil {
		return Result{Success: false, Message: envelope.Message}
	}

	c.mu.Lock()
	for i := range c.favorites {
		if c.favorites[i].ID == favoriteID {
			c.favorites[i] = *envelope.Favorite
			break
		}
	}
	c.mu.Unlock()

	return Result{Success: true, Message: envelope.Message, Favorite: envelope.Favorite}
}

// RemoveFavorite はお気に入りを削除し、ミラーから該当要素を取り除く。
func (c *Client) RemoveFavorite(ctx context.Context, favoriteID int64) Result {
	path := "/api/favorites/" + strconv.FormatInt(favoriteID, 10)
	envelope, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return failureResult(err)
	}
	if !envelope.Success {
		return Result{Success: false, Message: envelope.Message}
	}

	c.mu.Lock()
	filtered := c.favorites[:0]
	for _, fav := range c.favorites {
		if fav.ID != favoriteID {
			filtered = append(filtered, fav)
		}
	}
	c.favorites = filtered
	c.mu.Unlock()

	return Result{Success: true, Message: envelope.Message}
}

// IsFavorited は指定映画がミラー上でお気に入り済みかを返す。通信は行わない。
func (c *Client) IsFavorited(movieID int64) bool {
	return c.FavoriteByMovieID(movieID) != nil
}

// FavoriteByMovieID はミラーから指定映画のお気に入りを返す。未登録ならnil。
func (c *Client) FavoriteByMovieID(movieID int64) *Favorite {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.favorites {
		if c.favorites[i].MovieID == movieID {
			fav := c.favorites[i]
			return &fav
		}
	}
	return nil
}

// Favorites はミラーのスナップショットを返す。
func (c *Client) Favorites() []Favorite {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]Favorite, len(c.favorites))
	copy(snapshot, c.favorites)
	return snapshot
}

// do はセッションCookie付きのHTTPリクエストを実行し、エンベロープを解析して返す。
func (c *Client) do(ctx context.Context, method, path string, body any) (*apiEnvelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	sessionID := c.sessionID
	c.mu.RUnlock()
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &envelope, nil
}

// failureResult は通信エラーを失敗Resultに変換する。
func failureResult(err error) Result {
	return Result{
		Success: false,
		Message: fmt.Sprintf("request failed: %v", err),
	}
}
