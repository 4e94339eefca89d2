package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultOMDbBaseURL = "https://www.omdbapi.com/"

// OMDbConfig はOMDbクライアントの設定。
type OMDbConfig struct {
	APIKey  string
	Timeout time.Duration

	// テスト用にオーバーライド可能なURL
	BaseURL string
}

// OMDbClient はOMDb APIへのHTTPクライアント。
// 検索（s=）と詳細取得（i=）の2つのエンドポイントを提供する。
type OMDbClient struct {
	config     OMDbConfig
	httpClient *http.Client
}

// NewOMDbClient はOMDbClientを生成する。
func NewOMDbClient(config OMDbConfig) *OMDbClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultOMDbBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &OMDbClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// omdbSearchItem はOMDb検索レスポンスの1件分。
type omdbSearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// omdbSearchResponse はOMDbの検索エンドポイント（s=）のレスポンス。
// ヒットなしの場合はResponse="False"となり、Errorに理由が入る。
type omdbSearchResponse struct {
	Search       []omdbSearchItem `json:"Search"`
	TotalResults string           `json:"totalResults"`
	Response     string           `json:"Response"`
	Error        string           `json:"Error"`
}

// omdbDetailResponse はOMDbの詳細エンドポイント（i=）のレスポンス。
type omdbDetailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// SearchMovie は検索結果の1件分を表す。
type SearchMovie struct {
	IMDbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

// SearchResult は映画検索の結果を表す。
type SearchResult struct {
	Movies       []SearchMovie `json:"movies"`
	TotalResults int           `json:"total_results"`
}

// MovieDetail はOMDbから取得した映画の詳細を表す。
type MovieDetail struct {
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

// Search はOMDbでタイトル検索を実行する。
// ヒットなしの場合は空の結果を返す（エラーではない）。
func (c *OMDbClient) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{
		"apikey": {c.config.APIKey},
		"s":      {query},
		"type":   {"movie"},
		"page":   {strconv.Itoa(page)},
	}

	var resp omdbSearchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	// OMDbはヒットなしをResponse="False"で表す
	if resp.Response != "True" {
		return &SearchResult{Movies: []SearchMovie{}}, nil
	}

	total, err := strconv.Atoi(resp.TotalResults)
	if err != nil {
		total = len(resp.Search)
	}

	movies := make([]SearchMovie, 0, len(resp.Search))
	for _, item := range resp.Search {
		movies = append(movies, SearchMovie{
			IMDbID: item.IMDbID,
			Title:  item.Title,
			Year:   item.Year,
			Poster: normalizeOMDbField(item.Poster),
		})
	}

	return &SearchResult{Movies: movies, TotalResults: total}, nil
}

// GetByIMDbID はIMDb IDで映画の詳細を取得する。見つからない場合はnilを返す。
func (c *OMDbClient) GetByIMDbID(ctx context.Context, imdbID string) (*MovieDetail, error) {
	params := url.Values{
		"apikey": {c.config.APIKey},
		"i":      {imdbID},
		"plot":   {"full"},
	}

	var resp omdbDetailResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	if resp.Response != "True" {
		return nil, nil
	}

	return &MovieDetail{
		IMDbID:     resp.IMDbID,
		Title:      resp.Title,
		Year:       normalizeOMDbField(resp.Year),
		Poster:     normalizeOMDbField(resp.Poster),
		Genre:      normalizeOMDbField(resp.Genre),
		Director:   normalizeOMDbField(resp.Director),
		Actors:     normalizeOMDbField(resp.Actors),
		Plot:       normalizeOMDbField(resp.Plot),
		IMDbRating: normalizeOMDbField(resp.IMDbRating),
	}, nil
}

// get はOMDb APIへのGETリクエストを実行し、レスポンスJSONをoutにデコードする。
func (c *OMDbClient) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create OMDb request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("OMDb request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read OMDb response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OMDb returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse OMDb response: %w", err)
	}

	return nil
}

// normalizeOMDbField はOMDbが欠損値として返す "N/A" を空文字列に正規化する。
func normalizeOMDbField(v string) string {
	if v == "N/A" {
		return ""
	}
	return v
}
