package movie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch_ReturnsMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("apikey") != "test-key" {
			t.Errorf("apikey = %q, want %q", query.Get("apikey"), "test-key")
		}
		if query.Get("s") != "inception" {
			t.Errorf("s = %q, want %q", query.Get("s"), "inception")
		}
		if query.Get("type") != "movie" {
			t.Errorf("type = %q, want %q", query.Get("type"), "movie")
		}
		if query.Get("page") != "2" {
			t.Errorf("page = %q, want %q", query.Get("page"), "2")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Search": [
				{"Title": "Inception", "Year": "2010", "imdbID": "tt1375666", "Type": "movie", "Poster": "https://example.com/p.jpg"},
				{"Title": "Inception 2", "Year": "2020", "imdbID": "tt0000001", "Type": "movie", "Poster": "N/A"}
			],
			"totalResults": "2",
			"Response": "True"
		}`))
	}))
	defer server.Close()

	client := NewOMDbClient(OMDbConfig{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.Search(context.Background(), "inception", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if result.TotalResults != 2 {
		t.Errorf("totalResults = %d, want 2", result.TotalResults)
	}
	if len(result.Movies) != 2 {
		t.Fatalf("len(movies) = %d, want 2", len(result.Movies))
	}
	if result.Movies[0].IMDbID != "tt1375666" {
		t.Errorf("imdbID = %q, want %q", result.Movies[0].IMDbID, "tt1375666")
	}
	// "N/A"は空文字列に正規化されること
	if result.Movies[1].Poster != "" {
		t.Errorf("poster = %q, want empty string for N/A", result.Movies[1].Poster)
	}
}

func TestSearch_NoHits_ReturnsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	}))
	defer server.Close()

	client := NewOMDbClient(OMDbConfig{APIKey: "test-key", BaseURL: server.URL})

	result, err := client.Search(context.Background(), "nonexistent", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// ヒットなしはエラーではなく空の結果
	if len(result.Movies) != 0 {
		t.Errorf("len(movies) = %d, want 0", len(result.Movies))
	}
	if result.TotalResults != 0 {
		t.Errorf("totalResults = %d, want 0", result.TotalResults)
	}
}

func TestSearch_ServerError_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewOMDbClient(OMDbConfig{APIKey: "test-key", BaseURL: server.URL})

	if _, err := client.Search(context.Background(), "inception", 1); err == nil {
		t.Fatal("expected error when OMDb returns 503")
	}
}

func TestGetByIMDbID_ReturnsDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("i") != "tt1375666" {
			t.Errorf("i = %q, want %q", query.Get("i"), "tt1375666")
		}
		if query.Get("plot") != "full" {
			t.Errorf("plot = %q, want %q", query.Get("plot"), "full")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Title": "Inception",
			"Year": "2010",
			"Genre": "Action, Sci-Fi",
			"Director": "Christopher Nolan",
			"Actors": "Leonardo DiCaprio",
			"Plot": "A thief who steals corporate secrets.",
			"Poster": "https://example.com/p.jpg",
			"imdbRating": "8.8",
			"imdbID": "tt1375666",
			"Response": "True"
		}`))
	}))
	defer server.Close()

	client := NewOMDbClient(OMDbConfig{APIKey: "test-key", BaseURL: server.URL})

	detail, err := client.GetByIMDbID(context.Background(), "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID() error = %v", err)
	}

	if detail == nil {
		t.Fatal("expected non-nil detail")
	}
	if detail.Title != "Inception" {
		t.Errorf("title = %q, want %q", detail.Title, "Inception")
	}
	if detail.IMDbRating != "8.8" {
		t.Errorf("imdbRating = %q, want %q", detail.IMDbRating, "8.8")
	}
}

func TestGetByIMDbID_NotFound_ReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Response": "False", "Error": "Incorrect IMDb ID."}`))
	}))
	defer server.Close()

	client := NewOMDbClient(OMDbConfig{APIKey: "test-key", BaseURL: server.URL})

	detail, err := client.GetByIMDbID(context.Background(), "tt0000000")
	if err != nil {
		t.Fatalf("GetByIMDbID() error = %v", err)
	}

	if detail != nil {
		t.Errorf("detail = %+v, want nil", detail)
	}
}

func TestNormalizeOMDbField(t *testing.T) {
	if got := normalizeOMDbField("N/A"); got != "" {
		t.Errorf("normalizeOMDbField(N/A) = %q, want empty", got)
	}
	if got := normalizeOMDbField("2010"); got != "2010" {
		t.Errorf("normalizeOMDbField(2010) = %q, want 2010", got)
	}
}
