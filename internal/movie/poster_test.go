package movie

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kenta/moviemeter/internal/model"
)

// fakeSSRFValidator はURL検証結果を固定で返すバリデーター。
type fakeSSRFValidator struct {
	validateErr error
}

func (f *fakeSSRFValidator) ValidateURL(rawURL string) error {
	return f.validateErr
}

func (f *fakeSSRFValidator) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

var _ SSRFValidator = (*fakeSSRFValidator)(nil)

func TestFetchPoster_EmptyURL_ReturnsNotFoundError(t *testing.T) {
	fetcher := NewPosterFetcher(&fakeSSRFValidator{})

	_, _, err := fetcher.FetchPoster(context.Background(), "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodePosterNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodePosterNotFound)
	}
}

func TestFetchPoster_BlockedURL_ReturnsNotFoundError(t *testing.T) {
	// SSRF検証で弾かれたURLはポスター未検出として扱い、理由を漏らさない
	fetcher := NewPosterFetcher(&fakeSSRFValidator{validateErr: errors.New("private address")})

	_, _, err := fetcher.FetchPoster(context.Background(), "http://169.254.169.254/poster.jpg")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodePosterNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodePosterNotFound)
	}
}

func TestFetchPoster_Success_ReturnsDataAndMimeType(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10} // JPEGヘッダ
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewPosterFetcher(&fakeSSRFValidator{})

	data, mimeType, err := fetcher.FetchPoster(context.Background(), server.URL+"/poster.jpg")
	if err != nil {
		t.Fatalf("FetchPoster() error = %v", err)
	}

	if mimeType != "image/jpeg" {
		t.Errorf("mimeType = %q, want %q", mimeType, "image/jpeg")
	}
	if len(data) != len(payload) {
		t.Errorf("len(data) = %d, want %d", len(data), len(payload))
	}
}

func TestFetchPoster_UpstreamNotFound_ReturnsNotFoundError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewPosterFetcher(&fakeSSRFValidator{})

	_, _, err := fetcher.FetchPoster(context.Background(), server.URL+"/missing.jpg")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodePosterNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodePosterNotFound)
	}
}

func TestFetchPoster_MissingContentType_DetectsFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Content-Typeヘッダーを明示的に消す
		w.Header()["Content-Type"] = nil
		w.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) // PNGシグネチャ
	}))
	defer server.Close()

	fetcher := NewPosterFetcher(&fakeSSRFValidator{})

	_, mimeType, err := fetcher.FetchPoster(context.Background(), server.URL+"/poster.png")
	if err != nil {
		t.Fatalf("FetchPoster() error = %v", err)
	}

	if mimeType != "image/png" {
		t.Errorf("mimeType = %q, want %q", mimeType, "image/png")
	}
}
