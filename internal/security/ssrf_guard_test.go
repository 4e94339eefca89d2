package security

import (
	"testing"
	"time"
)

var _ SSRFGuardService = (*ssrfGuard)(nil)

func TestValidateURL_AllowsPublicHTTPURLs(t *testing.T) {
	guard := NewSSRFGuard()

	valid := []string{
		"https://m.media-amazon.com/images/M/poster.jpg",
		"http://example.com/image.png",
		"https://8.8.8.8/poster.jpg",
	}
	for _, rawURL := range valid {
		if err := guard.ValidateURL(rawURL); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", rawURL, err)
		}
	}
}

func TestValidateURL_RejectsDangerousURLs(t *testing.T) {
	guard := NewSSRFGuard()

	tests := []struct {
		name   string
		rawURL string
	}{
		{"空URL", ""},
		{"ftpスキーム", "ftp://example.com/file"},
		{"fileスキーム", "file:///etc/passwd"},
		{"ホストなし", "https:///path"},
		{"ループバックIP", "http://127.0.0.1/poster.jpg"},
		{"プライベートIP 10系", "http://10.0.0.5/poster.jpg"},
		{"プライベートIP 172系", "http://172.16.0.1/poster.jpg"},
		{"プライベートIP 192系", "http://192.168.1.1/poster.jpg"},
		{"リンクローカル（メタデータIP）", "http://169.254.169.254/latest/meta-data/"},
		{"カレントネットワーク", "http://0.0.0.0/"},
		{"IPv6ループバック", "http://[::1]/poster.jpg"},
		{"IPv6リンクローカル", "http://[fe80::1]/poster.jpg"},
		{"localhost", "http://localhost/poster.jpg"},
		{"localhost大文字", "http://LOCALHOST/poster.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := guard.ValidateURL(tt.rawURL); err == nil {
				t.Errorf("ValidateURL(%q) = nil, want error", tt.rawURL)
			}
		})
	}
}

func TestNewSafeClient_ReturnsClientWithTimeout(t *testing.T) {
	guard := NewSSRFGuard()

	client := guard.NewSafeClient(5 * time.Second)
	if client == nil {
		t.Fatal("NewSafeClient returned nil")
	}
}
