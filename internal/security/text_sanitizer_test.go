package security

import "testing"

var _ TextSanitizerService = (*textSanitizer)(nil)

func TestSanitize_RemovesHTMLTags(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキスト", "great movie", "great movie"},
		{"scriptタグ", `before<script>alert("xss")</script>after`, "beforeafter"},
		{"imgタグのonerror", `<img src=x onerror=alert(1)>plot text`, "plot text"},
		{"aタグ", `watch <a href="https://evil.example">here</a>`, "watch here"},
		{"空文字列", "", ""},
		{"前後の空白除去", "  padded review  ", "padded review"},
		{"エンティティの復元", "Bonnie &amp; Clyde", "Bonnie & Clyde"},
		{"タグのみ", "<div><span></span></div>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	input := `<b>bold</b> &amp; <i>italic</i> review`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize not idempotent: first %q, second %q", once, twice)
	}
}
