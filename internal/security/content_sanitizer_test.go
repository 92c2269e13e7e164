package security

import (
	"strings"
	"testing"
)

// TestSanitize_AllowedTags は許可タグが正しく通過することを検証する。
func TestSanitize_AllowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		// want に含まれるべき部分文字列
		wantContains []string
	}{
		{
			name:         "pタグが許可される",
			input:        "<p>Desenvolva APIs em equipe</p>",
			wantContains: []string{"<p>Desenvolva APIs em equipe</p>"},
		},
		{
			name:         "brタグが許可される",
			input:        "Requisitos:<br>Git",
			wantContains: []string{"<br>", "Requisitos:", "Git"},
		},
		{
			name:         "aタグが許可される",
			input:        `<a href="https://example.com/vagas">応募ページ</a>`,
			wantContains: []string{"<a", "href", "https://example.com/vagas", "応募ページ", "</a>"},
		},
		{
			name:         "ulタグとliタグが許可される",
			input:        "<ul><li>Python</li><li>SQL</li></ul>",
			wantContains: []string{"<ul>", "<li>", "Python", "SQL", "</li>", "</ul>"},
		},
		{
			name:         "blockquoteタグが許可される",
			input:        "<blockquote>先輩社員の声</blockquote>",
			wantContains: []string{"<blockquote>先輩社員の声</blockquote>"},
		},
		{
			name:         "strongタグとemタグが許可される",
			input:        "<strong>必須</strong>と<em>歓迎</em>",
			wantContains: []string{"<strong>必須</strong>", "<em>歓迎</em>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, expected to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_DisallowedTags は危険なタグと属性が除去されることを検証する。
func TestSanitize_DisallowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		// got に含まれてはならない部分文字列
		wantNotContains []string
	}{
		{
			name:            "scriptタグが除去される",
			input:           `<p>説明</p><script>alert("xss")</script>`,
			wantNotContains: []string{"<script", "alert"},
		},
		{
			name:            "iframeタグが除去される",
			input:           `<iframe src="https://evil.example.com"></iframe>`,
			wantNotContains: []string{"<iframe", "evil.example.com"},
		},
		{
			name:            "styleタグが除去される",
			input:           `<style>body { display: none }</style><p>本文</p>`,
			wantNotContains: []string{"<style", "display"},
		},
		{
			name:            "onclickイベント属性が除去される",
			input:           `<p onclick="steal()">クリック</p>`,
			wantNotContains: []string{"onclick", "steal"},
		},
		{
			name:            "javascriptスキームのリンクが除去される",
			input:           `<a href="javascript:alert(1)">リンク</a>`,
			wantNotContains: []string{"javascript:"},
		},
		{
			name:            "httpスキームのリンクが除去される",
			input:           `<a href="http://example.com/vagas">リンク</a>`,
			wantNotContains: []string{"http://example.com"},
		},
		{
			name:            "imgタグが除去される",
			input:           `<img src="https://example.com/track.png">`,
			wantNotContains: []string{"<img"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, notWant := range tt.wantNotContains {
				if strings.Contains(got, notWant) {
					t.Errorf("Sanitize(%q) = %q, must not contain %q", tt.input, got, notWant)
				}
			}
		})
	}
}

// TestSanitize_LinkAttributes はリンクに安全属性が付与されることを検証する。
func TestSanitize_LinkAttributes(t *testing.T) {
	sanitizer := NewContentSanitizer()

	got := sanitizer.Sanitize(`<a href="https://example.com/vagas">応募する</a>`)

	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("Sanitize() = %q, expected target=\"_blank\"", got)
	}
	if !strings.Contains(got, "noopener") || !strings.Contains(got, "noreferrer") {
		t.Errorf("Sanitize() = %q, expected rel with noopener and noreferrer", got)
	}
}

// TestSanitize_EmptyInput は空文字列入力が空文字列を返すことを検証する。
func TestSanitize_EmptyInput(t *testing.T) {
	sanitizer := NewContentSanitizer()

	if got := sanitizer.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want \"\"", got)
	}
}

// TestSanitize_Idempotent は同一入力に対する冪等性を検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	input := `<p>説明<script>x()</script></p><a href="https://example.com">リンク</a>`
	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)

	if first != second {
		t.Errorf("Sanitize is not idempotent: first=%q second=%q", first, second)
	}
}

var _ ContentSanitizerService = (*contentSanitizer)(nil)
