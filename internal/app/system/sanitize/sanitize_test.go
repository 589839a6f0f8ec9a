package sanitize_test

import (
	"testing"

	"github.com/campuschat/campuschat/internal/app/system/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "hello civil branch", "hello civil branch"},
		{"script removed", "hi<script>alert('x')</script>", "hi"},
		{"tags stripped", "<b>bold</b> claim", "bold claim"},
		{"whitespace trimmed", "  spaced out  ", "spaced out"},
		{"img removed", `<img src=x onerror=alert(1)>ok`, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize.Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
