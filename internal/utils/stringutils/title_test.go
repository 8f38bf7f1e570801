package stringutils

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short message kept unchanged",
			content: strings.Repeat("a", 30),
			want:    strings.Repeat("a", 30),
		},
		{
			name:    "exactly fifty characters kept unchanged",
			content: strings.Repeat("b", 50),
			want:    strings.Repeat("b", 50),
		},
		{
			name:    "long message truncated with marker",
			content: strings.Repeat("c", 80),
			want:    strings.Repeat("c", 50) + "...",
		},
		{
			name:    "multibyte content counted by characters",
			content: strings.Repeat("日", 51),
			want:    strings.Repeat("日", 50) + "...",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.content); got != tt.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
