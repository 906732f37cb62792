package service

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation stripped", "Acme! Salon", "acme-salon"},
		{"whitespace collapsed", "  Acme   Salon  ", "acme-salon"},
		{"already clean", "northwind", "northwind"},
		{"mixed case", "BlueBird Hiring Co", "bluebird-hiring-co"},
		{"symbols only", "!!!", "client"},
		{"empty", "", "client"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := slugify(tc.in); got != tc.want {
				t.Fatalf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("verylongcompanyname", 5)
	got := slugify(long)
	if len(got) > slugMaxLen {
		t.Fatalf("slug %q exceeds %d chars", got, slugMaxLen)
	}
	if strings.HasSuffix(got, "-") || strings.HasPrefix(got, "-") {
		t.Fatalf("slug %q has edge hyphen", got)
	}
}

func TestSuffixSlugStaysWithinCap(t *testing.T) {
	base := strings.Repeat("a", slugMaxLen)
	got := suffixSlug(base, 12)
	if len(got) > slugMaxLen {
		t.Fatalf("suffixed slug %q exceeds %d chars", got, slugMaxLen)
	}
	if !strings.HasSuffix(got, "-12") {
		t.Fatalf("suffixed slug %q missing suffix", got)
	}
}
