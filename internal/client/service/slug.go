package service

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

const (
	slugMaxLen   = 40
	slugFallback = "client"
)

// slugify normalizes a company name into a lowercase ASCII token of letters,
// digits and single hyphens, capped at slugMaxLen.
func slugify(name string) string {
	s := slug.Make(name)
	s = capSlug(s, slugMaxLen)
	if s == "" {
		return slugFallback
	}
	return s
}

// suffixSlug appends "-<n>", shortening the base so the result stays within
// the length cap.
func suffixSlug(base string, n int) string {
	suffix := fmt.Sprintf("-%d", n)
	return capSlug(base, slugMaxLen-len(suffix)) + suffix
}

func capSlug(s string, max int) string {
	if len(s) > max {
		s = s[:max]
	}
	return strings.Trim(s, "-")
}
