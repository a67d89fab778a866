package util

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugify turns free text into a URL-safe identifier made of [a-z0-9-].
// Runs of whitespace, '_', '/' and '\' become a single '-', every other
// character is dropped. Input that leaves nothing behind gets a random
// 8 character hex slug instead.
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	prevDash := false
	for _, r := range text {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
			prevDash = false
		case unicode.IsSpace(r) || r == '_' || r == '/' || r == '\\':
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		token, err := RandomHex(4)
		if err != nil {
			panic(err)
		}
		return token
	}
	return slug
}

// NextSlug returns the n-th candidate when probing for a free slug:
// base, base-1, base-2, ...
func NextSlug(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
