package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DedupKey is the cross-source identity of a book: lower-cased title and
// author with whitespace collapsed. Two records with equal keys are treated
// as the same book even when their ids differ.
func DedupKey(b Book) string {
	return foldText(b.Title) + "\x1f" + foldText(b.Author)
}

func foldText(s string) string {
	s = norm.NFC.String(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SecureURL returns raw rewritten to https, or nil when raw is empty or not
// an absolute http(s) URL.
func SecureURL(raw string) *string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil
	case strings.HasPrefix(raw, "https://"):
	case strings.HasPrefix(raw, "http://"):
		raw = "https://" + strings.TrimPrefix(raw, "http://")
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	default:
		return nil
	}
	return &raw
}

// Deslugify turns an id fragment like "the-left-hand-of-darkness" into a
// readable title ("The left hand of darkness"). Only the last path segment
// of the fragment is used.
func Deslugify(fragment string) string {
	if i := strings.LastIndex(fragment, "/"); i >= 0 {
		fragment = fragment[i+1:]
	}
	fragment = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, fragment)
	fragment = strings.Join(strings.Fields(fragment), " ")
	if fragment == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(fragment)
	return string(unicode.ToUpper(first)) + fragment[size:]
}

// Slugify is the inverse used for keyless records: whitespace runs become
// single hyphens.
func Slugify(title string) string {
	return strings.Join(strings.Fields(title), "-")
}

// FirstNonEmpty returns the first value that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
