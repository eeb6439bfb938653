package moderation

import (
	"regexp"
	"strings"
	"unicode"
)

// hashNumberPattern matches "#<digits>" tokens in display names
var hashNumberPattern = regexp.MustCompile(`#\d+`)

// linkPattern catches explicit URLs, bare domains on common TLDs and
// Telegram invite forms.
var linkPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+|t\.me/\S+|telegram\.me/\S+|\b[a-z0-9-]+\.(com|net|org|io|me|info|xyz|ru|de|to|gg)\b)`)

var umlautReplacer = strings.NewReplacer(
	"ä", "a", "ö", "o", "ü", "u", "ß", "ss",
)

// Normalize reduces text to a canonical form for substring matching:
// lower-case, umlauts/ß folded to ASCII, everything except letters and
// digits stripped, runs of the same character collapsed to one.
// "Hello   World" becomes "heloworld".
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = umlautReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	var last rune = -1
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if r == last {
			continue
		}
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

// SuspiciousName classifies a member display name. A name is suspicious
// if it carries a "#<digits>" token, any digit, or the substring "ads"
// after normalization.
func SuspiciousName(name string) bool {
	if hashNumberPattern.MatchString(name) {
		return true
	}
	for _, r := range name {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return strings.Contains(Normalize(name), "ads")
}

// ContentFilter holds the static content-based auto-mute configuration:
// a bad-word list matched against normalized text and a link pattern
// matched against the raw text.
type ContentFilter struct {
	badWords []string
	links    *regexp.Regexp
}

// NewContentFilter builds a filter over the given word list. Words are
// normalized once so matching stays consistent with message text.
func NewContentFilter(words []string) *ContentFilter {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		if n := Normalize(w); n != "" {
			normalized = append(normalized, n)
		}
	}
	return &ContentFilter{badWords: normalized, links: linkPattern}
}

// DefaultContentFilter returns the stock spam filter
func DefaultContentFilter() *ContentFilter {
	return NewContentFilter([]string{
		"airdrop",
		"casino",
		"crypto pump",
		"free money",
		"onlyfans",
		"porn",
	})
}

// MatchBadWord reports whether the normalized text contains a
// configured bad word.
func (f *ContentFilter) MatchBadWord(text string) bool {
	n := Normalize(text)
	if n == "" {
		return false
	}
	for _, w := range f.badWords {
		if strings.Contains(n, w) {
			return true
		}
	}
	return false
}

// MatchLink reports whether the raw text contains a URL-shaped token
func (f *ContentFilter) MatchLink(text string) bool {
	return text != "" && f.links.MatchString(text)
}
