package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello   World", "heloworld"},
		{"ÄDS!!!", "ads"},
		{"Grüße, Straße", "grusestrase"},
		{"  ", ""},
		{"a..b--c", "abc"},
		{"AAAaaa", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestSuspiciousName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"John#1234", true},   // hash-number token
		{"Ads Account", true}, // "ads" substring
		{"ÄDS!!!", true},      // umlaut fold still hits "ads"
		{"user2", true},       // bare digit
		{"Maria Schmidt", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuspiciousName(tt.name), "SuspiciousName(%q)", tt.name)
	}
}

func TestContentFilterBadWords(t *testing.T) {
	f := NewContentFilter([]string{"casino", "free money"})

	assert.True(t, f.MatchBadWord("Best CASINO in town"))
	assert.True(t, f.MatchBadWord("f r e e   m o n e y"), "normalization strips separators")
	assert.True(t, f.MatchBadWord("caaasiiinooo"), "repeat collapse")
	assert.False(t, f.MatchBadWord("perfectly fine message"))
	assert.False(t, f.MatchBadWord(""))
}

func TestContentFilterLinks(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"join https://example.com/spam", true},
		{"join t.me/spamgroup now", true},
		{"telegram.me/other", true},
		{"www.scam.biz", true},
		{"visit shady.xyz today", true},
		{"no links here", false},
		{"", false},
	}
	f := DefaultContentFilter()
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.MatchLink(tt.text), "MatchLink(%q)", tt.text)
	}
}
