package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURLFeatures(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		urlCount   int
		suspicious bool
		domains    []string
	}{
		{
			name:       "no urls",
			input:      "just a plain message",
			urlCount:   0,
			suspicious: false,
			domains:    []string{},
		},
		{
			name:       "benign url",
			input:      "see https://www.wikipedia.org/wiki/Phishing",
			urlCount:   1,
			suspicious: false,
			domains:    []string{},
		},
		{
			name:       "ip literal host",
			input:      "login at http://192.168.10.1/account",
			urlCount:   1,
			suspicious: true,
			domains:    []string{"192.168.10.1"},
		},
		{
			name:       "risky free tld",
			input:      "claim at http://free-prizes.tk",
			urlCount:   1,
			suspicious: true,
			domains:    []string{"free-prizes.tk"},
		},
		{
			name:       "url shortener",
			input:      "click https://bit.ly/3xYz",
			urlCount:   1,
			suspicious: true,
			domains:    []string{"bit.ly"},
		},
		{
			name:       "security keyword host",
			input:      "go to http://secure-update.com/reset",
			urlCount:   1,
			suspicious: true,
			domains:    []string{"secure-update.com"},
		},
		{
			name:       "brand typosquat with capital substitution",
			input:      "http://paypaI-billing.net",
			urlCount:   1,
			suspicious: true,
			domains:    []string{"paypai-billing.net"},
		},
		{
			name:       "typosquat check is case sensitive",
			input:      "http://paypai.biz",
			urlCount:   1,
			suspicious: false,
			domains:    []string{},
		},
		{
			name:       "uppercase scheme still counted",
			input:      "HTTPS://EXAMPLE.ORG/path",
			urlCount:   1,
			suspicious: false,
			domains:    []string{},
		},
		{
			name:       "every suspicious occurrence recorded",
			input:      "first https://bit.ly/a then https://bit.ly/b",
			urlCount:   2,
			suspicious: true,
			domains:    []string{"bit.ly", "bit.ly"},
		},
		{
			name:       "mixed benign and suspicious",
			input:      "https://www.wikipedia.org and http://10.0.0.1/a",
			urlCount:   2,
			suspicious: true,
			domains:    []string{"10.0.0.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLFeatures(tt.input)
			assert.Equal(t, tt.urlCount, got.URLCount)
			assert.Equal(t, tt.suspicious, got.HasSuspiciousURL)
			assert.Equal(t, tt.domains, got.SuspiciousDomains)
		})
	}
}

func TestExtractURLFeaturesReturnsEmptySliceNotNil(t *testing.T) {
	got := ExtractURLFeatures("nothing here")
	assert.NotNil(t, got.SuspiciousDomains)
}
