package core

import (
	"net/url"
	"regexp"
	"strings"
)

// URLFeatures holds the URL-derived heuristic signals for one input.
// SuspiciousDomains keeps insertion order and records one entry per
// matching URL occurrence; duplicates are not collapsed.
type URLFeatures struct {
	URLCount          int
	HasSuspiciousURL  bool
	SuspiciousDomains []string
}

// rawURLPattern scans unmodified input, so it must match any casing.
var rawURLPattern = regexp.MustCompile(`(?i)http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// hostPattern is one suspicious-host check. The checks run in fixed order
// and the first hit short-circuits the rest for that URL.
type hostPattern struct {
	name    string
	pattern *regexp.Regexp
	// rawCase matches against the original-case host. The typosquat check
	// needs it: the capital-I-for-l substitution is invisible once the
	// host is lowercased.
	rawCase bool
}

var suspiciousHostPatterns = []hostPattern{
	// Dotted-quad IPv4 literal instead of a domain
	{name: "ip_literal", pattern: regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)},
	// Free TLDs heavily abused by phishing campaigns
	{name: "risky_tld", pattern: regexp.MustCompile(`\.(tk|ml|ga|cf)$`)},
	// URL shorteners hide the real destination
	{name: "shortener", pattern: regexp.MustCompile(`(bit\.ly|tinyurl|t\.co|goo\.gl|ow\.ly)`)},
	// Security-themed keyword in front of a common TLD
	{name: "security_keyword", pattern: regexp.MustCompile(`(secure|verify|update|confirm|account).*\.(com|net|org)`)},
	// Character-substitution typosquats of major brands (capital I for l)
	{name: "brand_typosquat", pattern: regexp.MustCompile(`(paypaI|arnazon|googIe|microsooft|appIe)`), rawCase: true},
}

// ExtractURLFeatures scans the raw (non-normalized) text for URL-like
// substrings and flags structurally suspicious hosts. It must run on the
// unmodified input: normalization destroys exactly the signal it needs.
// A URL that fails to parse is skipped, never an error.
func ExtractURLFeatures(rawText string) URLFeatures {
	urls := rawURLPattern.FindAllString(rawText, -1)

	features := URLFeatures{
		URLCount:          len(urls),
		SuspiciousDomains: []string{},
	}

	for _, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" {
			continue
		}
		host := parsed.Host
		domain := strings.ToLower(host)

		for _, check := range suspiciousHostPatterns {
			subject := domain
			if check.rawCase {
				subject = host
			}
			if check.pattern.MatchString(subject) {
				features.HasSuspiciousURL = true
				features.SuspiciousDomains = append(features.SuspiciousDomains, domain)
				break
			}
		}
	}

	return features
}
