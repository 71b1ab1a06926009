package core

import (
	"regexp"
	"strings"
)

// Patterns are compiled once at load and shared read-only by every
// prediction, so concurrent calls need no locking.
var (
	urlPattern      = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	emailPattern    = regexp.MustCompile(`\S+@\S+`)
	nonAlnumPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// minTokenLength is the shortest token kept after stopword filtering.
const minTokenLength = 3

// Normalize derives the classifier input form of text: lowercase, URLs and
// email addresses stripped, punctuation removed, whitespace collapsed,
// stopwords and short tokens dropped. It never fails; the result may
// legitimately be empty for pure-URL or pure-punctuation input.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = nonAlnumPattern.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")

	tokens := strings.Fields(text)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := englishStopwords[tok]; stop {
			continue
		}
		if len(tok) < minTokenLength {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
