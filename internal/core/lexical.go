package core

import (
	"regexp"
	"strings"
	"unicode"
)

// LexicalFeatures holds the text-derived heuristic signals for one input.
// The four category scores are raw hit counts, deliberately not normalized
// by text length.
type LexicalFeatures struct {
	UrgencyScore         int
	FinancialScore       int
	ThreatScore          int
	ActionScore          int
	ExcessivePunctuation int
	CapsWordsCount       int
	TextLength           int
	WordCount            int
}

// Cue lists per category. Matching is case-insensitive substring
// containment, so a single word may count toward several categories.
var (
	urgencyCues = []string{
		"urgent", "immediate", "expires", "limited time", "act now", "hurry",
		"final notice", "last chance", "expires today", "deadline",
	}
	financialCues = []string{
		"money", "prize", "reward", "cash", "free", "win", "winner", "lottery",
		"million", "thousand", "dollars", "$", "payment", "refund",
	}
	threatCues = []string{
		"suspend", "block", "close", "terminated", "legal action", "arrest",
		"fine", "penalty", "lawsuit", "court", "police", "investigation",
	}
	actionCues = []string{
		"click", "verify", "confirm", "update", "download", "install",
		"provide", "send", "submit", "enter", "login", "sign in",
	}
)

// punctuationRuns matches runs of two or more ! or ? characters.
var punctuationRuns = regexp.MustCompile(`[!?]{2,}`)

// ExtractLexicalFeatures scans the raw text for phishing cue words,
// formatting anomalies and size metrics. Caps counting runs against the
// original-case text; lowercasing first would erase the signal.
func ExtractLexicalFeatures(rawText string) LexicalFeatures {
	lower := strings.ToLower(rawText)
	words := strings.Fields(rawText)

	return LexicalFeatures{
		UrgencyScore:         countCues(lower, urgencyCues),
		FinancialScore:       countCues(lower, financialCues),
		ThreatScore:          countCues(lower, threatCues),
		ActionScore:          countCues(lower, actionCues),
		ExcessivePunctuation: len(punctuationRuns.FindAllString(rawText, -1)),
		CapsWordsCount:       countCapsWords(words),
		TextLength:           len(rawText),
		WordCount:            len(words),
	}
}

// countCues counts how many cues from the list appear in the lowered text.
// Each cue contributes at most once regardless of repetition.
func countCues(lowerText string, cues []string) int {
	n := 0
	for _, cue := range cues {
		if strings.Contains(lowerText, cue) {
			n++
		}
	}
	return n
}

// countCapsWords counts whitespace-delimited tokens longer than two
// characters whose cased letters are all uppercase.
func countCapsWords(words []string) int {
	n := 0
	for _, w := range words {
		if len(w) > 2 && isUpperWord(w) {
			n++
		}
	}
	return n
}

// isUpperWord mirrors the usual "is upper" string semantics: at least one
// cased character, and no lowercase ones.
func isUpperWord(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}
