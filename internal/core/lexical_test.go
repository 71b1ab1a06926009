package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLexicalFeatures(t *testing.T) {
	t.Run("each cue counts once regardless of repetition", func(t *testing.T) {
		got := ExtractLexicalFeatures("urgent urgent URGENT")
		assert.Equal(t, 1, got.UrgencyScore)
	})

	t.Run("cues accumulate across categories", func(t *testing.T) {
		got := ExtractLexicalFeatures("Please verify your claim: free prize money!!!")
		assert.Equal(t, 0, got.UrgencyScore)
		assert.Equal(t, 3, got.FinancialScore) // free, prize, money
		assert.Equal(t, 0, got.ThreatScore)
		assert.Equal(t, 1, got.ActionScore) // verify
		assert.Equal(t, 1, got.ExcessivePunctuation)
	})

	t.Run("dollar sign is a financial cue", func(t *testing.T) {
		got := ExtractLexicalFeatures("send $100 before the deadline")
		assert.GreaterOrEqual(t, got.FinancialScore, 1)
		assert.Equal(t, 1, got.ActionScore)  // send
		assert.Equal(t, 1, got.UrgencyScore) // deadline
	})

	t.Run("multi word cues match", func(t *testing.T) {
		got := ExtractLexicalFeatures("Sign in now, this is your last chance")
		assert.Equal(t, 1, got.ActionScore)  // sign in
		assert.Equal(t, 1, got.UrgencyScore) // last chance
	})

	t.Run("threat cues", func(t *testing.T) {
		got := ExtractLexicalFeatures("your account will be suspended and legal action follows")
		// suspend (substring of suspended) and legal action
		assert.Equal(t, 2, got.ThreatScore)
	})

	t.Run("punctuation runs", func(t *testing.T) {
		got := ExtractLexicalFeatures("What?! Really?? Fine!")
		assert.Equal(t, 2, got.ExcessivePunctuation)
	})

	t.Run("caps words need three cased uppercase characters", func(t *testing.T) {
		got := ExtractLexicalFeatures("THIS IS A SCAM ok 123 WIN100")
		// THIS, SCAM, WIN100 count; IS and A are too short; ok is lower;
		// 123 has no cased letters.
		assert.Equal(t, 3, got.CapsWordsCount)
	})

	t.Run("size metrics", func(t *testing.T) {
		input := "two words"
		got := ExtractLexicalFeatures(input)
		assert.Equal(t, len(input), got.TextLength)
		assert.Equal(t, 2, got.WordCount)
	})

	t.Run("empty input is all zero", func(t *testing.T) {
		assert.Equal(t, LexicalFeatures{}, ExtractLexicalFeatures(""))
	})
}
