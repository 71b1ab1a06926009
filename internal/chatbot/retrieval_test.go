package chatbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	entries []Entry
}

func (s *fakeStore) List(_ context.Context) ([]Entry, error) { return s.entries, nil }
func (s *fakeStore) Seed(_ context.Context, entries []Entry) error {
	if len(s.entries) == 0 {
		s.entries = entries
	}
	return nil
}
func (s *fakeStore) Close() error { return nil }

var kb = []Entry{
	{Question: "what is phishing", Answer: "Phishing is a social engineering attack that steals credentials."},
	{Question: "how do I report a phishing email", Answer: "Forward it to your security team and delete it."},
	{Question: "what is two factor authentication", Answer: "A second verification step beyond the password."},
}

func TestRetrieverRanksBySimilarity(t *testing.T) {
	r, err := NewRetriever(context.Background(), &fakeStore{entries: kb}, zap.NewNop())
	require.NoError(t, err)

	answers := r.Ask("how to report phishing email", 3)
	require.Len(t, answers, 3)

	assert.Equal(t, "how do I report a phishing email", answers[0].Question)
	assert.Greater(t, answers[0].Score, answers[1].Score)
	assert.GreaterOrEqual(t, answers[1].Score, answers[2].Score)
}

func TestRetrieverTopKBounds(t *testing.T) {
	r, err := NewRetriever(context.Background(), &fakeStore{entries: kb}, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, r.Ask("phishing", 1), 1)
	assert.Len(t, r.Ask("phishing", 10), len(kb))
	assert.Empty(t, r.Ask("phishing", 0))
	assert.Empty(t, r.Ask("phishing", -1))
}

func TestRetrieverEmptyKnowledgeBase(t *testing.T) {
	r, err := NewRetriever(context.Background(), &fakeStore{}, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, r.Ask("anything at all", 3))
}

func TestRetrieverUnrelatedQuestionScoresZero(t *testing.T) {
	r, err := NewRetriever(context.Background(), &fakeStore{entries: kb}, zap.NewNop())
	require.NoError(t, err)

	answers := r.Ask("zzqq xxyy", 1)
	require.Len(t, answers, 1)
	assert.Zero(t, answers[0].Score)
}
