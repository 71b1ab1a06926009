// Package chatbot implements the knowledge-base retrieval subsystem: a
// nearest-neighbor matcher over a Q/A corpus, used to answer common
// security questions without touching the network.
package chatbot

import (
	"context"
	"sort"

	"github.com/cyberguard/phishing-engine/internal/ml"
	"go.uber.org/zap"
)

// Entry is one question/answer pair in the knowledge base. The short JSON
// keys match the kb.json corpus format.
type Entry struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// KnowledgeStore supplies the knowledge-base corpus.
type KnowledgeStore interface {
	// List returns every entry in the knowledge base.
	List(ctx context.Context) ([]Entry, error)

	// Seed inserts entries into an empty store. Non-empty stores ignore it.
	Seed(ctx context.Context, entries []Entry) error

	// Close releases the store's resources.
	Close() error
}

// Answer is one ranked retrieval hit.
type Answer struct {
	Question string  `json:"q"`
	Answer   string  `json:"a"`
	Score    float64 `json:"score"`
}

// Retriever ranks knowledge-base entries against a user question by TF-IDF
// cosine similarity. The vectorizer and question vectors are built once at
// construction; Ask is read-only and safe for concurrent use.
type Retriever struct {
	entries    []Entry
	vectorizer *ml.Vectorizer
	vectors    []map[int]float64
	logger     *zap.Logger
}

// NewRetriever loads the knowledge base and precomputes its question
// vectors. An empty knowledge base is not an error; Ask just returns no
// results.
func NewRetriever(ctx context.Context, store KnowledgeStore, logger *zap.Logger) (*Retriever, error) {
	entries, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	r := &Retriever{entries: entries, logger: logger}
	if len(entries) == 0 {
		logger.Warn("Knowledge base is empty, chatbot retrieval disabled")
		return r, nil
	}

	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}
	r.vectorizer = ml.FitVectorizer(questions, 1, 2, 10000)
	r.vectors = make([]map[int]float64, len(questions))
	for i, q := range questions {
		r.vectors[i] = r.vectorizer.Transform(q)
	}

	logger.Info("Knowledge base loaded", zap.Int("entries", len(entries)))
	return r, nil
}

// Ask returns the topK best-matching entries for the question, highest
// similarity first.
func (r *Retriever) Ask(question string, topK int) []Answer {
	if len(r.entries) == 0 || topK <= 0 {
		return []Answer{}
	}

	qVec := r.vectorizer.Transform(question)

	ranked := make([]Answer, len(r.entries))
	for i, e := range r.entries {
		ranked[i] = Answer{
			Question: e.Question,
			Answer:   e.Answer,
			Score:    ml.Dot(qVec, r.vectors[i]),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	return ranked[:topK]
}
