package websearch

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// combinedSnippetLimit caps the text handed to the summarizer.
const combinedSnippetLimit = 4000

// snippetFetchParallelism bounds concurrent result-page fetches.
const snippetFetchParallelism = 4

// Source cites where a piece of the summary came from.
type Source struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// WebAnswer is the web-enabled chatbot response.
type WebAnswer struct {
	Summary string   `json:"summary"`
	Sources []Source `json:"sources"`
}

// Service ties the search client and a summarizer into the web-enabled
// chat flow: search, gather snippets, summarize, cite sources.
type Service struct {
	client     *Client
	summarizer Summarizer
	maxResults int
	logger     *zap.Logger
}

// NewService creates the web search service.
func NewService(client *Client, summarizer Summarizer, maxResults int, logger *zap.Logger) *Service {
	if maxResults <= 0 {
		maxResults = 4
	}
	if summarizer == nil {
		summarizer = NaiveSummarizer{}
	}
	return &Service{
		client:     client,
		summarizer: summarizer,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Answer searches the web for the question and returns a summary with
// sources. Results missing an inline snippet get their page fetched, with
// bounded parallelism; individual fetch failures only thin the summary.
func (s *Service) Answer(ctx context.Context, question string) (*WebAnswer, error) {
	results, err := s.client.Search(ctx, question, s.maxResults)
	if err != nil {
		return nil, err
	}

	snippets := make([]string, len(results))
	sources := make([]Source, len(results))

	g := new(errgroup.Group)
	g.SetLimit(snippetFetchParallelism)
	for i, r := range results {
		sources[i] = Source{Title: r.Title, Link: r.Link}
		if r.Snippet != "" {
			snippets[i] = r.Snippet
			continue
		}
		g.Go(func() error {
			snippets[i] = s.client.FetchSnippet(ctx, r.Link)
			return nil
		})
	}
	_ = g.Wait()

	var nonEmpty []string
	for _, snip := range snippets {
		if snip != "" {
			nonEmpty = append(nonEmpty, snip)
		}
	}
	combined := strings.Join(nonEmpty, "\n\n")
	if len(combined) > combinedSnippetLimit {
		combined = combined[:combinedSnippetLimit]
	}

	summary, err := s.summarizer.Summarize(ctx, combined)
	if err != nil {
		s.logger.Warn("Summarizer failed, falling back to naive summary", zap.Error(err))
		summary, _ = NaiveSummarizer{}.Summarize(ctx, combined)
	}

	return &WebAnswer{Summary: summary, Sources: sources}, nil
}
