// Package websearch implements the web-enabled chatbot: search the web for
// a question, pull snippets from the results, and summarize them with
// cited sources.
package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	defaultEndpoint = "https://html.duckduckgo.com/html/"
	userAgent       = "Mozilla/5.0 (compatible; CyberGuard/1.0)"

	// snippetLimit caps the text pulled from any single result page.
	snippetLimit = 1000
)

// SearchResult is one hit from the search provider.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// Client queries the DuckDuckGo HTML endpoint and scrapes result pages for
// snippets. All requests are bounded by the configured timeout.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

// NewClient creates a search client. An empty endpoint selects the default
// DuckDuckGo HTML endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		logger:     logger,
	}
}

// Search runs the query and returns up to maxResults hits.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	reqURL := c.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	results := parseResults(doc)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// FetchSnippet pulls the first few paragraphs from a result page. Fetch
// failures degrade to an empty snippet, never an error: a missing snippet
// just weakens the summary.
func (c *Client) FetchSnippet(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Snippet fetch failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	doc, err := html.Parse(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return ""
	}

	var paragraphs []string
	walk(doc, func(n *html.Node) {
		if len(paragraphs) < 4 && n.Type == html.ElementNode && n.Data == "p" {
			if text := strings.TrimSpace(textContent(n)); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
	})

	snippet := strings.Join(paragraphs, " ")
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit]
	}
	return snippet
}

// parseResults extracts title/link/snippet triples from the DuckDuckGo
// HTML result markup.
func parseResults(doc *html.Node) []SearchResult {
	var results []SearchResult
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || !hasClass(n, "result__body") {
			return
		}
		var r SearchResult
		walk(n, func(child *html.Node) {
			if child.Type != html.ElementNode {
				return
			}
			switch {
			case child.Data == "a" && hasClass(child, "result__a") && r.Link == "":
				r.Title = strings.TrimSpace(textContent(child))
				r.Link = attr(child, "href")
			case hasClass(child, "result__snippet") && r.Snippet == "":
				r.Snippet = strings.TrimSpace(textContent(child))
			}
		})
		if r.Link != "" {
			results = append(results, r)
		}
	})
	return results
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(child *html.Node) {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	})
	return sb.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
