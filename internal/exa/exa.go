// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package exa queries the Exa web-search API and returns normalized
// source records for the research pipeline.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/prospect-engine/internal/httputil"
	"github.com/pdiddy/prospect-engine/pkg/types"
)

// apiBase is the Exa API root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.exa.ai"

const (
	defaultSnippetChars = 1000
	personCategory      = "linkedin profile"
	companyCategory     = "company"
)

// Client is a thin, concurrency-safe handle on the Exa API. It is
// stateless per call and safe to share across concurrent agents.
type Client struct {
	cfg    types.SearchConfig
	client *http.Client
}

// NewClient builds an Exa client from config. The underlying
// *http.Client carries the configured timeout.
func NewClient(cfg types.SearchConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Search runs an auto-mode web search and returns up to numResults
// sources with text snippets.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]types.SourceRecord, error) {
	req := searchRequest{
		Query:      query,
		Type:       "auto",
		NumResults: numResults,
		Contents:   c.contents(),
	}
	return c.post(ctx, "/search", req)
}

// FindSimilar returns companies similar to the page at url, excluding
// the source domain itself.
func (c *Client) FindSimilar(ctx context.Context, pageURL string, numResults int) ([]types.SourceRecord, error) {
	req := findSimilarRequest{
		URL:                 pageURL,
		NumResults:          numResults,
		Category:            companyCategory,
		ExcludeSourceDomain: true,
		Contents:            c.contents(),
	}
	return c.post(ctx, "/findSimilar", req)
}

// SearchPerson looks up a person in the LinkedIn-profile category. When
// a profile URL is known it is used as the query directly; otherwise
// the name is expanded into a profile search.
func (c *Client) SearchPerson(ctx context.Context, name, linkedinURL string) ([]types.SourceRecord, error) {
	query := linkedinURL
	if query == "" {
		query = fmt.Sprintf("%s LinkedIn profile", name)
	}
	req := searchRequest{
		Query:      query,
		Type:       "auto",
		NumResults: 5,
		Category:   personCategory,
		Contents:   c.contents(),
	}
	return c.post(ctx, "/search", req)
}

func (c *Client) contents() *contentsSpec {
	maxChars := c.cfg.MaxSnippetChars
	if maxChars <= 0 {
		maxChars = defaultSnippetChars
	}
	return &contentsSpec{Text: textSpec{MaxCharacters: maxChars}}
}

func (c *Client) post(ctx context.Context, path string, body any) ([]types.SourceRecord, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Exa API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Exa API returned HTTP %d: %s", resp.StatusCode, string(msg))
	}

	var er exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Exa response: %w", err)
	}

	records := make([]types.SourceRecord, 0, len(er.Results))
	for _, item := range er.Results {
		records = append(records, types.SourceRecord{
			Title:          item.Title,
			URL:            item.URL,
			Content:        item.Text,
			RelevanceScore: item.Score,
		})
	}
	return records, nil
}

// Exa API JSON structures.

type searchRequest struct {
	Query      string        `json:"query"`
	Type       string        `json:"type"`
	NumResults int           `json:"numResults"`
	Category   string        `json:"category,omitempty"`
	Contents   *contentsSpec `json:"contents,omitempty"`
}

type findSimilarRequest struct {
	URL                 string        `json:"url"`
	NumResults          int           `json:"numResults"`
	Category            string        `json:"category,omitempty"`
	ExcludeSourceDomain bool          `json:"excludeSourceDomain"`
	Contents            *contentsSpec `json:"contents,omitempty"`
}

type contentsSpec struct {
	Text textSpec `json:"text"`
}

type textSpec struct {
	MaxCharacters int `json:"maxCharacters"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Text  string   `json:"text"`
	Score *float64 `json:"score"`
}
