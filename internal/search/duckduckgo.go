package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultDuckDuckGoURL = "https://api.duckduckgo.com/"

// NoDuckDuckGoResults is returned as the search text when nothing matched.
const NoDuckDuckGoResults = "No good DuckDuckGo Search Result was found"

// DuckDuckGo queries the DuckDuckGo Instant Answer API. It needs no key.
type DuckDuckGo struct {
	baseURL    string
	maxResults int
	client     *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo searcher.
func NewDuckDuckGo(cfg Config) *DuckDuckGo {
	base := cfg.BaseURL
	if base == "" {
		base = defaultDuckDuckGoURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &DuckDuckGo{
		baseURL:    base,
		maxResults: maxResults,
		client:     newHTTPClient(cfg.Timeout),
	}
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	Definition    string     `json:"Definition"`
	DefinitionURL string     `json:"DefinitionURL"`
	Results       []ddgTopic `json:"Results"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	u, err := url.Parse(d.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse search URL: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")
	u.RawQuery = params.Encode()

	resp, err := doGet(ctx, d.client, u.String())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode DuckDuckGo response: %w", err)
	}

	results := d.collect(body)
	if len(results) == 0 {
		return NoDuckDuckGoResults, nil
	}
	return formatResults(results), nil
}

func (d *DuckDuckGo) collect(body ddgResponse) []Result {
	var results []Result
	seen := make(map[string]bool)
	add := func(r Result) {
		if r.Snippet == "" || len(results) >= d.maxResults {
			return
		}
		if r.Link != "" {
			if seen[r.Link] {
				return
			}
			seen[r.Link] = true
		}
		results = append(results, r)
	}

	add(Result{Title: body.Heading, Snippet: body.AbstractText, Link: body.AbstractURL})
	add(Result{Title: body.Heading, Snippet: body.Definition, Link: body.DefinitionURL})
	for _, t := range flattenTopics(append(body.Results, body.RelatedTopics...)) {
		add(Result{Snippet: t.Text, Link: t.FirstURL})
	}
	return results
}

// flattenTopics expands grouped related topics in order.
func flattenTopics(topics []ddgTopic) []ddgTopic {
	var out []ddgTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			out = append(out, flattenTopics(t.Topics)...)
			continue
		}
		t.Text = strings.TrimSpace(t.Text)
		out = append(out, t)
	}
	return out
}
