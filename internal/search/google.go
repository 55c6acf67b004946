package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const defaultGoogleURL = "https://www.googleapis.com/customsearch/v1"

// Google queries the Custom Search JSON API.
type Google struct {
	baseURL    string
	apiKey     string
	engineID   string
	maxResults int
	client     *http.Client
}

// NewGoogle creates a Google Custom Search searcher.
func NewGoogle(cfg Config) *Google {
	base := cfg.BaseURL
	if base == "" {
		base = defaultGoogleURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 || maxResults > 10 {
		maxResults = 5
	}
	return &Google{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		maxResults: maxResults,
		client:     newHTTPClient(cfg.Timeout),
	}
}

var spaces = regexp.MustCompile(`\s+`)

func (g *Google) Search(ctx context.Context, query string) (string, error) {
	query = spaces.ReplaceAllString(strings.TrimSpace(query), " ")

	searchURL, err := g.buildSearchURL(query)
	if err != nil {
		return "", err
	}

	resp, err := doGet(ctx, g.client, searchURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Items []struct {
			Link    string `json:"link"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Mime    string `json:"mime"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("decode Google response: %w", err)
	}

	seen := make(map[string]bool)
	var results []Result
	for _, item := range apiResponse.Items {
		// Skip non-HTML
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		results = append(results, Result{Title: item.Title, Snippet: item.Snippet, Link: item.Link})
		if len(results) == g.maxResults {
			break
		}
	}

	if len(results) == 0 {
		return "No good Google Search Result was found", nil
	}
	return formatResults(results), nil
}

func (g *Google) buildSearchURL(query string) (string, error) {
	baseURL, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse search URL: %w", err)
	}
	params := url.Values{}
	params.Add("key", g.apiKey)
	params.Add("cx", g.engineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", g.maxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String(), nil
}
