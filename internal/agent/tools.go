package agent

import (
	"context"

	"github.com/abhisek/quizgen/internal/search"
)

// SearchToolName is the tool name the validation prompt refers to.
const SearchToolName = "Search"

// SearchTool exposes a web searcher to the agent.
func SearchTool(s search.Searcher) Tool {
	return Tool{
		Name:        SearchToolName,
		Description: "Useful for searching the web for information. Use targeted queries with academic terms.",
		Run: func(ctx context.Context, query string) (string, error) {
			return s.Search(ctx, query)
		},
	}
}
