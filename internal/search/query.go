package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search.
type Params struct {
	Query  string
	Limit  int
	Offset int
}

// Result is one page of hits, best first.
type Result struct {
	Query string `json:"query"`
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Hit is a matching book.
type Hit struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
}

// Search runs a full-text query over titles and authors. An empty query
// matches every document.
func (s *Index) Search(ctx context.Context, p Params) (*Result, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(p.Query), p.Limit, p.Offset, false)
	req.Fields = []string{"id", "title", "author"}
	req.SortBy([]string{"-_score", "_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{Query: p.Query, Total: res.Total, Hits: make([]Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["author"].(string); ok {
			hit.Author = v
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

func buildQuery(q string) query.Query {
	q = strings.TrimSpace(q)
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	var qs []query.Query

	for field, boost := range map[string]float64{"title": 3, "author": 2} {
		m := bleve.NewMatchQuery(q)
		m.SetField(field)
		m.SetBoost(boost)
		qs = append(qs, m)
	}

	// Typo tolerance on single words.
	if !strings.Contains(q, " ") {
		f := bleve.NewFuzzyQuery(strings.ToLower(q))
		f.SetField("title")
		f.SetFuzziness(1)
		f.SetBoost(0.8)
		qs = append(qs, f)
	}

	if len(q) >= 2 {
		for _, field := range []string{"title", "author"} {
			pq := bleve.NewPrefixQuery(strings.ToLower(q))
			pq.SetField(field)
			pq.SetBoost(0.5)
			qs = append(qs, pq)
		}
	}

	return bleve.NewDisjunctionQuery(qs...)
}
