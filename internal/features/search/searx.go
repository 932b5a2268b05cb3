package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"
)

// Results is the SearXNG JSON response.
type Results struct {
	Query   string `json:"query"`
	Results []Row  `json:"results"`
}

type Row struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Searx queries a SearXNG instance with format=json.
type Searx struct {
	url   string
	limit int
	c     *resty.Client
}

func NewSearx(url string, limit int, timeout time.Duration) *Searx {
	if limit <= 0 {
		limit = 5
	}
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Searx{url: url, limit: limit, c: c}
}

func (s *Searx) Search(ctx context.Context, query string) ([]Row, error) {
	resp, err := s.c.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("format", "json").
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("searx request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("searx request: status %s", resp.Status())
	}
	var results Results
	if err := json.Unmarshal(resp.Bytes(), &results); err != nil {
		return nil, fmt.Errorf("searx decode: %w", err)
	}
	rows := results.Results
	if len(rows) > s.limit {
		rows = rows[:s.limit]
	}
	return rows, nil
}

func (s *Searx) Close() error {
	return s.c.Close()
}
