package arxiv

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
)

const (
	apiBaseURL = "https://export.arxiv.org/api/query"
	pageSize   = 100
)

// Fetcher retrieves the papers submitted to one category on one UTC day.
type Fetcher interface {
	Fetch(ctx context.Context, category string, day time.Time) ([]dataset.Paper, error)
}

// Client queries the arXiv Atom API.
type Client struct {
	parser    *gofeed.Parser
	baseURL   string
	pageDelay time.Duration
}

func NewClient() *Client {
	return &Client{
		parser:    gofeed.NewParser(),
		baseURL:   apiBaseURL,
		pageDelay: time.Second, // arXiv asks for ~1 request/second
	}
}

// Fetch pages through the day's submissions for a category. An empty day
// returns an empty slice, not an error.
func (c *Client) Fetch(ctx context.Context, category string, day time.Time) ([]dataset.Paper, error) {
	var papers []dataset.Paper
	for start := 0; ; start += pageSize {
		feed, err := c.parser.ParseURLWithContext(c.queryURL(category, day, start), ctx)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", category, err)
		}

		for _, item := range feed.Items {
			p := paperFromItem(item)
			if p.ID == "" {
				continue
			}
			papers = append(papers, p)
		}

		if len(feed.Items) < pageSize {
			break
		}
		if total, ok := totalResults(feed); ok && start+pageSize >= total {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("querying %s: %w", category, ctx.Err())
		case <-time.After(c.pageDelay):
		}
	}
	return papers, nil
}

func (c *Client) queryURL(category string, day time.Time, start int) string {
	day = day.UTC()
	window := fmt.Sprintf("submittedDate:[%s0000 TO %s2359]",
		day.Format("20060102"), day.Format("20060102"))

	v := url.Values{}
	v.Set("search_query", fmt.Sprintf("cat:%s AND %s", category, window))
	v.Set("sortBy", "submittedDate")
	v.Set("sortOrder", "descending")
	v.Set("start", strconv.Itoa(start))
	v.Set("max_results", strconv.Itoa(pageSize))
	return c.baseURL + "?" + v.Encode()
}

// totalResults reads the opensearch totalResults extension arXiv includes in
// every response.
func totalResults(feed *gofeed.Feed) (int, bool) {
	exts, ok := feed.Extensions["opensearch"]
	if !ok {
		return 0, false
	}
	vals, ok := exts["totalResults"]
	if !ok || len(vals) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(vals[0].Value))
	if err != nil {
		return 0, false
	}
	return n, true
}

func paperFromItem(item *gofeed.Item) dataset.Paper {
	p := dataset.Paper{
		ID:         ParseID(item.GUID),
		Title:      normalizeSpace(item.Title),
		Abstract:   normalizeSpace(item.Description),
		Categories: item.Categories,
		Link:       item.Link,
	}
	if p.ID == "" {
		p.ID = ParseID(item.Link)
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			p.Authors = append(p.Authors, a.Name)
		}
	}
	if item.PublishedParsed != nil {
		p.Published = item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		p.Updated = item.UpdatedParsed.UTC()
	}
	return p
}

// ParseID extracts the arXiv identifier from an abs URL, e.g.
// "http://arxiv.org/abs/2301.00001v2" -> "2301.00001".
func ParseID(absURL string) string {
	idx := strings.LastIndex(absURL, "/abs/")
	if idx < 0 {
		return ""
	}
	id := absURL[idx+5:]
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// normalizeSpace collapses the newlines and indentation arXiv embeds in
// titles and abstracts.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FetchResult holds the merged papers and any per-category errors.
type FetchResult struct {
	Papers []dataset.Paper
	Errors []error
}

// AllFailed reports whether no category could be fetched at all.
func (r FetchResult) AllFailed(categories int) bool {
	return categories > 0 && len(r.Errors) == categories
}

// FetchAll queries each category in turn and merges the results, deduplicating
// papers that are cross-listed in several categories. Categories are fetched
// sequentially to stay inside arXiv's rate expectations.
func FetchAll(ctx context.Context, f Fetcher, categories []string, day time.Time) FetchResult {
	var result FetchResult
	seen := make(map[string]bool)

	for _, cat := range categories {
		papers, err := f.Fetch(ctx, cat, day)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		for _, p := range papers {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			result.Papers = append(result.Papers, p)
		}
	}
	return result
}
