// Package feeds fetches news articles from RSS sources.
package feeds

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/mmcdole/gofeed"

	"github.com/fvaldes/matutino/pkg/domain/news"
)

// DefaultFeedURLs are used when no feeds are configured.
var DefaultFeedURLs = []string{
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://rss.cnn.com/rss/edition.rss",
	"https://feeds.reuters.com/reuters/topNews",
}

const (
	perFeedLimit = 10
	totalLimit   = 20
	feedTimeout  = 4 * time.Second
)

// RSSSource fetches articles from a set of RSS feeds concurrently. A failing
// feed is logged and skipped; the fetch never fails as a whole.
type RSSSource struct {
	urls    []string
	parser  *gofeed.Parser
	timeout timeout.Timeout[[]news.Article]
	logger  *slog.Logger
}

func NewRSSSource(urls []string, logger *slog.Logger) *RSSSource {
	if len(urls) == 0 {
		urls = DefaultFeedURLs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSSource{
		urls:    urls,
		parser:  gofeed.NewParser(),
		timeout: timeout.New[[]news.Article](timeout.Config{DefaultTimeout: feedTimeout}),
		logger:  logger,
	}
}

// Fetch pulls all feeds in parallel and merges their articles in feed-list
// order, capped at the total limit.
func (s *RSSSource) Fetch(ctx context.Context) ([]news.Article, error) {
	results := make([][]news.Article, len(s.urls))

	var wg sync.WaitGroup
	for i, url := range s.urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			articles, err := s.timeout.Execute(ctx, feedTimeout, func(ctx context.Context) ([]news.Article, error) {
				return s.fetchFeed(ctx, url)
			})
			if err != nil {
				s.logger.Warn("feed fetch failed", "url", url, "error", err)
				return
			}
			results[i] = articles
		}(i, url)
	}
	wg.Wait()

	var merged []news.Article
	for _, articles := range results {
		merged = append(merged, articles...)
	}
	if len(merged) > totalLimit {
		merged = merged[:totalLimit]
	}
	return merged, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, url string) ([]news.Article, error) {
	feed, err := s.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	source := feed.Title
	if source == "" {
		source = "Unknown"
	}

	items := feed.Items
	if len(items) > perFeedLimit {
		items = items[:perFeedLimit]
	}

	articles := make([]news.Article, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "No title"
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		articles = append(articles, news.Article{
			Title:     title,
			Summary:   summary,
			Link:      item.Link,
			Published: item.Published,
			Source:    source,
		})
	}
	return articles, nil
}
