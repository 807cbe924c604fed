package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxSearchLinks is the most links the search API returns in one page.
const maxSearchLinks = 10

// LinkSource finds candidate URLs for a query.
type LinkSource interface {
	Links(ctx context.Context, query string, limit int) ([]string, error)
}

type SearchOptions struct {
	MaxPages     int
	Workers      int
	FetchTimeout time.Duration
}

// SearchTool answers a query by fetching the top result pages, extracting their
// text and handing it to a summarizer.
type SearchTool struct {
	links      LinkSource
	fetcher    PageFetcher
	renderer   PageFetcher
	summarizer interfaces.Summarizer
	options    SearchOptions
	logger     *zap.Logger
}

func NewSearchTool(links LinkSource, fetcher PageFetcher, summarizer interfaces.Summarizer, options SearchOptions, logger *zap.Logger) *SearchTool {
	if options.MaxPages <= 0 {
		options.MaxPages = 5
	}
	if options.Workers <= 0 {
		options.Workers = options.MaxPages
	}
	if options.FetchTimeout <= 0 {
		options.FetchTimeout = 10 * time.Second
	}
	return &SearchTool{
		links:      links,
		fetcher:    fetcher,
		summarizer: summarizer,
		options:    options,
		logger:     logger,
	}
}

// WithRenderer sets a fetcher used for pages whose static HTML has no readable text.
func (t *SearchTool) WithRenderer(renderer PageFetcher) *SearchTool {
	t.renderer = renderer
	return t
}

func (t *SearchTool) Search(ctx context.Context, query string) (string, error) {
	links, err := t.links.Links(ctx, query, maxSearchLinks)
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return noResults(query), nil
	}

	pages, err := t.collect(ctx, links)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		t.logger.Warn("No result pages could be read", zap.String("query", query), zap.Int("links", len(links)))
		return noResults(query), nil
	}

	t.logger.Info("Summarizing search results", zap.String("query", query), zap.Int("pages", len(pages)))
	return t.summarizer.Summarize(ctx, query, strings.Join(pages, "\n\n"))
}

// collect fetches links concurrently and returns the extracted texts in link
// order. Outstanding fetches are cancelled once enough pages have been read.
func (t *SearchTool) collect(ctx context.Context, links []string) ([]string, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		collected int
		texts     = make([]string, len(links))
	)

	g := new(errgroup.Group)
	g.SetLimit(t.options.Workers)

	for i, link := range links {
		g.Go(func() error {
			if fetchCtx.Err() != nil {
				return nil
			}
			text := t.read(fetchCtx, link)
			if text == "" {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if collected >= t.options.MaxPages {
				return nil
			}
			texts[i] = text
			collected++
			if collected == t.options.MaxPages {
				cancel()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages := make([]string, 0, t.options.MaxPages)
	for _, text := range texts {
		if text != "" {
			pages = append(pages, text)
		}
	}
	return pages, nil
}

func (t *SearchTool) read(ctx context.Context, link string) string {
	text := t.readWith(ctx, t.fetcher, link)
	if text == "" && t.renderer != nil && ctx.Err() == nil {
		text = t.readWith(ctx, t.renderer, link)
	}
	return text
}

func (t *SearchTool) readWith(ctx context.Context, fetcher PageFetcher, link string) string {
	pageCtx, cancel := context.WithTimeout(ctx, t.options.FetchTimeout)
	defer cancel()

	source, err := fetcher.Fetch(pageCtx, link)
	if err != nil {
		t.logger.Debug("Dropping search result", zap.String("url", link), zap.Error(err))
		return ""
	}
	return ExtractText(source)
}

func noResults(query string) string {
	return fmt.Sprintf("No relevant web results were found for \"%s\".", query)
}

var _ interfaces.Searcher = (*SearchTool)(nil)
