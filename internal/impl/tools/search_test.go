package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticLinks struct {
	links []string
	err   error
}

func (s *staticLinks) Links(ctx context.Context, query string, limit int) ([]string, error) {
	return s.links, s.err
}

type fakeFetcher struct {
	pages   map[string]string
	delays  map[string]time.Duration
	block   map[string]bool
	calls   atomic.Int32
	aborted atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls.Add(1)
	if f.block[url] {
		<-ctx.Done()
		f.aborted.Add(1)
		return "", ctx.Err()
	}
	if d := f.delays[url]; d > 0 {
		time.Sleep(d)
	}
	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("404 %s", url)
	}
	return page, nil
}

type recordingSummarizer struct {
	mu    sync.Mutex
	query string
	text  string
	err   error
}

func (s *recordingSummarizer) Summarize(ctx context.Context, query, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.text = text
	if s.err != nil {
		return "", s.err
	}
	return "summary of " + query, nil
}

func TestSearchTool_Search(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://a.example": "<p>alpha</p>",
			"https://c.example": "<p>gamma</p>",
		},
		delays: map[string]time.Duration{"https://a.example": 20 * time.Millisecond},
	}
	summarizer := &recordingSummarizer{}
	links := &staticLinks{links: []string{"https://a.example", "https://b.example", "https://c.example"}}

	tool := NewSearchTool(links, fetcher, summarizer, SearchOptions{MaxPages: 5, Workers: 3, FetchTimeout: time.Second}, zap.NewNop())

	answer, err := tool.Search(context.Background(), "greek letters")
	require.NoError(t, err)
	assert.Equal(t, "summary of greek letters", answer)
	assert.Equal(t, "greek letters", summarizer.query)
	assert.Equal(t, "alpha\n\ngamma", summarizer.text)
}

func TestSearchTool_StopsAtMaxPages(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://1.example": "<p>one</p>",
			"https://2.example": "<p>two</p>",
		},
		delays: map[string]time.Duration{"https://1.example": 30 * time.Millisecond},
		block:  map[string]bool{"https://3.example": true, "https://4.example": true},
	}
	summarizer := &recordingSummarizer{}
	links := &staticLinks{links: []string{"https://1.example", "https://2.example", "https://3.example", "https://4.example"}}

	tool := NewSearchTool(links, fetcher, summarizer, SearchOptions{MaxPages: 2, Workers: 4, FetchTimeout: 10 * time.Second}, zap.NewNop())

	start := time.Now()
	_, err := tool.Search(context.Background(), "numbers")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, "one\n\ntwo", summarizer.text)
	assert.Equal(t, int32(2), fetcher.aborted.Load())
}

func TestSearchTool_NoLinks(t *testing.T) {
	summarizer := &recordingSummarizer{}
	tool := NewSearchTool(&staticLinks{}, &fakeFetcher{}, summarizer, SearchOptions{}, zap.NewNop())

	answer, err := tool.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, `No relevant web results were found for "nothing".`, answer)
	assert.Empty(t, summarizer.query)
}

func TestSearchTool_AllFetchesFail(t *testing.T) {
	summarizer := &recordingSummarizer{}
	links := &staticLinks{links: []string{"https://gone.example"}}
	tool := NewSearchTool(links, &fakeFetcher{}, summarizer, SearchOptions{}, zap.NewNop())

	answer, err := tool.Search(context.Background(), "gone")
	require.NoError(t, err)
	assert.Equal(t, `No relevant web results were found for "gone".`, answer)
}

func TestSearchTool_RendererFallback(t *testing.T) {
	links := &staticLinks{links: []string{"https://spa.example"}}
	static := &fakeFetcher{pages: map[string]string{"https://spa.example": `<div id="root"></div>`}}
	rendered := &fakeFetcher{pages: map[string]string{"https://spa.example": `<div id="root"><p>hydrated</p></div>`}}
	summarizer := &recordingSummarizer{}

	tool := NewSearchTool(links, static, summarizer, SearchOptions{}, zap.NewNop()).WithRenderer(rendered)

	_, err := tool.Search(context.Background(), "spa")
	require.NoError(t, err)
	assert.Equal(t, "hydrated", summarizer.text)
	assert.Equal(t, int32(1), rendered.calls.Load())
}

func TestSearchTool_Errors(t *testing.T) {
	links := &staticLinks{err: errors.New("quota exceeded")}
	tool := NewSearchTool(links, &fakeFetcher{}, &recordingSummarizer{}, SearchOptions{}, zap.NewNop())

	_, err := tool.Search(context.Background(), "q")
	assert.EqualError(t, err, "quota exceeded")

	links = &staticLinks{links: []string{"https://a.example"}}
	fetcher := &fakeFetcher{pages: map[string]string{"https://a.example": "<p>alpha</p>"}}
	tool = NewSearchTool(links, fetcher, &recordingSummarizer{err: errors.New("summarizer down")}, SearchOptions{}, zap.NewNop())

	_, err = tool.Search(context.Background(), "q")
	assert.EqualError(t, err, "summarizer down")
}

func TestWebSearchClient_Links(t *testing.T) {
	var gotQuery, gotKey, gotCX string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotCX = r.URL.Query().Get("cx")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"link":"https://a.example"},{"link":""},{"link":"https://b.example"},{"link":"https://c.example"}]}`)
	}))
	defer server.Close()

	client := NewWebSearchClient("key-1", "engine-1", server.Client(), zap.NewNop()).WithEndpoint(server.URL)

	links, err := client.Links(context.Background(), "golang errgroup", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, links)
	assert.Equal(t, "golang errgroup", gotQuery)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "engine-1", gotCX)
}

func TestWebSearchClient_Failures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewWebSearchClient("key", "engine", server.Client(), zap.NewNop()).WithEndpoint(server.URL)
	_, err := client.Links(context.Background(), "q", 5)
	assert.ErrorContains(t, err, "status code: 403")

	unconfigured := NewWebSearchClient("", "", nil, zap.NewNop())
	_, err = unconfigured.Links(context.Background(), "q", 5)
	assert.ErrorContains(t, err, "not configured")
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<p>hello</p>")
		case "/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, "%PDF")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client(), zap.NewNop())

	body, err := fetcher.Fetch(context.Background(), server.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", body)
	assert.Equal(t, defaultUserAgent, userAgent)

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	assert.ErrorContains(t, err, "status 404")

	_, err = fetcher.Fetch(context.Background(), server.URL+"/pdf")
	assert.ErrorContains(t, err, "unsupported content type")
}
