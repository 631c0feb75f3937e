package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"BlogCurator/internal/domain"
)

// newBlogServer serves a fake three-page listing. Posts are numbered 1..9
// oldest to newest; pages list them newest-first, page 1 holding the newest.
func newBlogServer(t *testing.T, failPost int) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	pages := map[string][]int{
		"/":        {9, 8, 7},
		"/page/2/": {6, 5, 4},
		"/page/3/": {3, 2, 1},
	}

	var requests atomic.Int64

	mux := http.NewServeMux()
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if posts, ok := pages[r.URL.Path]; ok {
			var b strings.Builder
			b.WriteString(`<div class="pagination"><a>1</a><a>2</a><a>3</a></div>`)
			for _, n := range posts {
				fmt.Fprintf(&b, `<div class="post-item"><h2><a href="/post/%d/">Post %d</a></h2><span class="author-name">Author %d</span></div>`, n, n, n)
			}
			_, _ = w.Write([]byte(b.String()))
			return
		}

		if strings.HasPrefix(r.URL.Path, "/post/") {
			n := strings.Trim(strings.TrimPrefix(r.URL.Path, "/post/"), "/")
			if n == fmt.Sprint(failPost) {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			fmt.Fprintf(w, `<div id="content"><h2>Post %s</h2><p>Body of post %s.</p></div><time datetime="2024-01-0%sT00:00:00Z"></time>`, n, n, n)
			return
		}

		http.NotFound(w, r)
	}
	mux.HandleFunc("/", handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &requests
}

func postURLs(stubs []domain.ArticleStub) []string {
	urls := make([]string, len(stubs))
	for i, s := range stubs {
		urls[i] = s.URL[strings.LastIndex(s.URL, "/post/"):]
	}
	return urls
}

func TestCollectOldestWalksBackwards(t *testing.T) {
	t.Parallel()

	server, _ := newBlogServer(t, 0)
	site := newTestSite(server.URL)

	stubs, err := site.CollectOldest(context.Background(), 5)
	if err != nil {
		t.Fatalf("CollectOldest error: %v", err)
	}

	// Last page taken from the front, page 2 from the back.
	want := []string{"/post/3/", "/post/2/", "/post/1/", "/post/5/", "/post/4/"}
	got := postURLs(stubs)
	if len(got) != len(want) {
		t.Fatalf("expected %d stubs, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCollectOldestExceedingTotal(t *testing.T) {
	t.Parallel()

	server, _ := newBlogServer(t, 0)
	site := newTestSite(server.URL)

	stubs, err := site.CollectOldest(context.Background(), 50)
	if err != nil {
		t.Fatalf("CollectOldest error: %v", err)
	}
	if len(stubs) != 9 {
		t.Fatalf("expected all 9 stubs, got %d", len(stubs))
	}
}

func TestCollectOldestZeroFetchesNothing(t *testing.T) {
	t.Parallel()

	server, requests := newBlogServer(t, 0)
	site := newTestSite(server.URL)

	stubs, err := site.CollectOldest(context.Background(), 0)
	if err != nil {
		t.Fatalf("CollectOldest error: %v", err)
	}
	if len(stubs) != 0 {
		t.Fatalf("expected no stubs, got %d", len(stubs))
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no page fetches, got %d", requests.Load())
	}
}

func TestCollectNewestFirstPageOnly(t *testing.T) {
	t.Parallel()

	server, requests := newBlogServer(t, 0)
	site := newTestSite(server.URL)

	stubs, err := site.CollectNewest(context.Background(), 2)
	if err != nil {
		t.Fatalf("CollectNewest error: %v", err)
	}

	got := postURLs(stubs)
	if len(got) != 2 || got[0] != "/post/9/" || got[1] != "/post/8/" {
		t.Fatalf("unexpected stubs: %v", got)
	}
	if requests.Load() != 1 {
		t.Fatalf("expected a single page fetch, got %d", requests.Load())
	}
}

func TestScrapeNewestMergesDetails(t *testing.T) {
	t.Parallel()

	server, _ := newBlogServer(t, 0)
	site := newTestSite(server.URL)

	articles, err := site.ScrapeNewest(context.Background(), 1)
	if err != nil {
		t.Fatalf("ScrapeNewest error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	art := articles[0]
	if art.Title != "Post 9" || art.Author != "Author 9" {
		t.Fatalf("stub metadata lost: %+v", art)
	}
	if len(art.Sections) != 1 || art.Sections[0].Paragraphs[0] != "Body of post 9." {
		t.Fatalf("detail content missing: %+v", art.Sections)
	}
	if art.Content == domain.FallbackContent {
		t.Fatal("expected extracted content, got fallback")
	}
}

func TestScrapeBatchSkipsFailingItem(t *testing.T) {
	t.Parallel()

	// Detail fetch for post 8 (the second of five) fails.
	server, _ := newBlogServer(t, 8)
	site := newTestSite(server.URL)

	articles, err := site.ScrapeNewest(context.Background(), 3)
	if err != nil {
		t.Fatalf("ScrapeNewest error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 surviving articles, got %d", len(articles))
	}
	if articles[0].Title != "Post 9" || articles[1].Title != "Post 7" {
		t.Fatalf("unexpected survivors: %q, %q", articles[0].Title, articles[1].Title)
	}
}

func TestExtractURLFetchFailure(t *testing.T) {
	t.Parallel()

	server, _ := newBlogServer(t, 0)
	site := newTestSite(server.URL)

	_, err := site.ExtractURL(context.Background(), server.URL+"/missing/")
	if err == nil {
		t.Fatal("expected an error for a missing page")
	}
}
