package douban

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	pages   map[string][]byte
	fetched []string
}

func (f *stubFetcher) Document(_ context.Context, link string) (*goquery.Document, error) {
	body, ok := f.pages[link]
	if !ok {
		return nil, fmt.Errorf("GET %s: 404 Not Found", link)
	}
	f.fetched = append(f.fetched, link)
	return goquery.NewDocumentFromReader(bytes.NewBuffer(body))
}

func collectURL(base string, offset int) string {
	return fmt.Sprintf(
		"%s/people/u/collect?start=%d&sort=time&rating=all&filter=all&mode=grid",
		base, offset,
	)
}

func TestCollectStopsWithoutNextAffordance(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{
		collectURL("https://book.douban.com", 0): listPageTest,
	}}
	p := NewPaginator(fetcher, PaginatorConfig{
		Category: "book",
		BaseURL:  "https://book.douban.com",
		Kind:     KindBook,
		Delay:    -1,
	})

	result := p.Collect(context.Background(), "u")
	require.Len(t, result.Items, 3)
	require.Len(t, fetcher.fetched, 1)

	// total was not discoverable on this page, fetched count wins
	require.Equal(t, 3, result.TotalCount)

	for _, item := range result.Items {
		require.Equal(t, KindBook, item.Kind)
	}
	require.Equal(t, "三体", result.Items[0].Title)
	require.Equal(t, 5, result.Items[0].Rating)
	require.Equal(t, 2008, result.Items[0].Year)
}

func TestCollectKeepsPartialResultsOnFetchFailure(t *testing.T) {
	// page 1 advertises a next page which then fails to fetch
	fetcher := &stubFetcher{pages: map[string][]byte{
		collectURL("https://movie.douban.com", 0): gridPageTest,
	}}
	p := NewPaginator(fetcher, PaginatorConfig{
		Category: "movie",
		BaseURL:  "https://movie.douban.com",
		Kind:     KindMovie,
		Delay:    -1,
	})

	result := p.Collect(context.Background(), "u")
	require.Len(t, result.Items, 3)
	require.Equal(t, 37, result.TotalCount)
}

func TestCollectHonorsPageCap(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{
		collectURL("https://movie.douban.com", 0):  gridPageTest,
		collectURL("https://movie.douban.com", 15): gridPageTest,
		collectURL("https://movie.douban.com", 30): gridPageTest,
	}}
	p := NewPaginator(fetcher, PaginatorConfig{
		Category: "movie",
		BaseURL:  "https://movie.douban.com",
		Kind:     KindMovie,
		MaxPages: 2,
		Delay:    -1,
	})

	result := p.Collect(context.Background(), "u")
	require.Len(t, fetcher.fetched, 2)
	require.Len(t, result.Items, 6)
}

func TestCollectAdvancesByPageSize(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{
		collectURL("https://movie.douban.com", 0):  gridPageTest,
		collectURL("https://movie.douban.com", 15): listPageTest,
	}}

	var progress []string
	p := NewPaginator(fetcher, PaginatorConfig{
		Category: "movie",
		BaseURL:  "https://movie.douban.com",
		Kind:     KindMovie,
		Delay:    -1,
		OnProgress: func(category string, page int) {
			progress = append(progress, fmt.Sprintf("%s/%d", category, page))
		},
	})

	result := p.Collect(context.Background(), "u")
	require.Equal(t, []string{"movie/1", "movie/2"}, progress)
	require.Len(t, result.Items, 6)
	require.Equal(t, 37, result.TotalCount)
}

func TestCollectClassifyHook(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{
		collectURL("https://movie.douban.com", 0): gridPageTest,
	}}
	p := NewPaginator(fetcher, PaginatorConfig{
		Category: "movie",
		BaseURL:  "https://movie.douban.com",
		Kind:     KindMovie,
		Delay:    -1,
		Classify: func(title, _ string) Kind {
			if strings.Contains(title, "季") {
				return KindSerial
			}
			return KindMovie
		},
	})

	result := p.Collect(context.Background(), "u")
	require.Equal(t, KindMovie, result.Items[0].Kind)
	require.Equal(t, KindSerial, result.Items[1].Kind)
}

func TestCollectEmptyUser(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{}}
	p := NewPaginator(fetcher, PaginatorConfig{
		Category: "music",
		BaseURL:  "https://music.douban.com",
		Kind:     KindMusic,
		Delay:    -1,
	})

	result := p.Collect(context.Background(), "u")
	require.Empty(t, result.Items)
	require.Equal(t, 0, result.TotalCount)
}
