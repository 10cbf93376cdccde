package collections

import (
	"fmt"
	"testing"

	"shelfstats-backend/lib/scrapers/douban"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func item(kind douban.Kind, title string, year, rating int) douban.Item {
	return douban.Item{
		Title:     title,
		DetailURL: fmt.Sprintf("https://example.com/%s", title),
		Year:      year,
		Rating:    rating,
		Kind:      kind,
	}
}

func TestComputeStatsDistributionSum(t *testing.T) {
	items := []douban.Item{
		item(douban.KindMovie, "a", 2019, 4),
		item(douban.KindMovie, "b", 2019, 4),
		item(douban.KindMovie, "c", 0, 0),
		item(douban.KindMovie, "d", 2001, 2),
		item(douban.KindMovie, "e", 2001, 5),
	}

	summary := computeStats(items, 120)

	sum := 0
	for _, count := range summary.Distribution {
		sum += count
	}
	require.Equal(t, len(items), sum)
	require.Equal(t, 120, summary.Total)
	require.Equal(t, 1, summary.Distribution[0])
	require.Equal(t, 2, summary.Distribution[4])
	require.Equal(t, 1, summary.Distribution[5])
}

func TestComputeStatsTotalFallback(t *testing.T) {
	items := make([]douban.Item, 7)
	for i := range items {
		items[i] = item(douban.KindBook, fmt.Sprintf("b%d", i), 2000+i, i%6)
	}

	summary := computeStats(items, 0)
	require.Equal(t, 7, summary.Total)
}

func TestComputeStatsRecentKeepsFetchOrder(t *testing.T) {
	items := make([]douban.Item, 14)
	for i := range items {
		items[i] = item(douban.KindMusic, fmt.Sprintf("m%d", i), 0, 3)
	}

	summary := computeStats(items, 0)
	require.Len(t, summary.Recent, 10)
	require.Equal(t, "m0", summary.Recent[0].Title)
	require.Equal(t, "m9", summary.Recent[9].Title)
}

func TestYearTimelineWeightsByRating(t *testing.T) {
	itemsByKind := map[douban.Kind][]douban.Item{
		douban.KindMovie: {
			item(douban.KindMovie, "a", 2019, 5),
			item(douban.KindMovie, "b", 2019, 4),
			item(douban.KindMovie, "c", 2019, 3), // below threshold
			item(douban.KindMovie, "d", 0, 5),    // no year
			item(douban.KindMovie, "e", 2001, 4),
		},
		douban.KindBook: {
			item(douban.KindBook, "f", 2019, 4),
		},
		douban.KindSerial: {
			item(douban.KindSerial, "g", 2001, 5),
		},
	}

	got := yearTimeline(itemsByKind)
	want := []YearEntry{
		{Year: "2001", Movie: 4, Serial: 5},
		{Year: "2019", Movie: 9, Book: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("timeline mismatch (-want +got):\n%s", diff)
	}
}

func TestYearTimelineSumInvariant(t *testing.T) {
	movies := []douban.Item{
		item(douban.KindMovie, "a", 2019, 5),
		item(douban.KindMovie, "b", 2018, 4),
		item(douban.KindMovie, "c", 2018, 4),
		item(douban.KindMovie, "d", 2017, 3),
		item(douban.KindMovie, "e", 0, 5),
	}
	timeline := yearTimeline(map[douban.Kind][]douban.Item{douban.KindMovie: movies})

	gotSum := 0
	for _, entry := range timeline {
		gotSum += entry.Movie
	}

	wantSum := 0
	for _, m := range movies {
		if m.Rating >= HighRatedThreshold && m.Year != 0 {
			wantSum += m.Rating
		}
	}
	require.Equal(t, wantSum, gotSum)
}

func TestYearTimelineEmpty(t *testing.T) {
	timeline := yearTimeline(map[douban.Kind][]douban.Item{
		douban.KindMovie: {item(douban.KindMovie, "a", 2019, 2)},
	})
	require.Empty(t, timeline)
}

func TestHighRated(t *testing.T) {
	itemsByKind := map[douban.Kind][]douban.Item{
		douban.KindMovie: {
			item(douban.KindMovie, "a", 2019, 5),
			item(douban.KindMovie, "b", 2019, 1),
		},
		douban.KindMusic: {
			item(douban.KindMusic, "c", 0, 4),
		},
	}

	got := highRated(itemsByKind)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Title)
	require.Equal(t, "c", got[1].Title)
}
