package collections

import (
	"sort"
	"strconv"

	"shelfstats-backend/lib/scrapers/douban"
)

// HighRatedThreshold is the minimum rating for an item to count toward
// the year timeline and the high-rated list.
const HighRatedThreshold = 4

const recentLimit = 10

// RatingDistribution buckets items by star rating; index 0 holds the
// unrated ones. The bucket counts always sum to the number of items
// folded in.
type RatingDistribution [6]int

// RecentItem is the lightweight view of an item shown in the "most
// recent" strip of a category summary.
type RecentItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Cover  string `json:"cover,omitempty"`
	Rating int    `json:"rating"`
}

type CategorySummary struct {
	Total        int                `json:"total"`
	Distribution RatingDistribution `json:"distribution"`
	Recent       []RecentItem       `json:"recent"`
}

// YearEntry carries per-category *sums of ratings* for one year, a
// weighted popularity score rather than a tally.
type YearEntry struct {
	Year   string `json:"year"`
	Movie  int    `json:"movie"`
	Serial int    `json:"serial"`
	Book   int    `json:"book"`
	Music  int    `json:"music"`
}

// Report is the final output handed to the presentation layer.
// YearData is sorted ascending by numeric year; HighRated concatenates
// every category's items at or above the threshold, in each category's
// natural fetch order.
type Report struct {
	YearData  []YearEntry                     `json:"year_data"`
	Summary   map[douban.Kind]CategorySummary `json:"summary"`
	Profile   douban.Profile                  `json:"user_profile"`
	HighRated []douban.Item                   `json:"high_rated"`
}

// computeStats folds one category's items into a summary. Items are
// expected in fetch/recency order, newest first; the first ten become
// the recent strip. totalCount of zero falls back to the item count.
func computeStats(items []douban.Item, totalCount int) CategorySummary {
	var dist RatingDistribution
	for _, item := range items {
		r := item.Rating
		if r < 0 || r > 5 {
			r = 0
		}
		dist[r]++
	}

	recent := make([]RecentItem, 0, recentLimit)
	for _, item := range items {
		if len(recent) == recentLimit {
			break
		}
		recent = append(recent, RecentItem{
			Title:  item.Title,
			URL:    item.DetailURL,
			Cover:  item.CoverURL,
			Rating: item.Rating,
		})
	}

	total := totalCount
	if total <= 0 {
		total = len(items)
	}

	return CategorySummary{
		Total:        total,
		Distribution: dist,
		Recent:       recent,
	}
}

// yearTimeline builds the cross-category year-weighted timeline: for
// every high-rated item with a resolved year, the item's rating value
// is added to its year/category bucket.
func yearTimeline(itemsByKind map[douban.Kind][]douban.Item) []YearEntry {
	buckets := map[int]*YearEntry{}

	for kind, items := range itemsByKind {
		for _, item := range items {
			if item.Year == 0 || item.Rating < HighRatedThreshold {
				continue
			}
			entry, ok := buckets[item.Year]
			if !ok {
				entry = &YearEntry{Year: strconv.Itoa(item.Year)}
				buckets[item.Year] = entry
			}
			switch kind {
			case douban.KindMovie:
				entry.Movie += item.Rating
			case douban.KindSerial:
				entry.Serial += item.Rating
			case douban.KindBook:
				entry.Book += item.Rating
			case douban.KindMusic:
				entry.Music += item.Rating
			}
		}
	}

	years := make([]int, 0, len(buckets))
	for year := range buckets {
		years = append(years, year)
	}
	sort.Ints(years)

	out := make([]YearEntry, len(years))
	for i, year := range years {
		out[i] = *buckets[year]
	}
	return out
}

func highRated(itemsByKind map[douban.Kind][]douban.Item) []douban.Item {
	var out []douban.Item
	for _, kind := range []douban.Kind{
		douban.KindMovie, douban.KindSerial, douban.KindBook, douban.KindMusic,
	} {
		for _, item := range itemsByKind[kind] {
			if item.Rating >= HighRatedThreshold {
				out = append(out, item)
			}
		}
	}
	return out
}
