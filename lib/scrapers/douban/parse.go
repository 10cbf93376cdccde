package douban

import (
	"regexp"
	"strconv"

	"shelfstats-backend/lib/htmlutil"
	"shelfstats-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// ItemFields are the raw fields pulled out of one listing fragment
// before rating/year decoding.
type ItemFields struct {
	Title     string
	DetailURL string
	// Context is the free-text blurb next to the title, the source for
	// year extraction and serial classification.
	Context  string
	CoverURL string
}

// ItemParser extracts structured fields from a single listing
// fragment. The origin serves two markup families (grid and list);
// each gets its own implementation so a future markup revision only
// costs one more strategy.
type ItemParser interface {
	// ExtractFields returns false when the fragment has no resolvable
	// title, which is the policy for ad and placeholder fragments.
	ExtractFields(s *goquery.Selection) (ItemFields, bool)
	ExtractRating(s *goquery.Selection) int
	ExtractYear(contextText string) (int, bool)
}

// parserFor probes a fragment's structure and picks the matching
// layout strategy. List-family fragments nest everything under .info.
func parserFor(s *goquery.Selection) ItemParser {
	if s.Find(".info").Length() > 0 {
		return listParser{}
	}
	return gridParser{}
}

type gridParser struct{}

func (gridParser) ExtractFields(s *goquery.Selection) (ItemFields, bool) {
	return extractFields(s,
		[]string{".title a"},
		[]string{".intro", ".bd p"},
	)
}

func (gridParser) ExtractRating(s *goquery.Selection) int { return extractRating(s) }

func (gridParser) ExtractYear(contextText string) (int, bool) { return extractYear(contextText) }

type listParser struct{}

func (listParser) ExtractFields(s *goquery.Selection) (ItemFields, bool) {
	return extractFields(s,
		[]string{".info .title a", ".info h2 a"},
		[]string{".pub", ".desc", ".intro"},
	)
}

func (listParser) ExtractRating(s *goquery.Selection) int { return extractRating(s) }

func (listParser) ExtractYear(contextText string) (int, bool) { return extractYear(contextText) }

func extractFields(s *goquery.Selection, titleSelectors, contextSelectors []string) (ItemFields, bool) {
	var anchor *goquery.Selection
	for _, sel := range titleSelectors {
		match := s.Find(sel).First()
		if match.Length() > 0 {
			anchor = match
			break
		}
	}
	if anchor == nil {
		return ItemFields{}, false
	}

	title := textutil.FirstTitle(htmlutil.CleanText(anchor.Text()))
	if title == "" {
		return ItemFields{}, false
	}

	return ItemFields{
		Title:     title,
		DetailURL: anchor.AttrOr("href", ""),
		Context:   htmlutil.FirstText(s, contextSelectors...),
		CoverURL:  htmlutil.FirstAttr(s, "src", "img"),
	}, true
}

// the origin encodes star ratings in CSS class names under two
// incompatible schemes: rating{N}-t carries the stars directly,
// allstar{NN} carries stars times ten
var ratingDirectRegex = regexp.MustCompile(`rating(\d)-t`)
var ratingTimesTenRegex = regexp.MustCompile(`allstar(\d+)`)

func decodeRatingClass(class string) (int, bool) {
	if m := ratingDirectRegex.FindStringSubmatch(class); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 0 && n <= 5 {
			return n, true
		}
	}
	if m := ratingTimesTenRegex.FindStringSubmatch(class); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n/10 >= 0 && n/10 <= 5 {
			return n / 10, true
		}
	}
	return 0, false
}

func extractRating(s *goquery.Selection) int {
	rating, found := scanRatingClasses(s.Find(`span[class^="rating"], span[class^="allstar"]`))
	if found {
		return rating
	}
	// one layout family buries the rating class behind other classes
	// where the prefix selector misses it, scan every span as a fallback
	rating, _ = scanRatingClasses(s.Find("span"))
	return rating
}

func scanRatingClasses(candidates *goquery.Selection) (int, bool) {
	rating := 0
	found := false
	candidates.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		n, ok := decodeRatingClass(el.AttrOr("class", ""))
		if ok {
			rating = n
			found = true
			return false
		}
		return true
	})
	return rating, found
}

// a year is the first run of exactly four digits
var yearRegex = regexp.MustCompile(`(?:^|[^0-9])([0-9]{4})(?:[^0-9]|$)`)

func extractYear(contextText string) (int, bool) {
	m := yearRegex.FindStringSubmatch(contextText)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// listing fragment selectors, one per markup family
var itemSelectors = []string{
	".grid-view .item",
	".list-view .item",
	".interest-list .subject-item",
}

func findItems(doc *goquery.Document) *goquery.Selection {
	for _, sel := range itemSelectors {
		items := doc.Find(sel)
		if items.Length() > 0 {
			return items
		}
	}
	return doc.Find(itemSelectors[0])
}

// the first listing page titles itself with the collection's total
// count in parentheses
var totalCountRegex = regexp.MustCompile(`\((\d+)\)`)

func parseTotalCount(doc *goquery.Document) (int, bool) {
	m := totalCountRegex.FindStringSubmatch(doc.Find("title").Text())
	if m == nil {
		return 0, false
	}
	total, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return total, true
}

func hasNextPage(doc *goquery.Document) bool {
	return doc.Find(".paginator .next a").Length() > 0
}
