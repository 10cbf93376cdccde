package douban

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shelfstats-backend/lib/ratelimit"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// ProgressFunc is invoked once per fetched page, before that page is
// parsed, so a caller can surface incremental status.
type ProgressFunc func(category string, page int)

type PaginatorConfig struct {
	// Category is the fetched vertical name reported to ProgressFunc.
	Category string
	// BaseURL is the vertical's origin prefix, e.g. https://movie.douban.com.
	BaseURL string
	// Kind stamped on parsed items when Classify is nil.
	Kind Kind
	// Classify, when set, decides the kind of each item from its title
	// and context text. Used to split serials out of the movie vertical.
	Classify func(title, contextText string) Kind
	// PageSize is the origin's fixed page size.
	PageSize int
	// MaxPages bounds how deep pagination may go.
	MaxPages int
	// Delay is the courtesy pause between page fetches.
	Delay      time.Duration
	OnProgress ProgressFunc
}

const (
	DefaultPageSize = 15
	DefaultMaxPages = 20
	DefaultDelay    = time.Second
)

// Paginator drives sequential fetch+parse cycles through one
// vertical's listing pages. Every stop condition is a non-error
// termination; whatever was accumulated is the result.
type Paginator struct {
	fetcher Fetcher
	cfg     PaginatorConfig
	limiter *ratelimit.Interval
}

func NewPaginator(fetcher Fetcher, cfg PaginatorConfig) *Paginator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Delay == 0 {
		// a negative delay disables pacing entirely
		cfg.Delay = DefaultDelay
	}
	return &Paginator{
		fetcher: fetcher,
		cfg:     cfg,
		limiter: ratelimit.NewInterval(cfg.Delay),
	}
}

func (p *Paginator) collectURL(username string, offset int) string {
	return fmt.Sprintf(
		"%s/people/%s/collect?start=%d&sort=time&rating=all&filter=all&mode=grid",
		p.cfg.BaseURL, username, offset,
	)
}

// Collect walks the vertical's listing pages for username until a stop
// condition: no fragments, no next-page affordance, fetch failure, or
// the page cap.
func (p *Paginator) Collect(ctx context.Context, username string) CategoryResult {
	ctx, span := tracer.Start(ctx, "paginator:Collect")
	defer span.End()
	span.SetAttributes(
		attribute.String("category", p.cfg.Category),
		attribute.String("username", username),
	)

	var items []Item
	total := 0

	for page := 1; page <= p.cfg.MaxPages; page++ {
		if err := p.limiter.Wait(ctx); err != nil {
			break
		}

		link := p.collectURL(username, (page-1)*p.cfg.PageSize)
		doc, err := p.fetcher.Document(ctx, link)
		if err != nil {
			// a failed page truncates this category, it is not fatal
			slog.WarnContext(ctx, "collection page fetch failed",
				"category", p.cfg.Category, "page", page, "err", err)
			break
		}
		if p.cfg.OnProgress != nil {
			p.cfg.OnProgress(p.cfg.Category, page)
		}

		if page == 1 {
			if t, ok := parseTotalCount(doc); ok {
				total = t
			}
		}

		fragments := findItems(doc)
		if fragments.Length() == 0 {
			break
		}

		parser := parserFor(fragments.First())
		fragments.Each(func(_ int, s *goquery.Selection) {
			item, ok := p.parseItem(parser, s)
			if ok {
				items = append(items, item)
			}
		})

		if !hasNextPage(doc) {
			break
		}
	}

	span.SetAttributes(attribute.Int("item_count", len(items)))

	if total == 0 {
		// the origin's count was not discoverable, fall back to what
		// was actually fetched
		total = len(items)
	}
	return CategoryResult{Items: items, TotalCount: total}
}

func (p *Paginator) parseItem(parser ItemParser, s *goquery.Selection) (Item, bool) {
	fields, ok := parser.ExtractFields(s)
	if !ok {
		return Item{}, false
	}

	kind := p.cfg.Kind
	if p.cfg.Classify != nil {
		kind = p.cfg.Classify(fields.Title, fields.Context)
	}

	year, _ := parser.ExtractYear(fields.Context)
	return Item{
		Title:     fields.Title,
		DetailURL: fields.DetailURL,
		Year:      year,
		CoverURL:  fields.CoverURL,
		Rating:    parser.ExtractRating(s),
		Kind:      kind,
	}, true
}
