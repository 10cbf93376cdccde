package collections

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shelfstats-backend/lib/scrapers/douban"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("shelfstats.services.collections")

// ErrNoCollections distinguishes "nothing usable anywhere" from a
// merely sparse report, so callers can show a not-found/private
// message instead of an empty chart.
var ErrNoCollections = fmt.Errorf("no public collections found for this user")

// Origins are the per-vertical URL prefixes of the catalog site.
type Origins struct {
	Movie string `json:"movie"`
	Book  string `json:"book"`
	Music string `json:"music"`
	Www   string `json:"www"`
}

func DefaultOrigins() Origins {
	return Origins{
		Movie: "https://movie.douban.com",
		Book:  "https://book.douban.com",
		Music: "https://music.douban.com",
		Www:   "https://www.douban.com",
	}
}

type Options struct {
	Origins Origins
	// PageSize, MaxPages and Delay are handed to each paginator;
	// zero values take the paginator defaults.
	PageSize int
	MaxPages int
	Delay    time.Duration
}

// Service runs the whole ingest pipeline for one username: three
// vertical paginators plus the profile fetch, concurrently, then the
// aggregation passes.
type Service struct {
	fetcher douban.Fetcher
	opts    Options
}

func NewService(fetcher douban.Fetcher, opts Options) Service {
	def := DefaultOrigins()
	if opts.Origins.Movie == "" {
		opts.Origins.Movie = def.Movie
	}
	if opts.Origins.Book == "" {
		opts.Origins.Book = def.Book
	}
	if opts.Origins.Music == "" {
		opts.Origins.Music = def.Music
	}
	if opts.Origins.Www == "" {
		opts.Origins.Www = def.Www
	}
	return Service{fetcher: fetcher, opts: opts}
}

func (s Service) paginator(category, baseURL string, kind douban.Kind, classify func(string, string) douban.Kind, onProgress douban.ProgressFunc) *douban.Paginator {
	return douban.NewPaginator(s.fetcher, douban.PaginatorConfig{
		Category:   category,
		BaseURL:    baseURL,
		Kind:       kind,
		Classify:   classify,
		PageSize:   s.opts.PageSize,
		MaxPages:   s.opts.MaxPages,
		Delay:      s.opts.Delay,
		OnProgress: onProgress,
	})
}

// Run fetches, parses and aggregates one user's collections. Each
// vertical accumulates independently; one vertical failing only
// truncates its own results. Returns ErrNoCollections when every
// vertical came back empty.
func (s Service) Run(ctx context.Context, username string, onProgress douban.ProgressFunc) (Report, error) {
	ctx, span := tracer.Start(ctx, "service:Run")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	var (
		screen  douban.CategoryResult
		book    douban.CategoryResult
		music   douban.CategoryResult
		profile douban.Profile
	)

	// no shared mutable state between the units, the WaitGroup is the
	// only join point
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		screen = s.paginator("movie", s.opts.Origins.Movie, douban.KindMovie, ClassifyScreen, onProgress).
			Collect(ctx, username)
	}()
	go func() {
		defer wg.Done()
		book = s.paginator("book", s.opts.Origins.Book, douban.KindBook, nil, onProgress).
			Collect(ctx, username)
	}()
	go func() {
		defer wg.Done()
		music = s.paginator("music", s.opts.Origins.Music, douban.KindMusic, nil, onProgress).
			Collect(ctx, username)
	}()
	go func() {
		defer wg.Done()
		var err error
		profile, err = douban.FetchProfile(ctx, s.fetcher, s.opts.Origins.Www, username)
		if err != nil {
			slog.WarnContext(ctx, "profile fetch failed", "username", username, "err", err)
		}
	}()
	wg.Wait()

	if len(screen.Items)+len(book.Items)+len(music.Items) == 0 {
		return Report{}, ErrNoCollections
	}

	movies, serials := splitScreen(screen.Items)

	itemsByKind := map[douban.Kind][]douban.Item{
		douban.KindMovie:  movies,
		douban.KindSerial: serials,
		douban.KindBook:   book.Items,
		douban.KindMusic:  music.Items,
	}

	// the origin only reports one combined count for the screen
	// vertical; the split below approximates per-kind totals from the
	// fetched (possibly page-capped) sample and can mis-state either
	// side when the true collection exceeds the page cap
	movieTotal := 0
	if screen.TotalCount > 0 {
		movieTotal = screen.TotalCount - len(serials)
		if movieTotal < 0 {
			movieTotal = 0
		}
	}

	report := Report{
		YearData: yearTimeline(itemsByKind),
		Summary: map[douban.Kind]CategorySummary{
			douban.KindMovie:  computeStats(movies, movieTotal),
			douban.KindSerial: computeStats(serials, 0),
			douban.KindBook:   computeStats(book.Items, book.TotalCount),
			douban.KindMusic:  computeStats(music.Items, music.TotalCount),
		},
		Profile:   profile,
		HighRated: highRated(itemsByKind),
	}

	span.SetAttributes(
		attribute.Int("movies", len(movies)),
		attribute.Int("serials", len(serials)),
		attribute.Int("books", len(book.Items)),
		attribute.Int("music", len(music.Items)),
	)
	return report, nil
}

func splitScreen(items []douban.Item) (movies, serials []douban.Item) {
	for _, item := range items {
		if item.Kind == douban.KindSerial {
			serials = append(serials, item)
		} else {
			movies = append(movies, item)
		}
	}
	return movies, serials
}
