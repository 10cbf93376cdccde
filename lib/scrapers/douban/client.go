package douban

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"shelfstats-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("shelfstats.scrapers.douban")

// Fetcher retrieves one HTML document for a given absolute URL.
// Implemented by Client; tests substitute their own.
type Fetcher interface {
	Document(ctx context.Context, link string) (*goquery.Document, error)
}

type Client struct {
	Http *resty.Client
}

type ClientOptions struct {
	// Referer sent with every request, the origin rejects bare clients.
	Referer string
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept-language", "zh-CN,zh;q=0.9,en;q=0.8")
	if opts.Referer != "" {
		client.SetHeader("referer", opts.Referer)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	// the origin tracks an 11-char session cookie, anonymous requests
	// without one get challenged much sooner
	bid, err := random.String(11)
	if err != nil {
		return nil, err
	}
	client.SetCookie(&http.Cookie{Name: "bid", Value: bid, Domain: ".douban.com", Path: "/"})

	telemetry.InstrumentResty(client, "scrapers/douban/http")

	return &Client{Http: client}, nil
}

// Document fetches a page and parses it. A transport error or non-2xx
// status is returned as an error the caller is expected to treat as
// "no more data", not as a fatal condition.
func (c *Client) Document(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: %s", link, res.Status())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}
