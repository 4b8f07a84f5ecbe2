// Package scraper recovers a menudoc.Document from the residential
// dining menu page. The page is an accordion of "card-wrap" blocks whose
// structure is encoded purely through sibling-tag sequencing, so the
// extraction is a classifier over blocks plus a small state machine over
// flattened inline nodes.
package scraper

import (
	"bytes"
	"context"
	"time"

	"beachdining-backend/lib/telemetry"
	"beachdining-backend/services/dining/menudoc"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/dining/scraper")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Client struct {
	http    *resty.Client
	pageUrl string
}

type ClientOptions struct {
	PageUrl string
	// defaults to 30s
	Timeout time.Duration
}

func NewClient(opts ClientOptions) Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("user-agent", userAgent)

	telemetry.InstrumentResty(client, "dining/scraper/http")

	return Client{
		http:    client,
		pageUrl: opts.PageUrl,
	}
}

func (c Client) FetchPage(ctx context.Context) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "FetchPage")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch menu page")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse menu page html")
		return nil, err
	}

	return doc, nil
}

// Scrape fetches the page and extracts the full schedule document.
func (c Client) Scrape(ctx context.Context) (menudoc.Document, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	page, err := c.FetchPage(ctx)
	if err != nil {
		return menudoc.Document{}, err
	}
	return ExtractDocument(ctx, page), nil
}
