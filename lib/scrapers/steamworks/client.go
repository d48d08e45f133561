package steamworks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"steamdoc/lib/restyutil"
	"steamdoc/lib/telemetry"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://partner.steamgames.com/doc/webapi"

const defaultTimeout = time.Second * 30

type ClientOptions struct {
	// BaseUrl is the documentation landing page, section pages live
	// at BaseUrl/<section>. Defaults to DefaultBaseUrl.
	BaseUrl string
	// Defaults to 30 seconds.
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
	// Transcripts receives a dump of every request when set.
	Transcripts restyutil.InstrumentOutput

	// MarkdownDescriptions is copied to every Page the client parses.
	MarkdownDescriptions bool
}

type Client struct {
	BaseUrl string
	Http    *resty.Client

	markdownDescriptions bool
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: must be absolute", baseUrl)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New()
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}
	client.SetRedirectPolicy(resty.NoRedirectPolicy())
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "steamdoc.steamworks.http")
	restyutil.InstrumentClient(client, opts.Transcripts)

	return &Client{
		BaseUrl:              strings.TrimRight(baseUrl, "/"),
		Http:                 client,
		markdownDescriptions: opts.MarkdownDescriptions,
	}, nil
}

func (c *Client) SectionUrl(section string) string {
	return c.BaseUrl + "/" + section
}

// GetHtml fetches a page without following redirects and returns its body
// with surrounding whitespace trimmed.
func (c *Client) GetHtml(ctx context.Context, link string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:GetHtml")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	slog.DebugContext(ctx, "fetching page", "url", link)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", &FetchError{Url: link, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected status")
		return "", &FetchError{Url: link, Status: res.StatusCode()}
	}

	return strings.TrimSpace(res.String()), nil
}

// Sections lists the section identifiers on the landing page.
func (c *Client) Sections(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:Sections")
	defer span.End()

	body, err := c.GetHtml(ctx, c.BaseUrl)
	if err != nil {
		return nil, err
	}
	sections, err := ParseSections(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse index")
		return nil, err
	}
	return sections, nil
}

// Section fetches and parses a single section page.
func (c *Client) Section(ctx context.Context, section string) (*Page, error) {
	ctx, span := tracer.Start(ctx, "client:Section")
	defer span.End()
	span.SetAttributes(attribute.String("section", section))

	body, err := c.GetHtml(ctx, c.SectionUrl(section))
	if err != nil {
		return nil, err
	}
	page, err := ParsePage(section, body)
	if err != nil {
		return nil, err
	}
	page.MarkdownDescriptions = c.markdownDescriptions
	return page, nil
}

func (c *Client) PointNames(ctx context.Context, section string) ([]string, error) {
	page, err := c.Section(ctx, section)
	if err != nil {
		return nil, err
	}
	return page.PointNames(), nil
}

func (c *Client) Points(ctx context.Context, section string) ([]Endpoint, error) {
	page, err := c.Section(ctx, section)
	if err != nil {
		return nil, err
	}
	return page.Points()
}

// Point returns the endpoint whose heading is exactly name, the boolean
// is false if the section has no such heading.
func (c *Client) Point(ctx context.Context, section, name string) (Endpoint, bool, error) {
	page, err := c.Section(ctx, section)
	if err != nil {
		return Endpoint{}, false, err
	}
	return page.Point(name)
}
