package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/litescript/tpb-search/internal/version"
)

const (
	DisplayName      = "The Pirate Bay"
	DefaultBaseURL   = "https://thepiratebay.org"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultTimeout   = 30 * time.Second

	// pageSize is the path segment after the page number in search URLs.
	pageSize = "99"
)

// ErrNoMagnet is returned by FetchMagnet when the detail page has no magnet link.
var ErrNoMagnet = errors.New("no magnet link found")

// Options configures a TPB plugin. Zero values select the defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
	Logger    *zerolog.Logger
}

// TPB searches The Pirate Bay. It holds no mutable state and is safe
// for concurrent use.
type TPB struct {
	baseURL   *url.URL
	userAgent string
	client    *http.Client
	log       zerolog.Logger
}

// NewTPB creates the plugin. An unparsable BaseURL falls back to DefaultBaseURL.
func NewTPB(opts Options) *TPB {
	s := &TPB{
		userAgent: opts.UserAgent,
		client:    opts.Client,
		log:       log.Logger,
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if opts.BaseURL == "" || err != nil || base.Scheme == "" || base.Host == "" {
		if opts.BaseURL != "" {
			s.log.Warn().Str("base_url", opts.BaseURL).Msg("invalid base URL, using default")
		}
		base, _ = url.Parse(DefaultBaseURL)
	}
	s.baseURL = base

	if s.userAgent == "" {
		s.userAgent = DefaultUserAgent
	}
	if s.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		s.client = &http.Client{Timeout: timeout}
	}
	return s
}

// Info returns the plugin metadata.
func (s *TPB) Info() Info {
	cats := make([]Category, len(Categories))
	copy(cats, Categories)
	return Info{
		DisplayName: DisplayName,
		Version:     version.Version,
		Categories:  cats,
	}
}

// SearchURL builds the results page URL for a query.
func (s *TPB) SearchURL(query, category string, page int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%s/search/%s/%d/%s/%s",
		s.baseURL.String(), url.QueryEscape(query), page, pageSize, ResolveCategory(category))
}

// Search fetches one results page and parses it. Failures are logged and
// yield an empty slice; the returned slice is never nil.
func (s *TPB) Search(ctx context.Context, query, category string, page int) []Result {
	searchURL := s.SearchURL(query, category, page)

	body, err := s.fetch(ctx, searchURL)
	if err != nil {
		s.log.Error().Err(err).Str("url", searchURL).Msg("search failed")
		return []Result{}
	}

	results := s.Parse(body)
	s.log.Debug().Str("url", searchURL).Int("results", len(results)).Msg("search done")
	return results
}

func (s *TPB) fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// Parse extracts results from a search results page. The first table row
// is treated as the header. Rows that cannot be parsed are skipped.
func (s *TPB) Parse(raw string) []Result {
	results := []Result{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		s.log.Error().Err(err).Msg("error parsing HTML")
		return results
	}

	// Bare <tr> markup outside a <table> is dropped by the HTML5 parser,
	// so reparse it in table context.
	if doc.Find("tr").Length() == 0 && strings.Contains(strings.ToLower(raw), "<tr") {
		frag, err := parseRowFragment(raw)
		if err != nil {
			s.log.Error().Err(err).Msg("error parsing HTML")
			return results
		}
		doc = frag
	}

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		r, err := s.ParseRow(row)
		if err != nil {
			s.log.Debug().Err(err).Int("row", i).Msg("skipping result row")
			return
		}
		results = append(results, r)
	})

	return results
}

func parseRowFragment(raw string) (*goquery.Document, error) {
	table := &html.Node{Type: html.ElementNode, Data: "table", DataAtom: atom.Table}
	tbody := &html.Node{Type: html.ElementNode, Data: "tbody", DataAtom: atom.Tbody}
	table.AppendChild(tbody)

	nodes, err := html.ParseFragment(strings.NewReader(raw), tbody)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		tbody.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(table), nil
}

// ParseRow converts one results table row. It returns ErrShortRow,
// ErrNoTitle or ErrBadLink when the row is not a result.
func (s *TPB) ParseRow(row *goquery.Selection) (Result, error) {
	cells := row.Find("td")
	if cells.Length() < 4 {
		return Result{}, ErrShortRow
	}

	titleCell := cells.Eq(1)
	link := titleCell.Find("a").First()
	if link.Length() == 0 {
		return Result{}, ErrNoTitle
	}

	href, _ := link.Attr("href")
	detailURL, err := s.resolve(href)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBadLink, err)
	}

	r := Result{
		Title:    strings.TrimSpace(link.Text()),
		URL:      detailURL,
		Seeds:    parseCount(cells.Eq(-2).Text()),
		Leechs:   parseCount(cells.Eq(-1).Text()),
		Size:     extractSize(titleCell.Find("font.detDesc").First().Text()),
		Category: CategoryOther,
	}

	if magnet, ok := row.Find("a[href^='magnet:']").First().Attr("href"); ok {
		r.MagnetLink = magnet
	}

	if catLink := cells.Eq(0).Find("a").First(); catLink.Length() > 0 {
		r.Category = InferCategory(strings.TrimSpace(catLink.Text()))
	}

	return r, nil
}

// FetchMagnet loads the detail page of r and fills MagnetLink from the
// first magnet anchor. It is a no-op when r already has a magnet link.
func (s *TPB) FetchMagnet(ctx context.Context, r *Result) error {
	if r.MagnetLink != "" {
		return nil
	}
	if r.URL == "" {
		return ErrNoMagnet
	}

	body, err := s.fetch(ctx, r.URL)
	if err != nil {
		return fmt.Errorf("fetch detail page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse detail page: %w", err)
	}

	magnet, ok := doc.Find("a[href^='magnet:']").First().Attr("href")
	if !ok {
		return ErrNoMagnet
	}
	r.MagnetLink = magnet
	return nil
}

func (s *TPB) resolve(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return s.baseURL.ResolveReference(ref).String(), nil
}

var digitsRegex = regexp.MustCompile(`^[0-9]+$`)

// parseCount reads a seed or leech cell. Anything but plain digits is 0.
func parseCount(text string) int {
	text = strings.TrimSpace(text)
	if !digitsRegex.MatchString(text) {
		return 0
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}

// The site separates number and unit with &nbsp;, which RE2's \s does not match.
var sizeRegex = regexp.MustCompile(`Size (\d+\.?\d*[\s\x{00a0}]*[KMGT]?iB)`)

func extractSize(desc string) string {
	m := sizeRegex.FindStringSubmatch(desc)
	if len(m) < 2 {
		return ""
	}
	return strings.ReplaceAll(m[1], "\u00a0", " ")
}
