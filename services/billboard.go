package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"hot100-lyrics/models"
)

const billboardURL = "https://www.billboard.com"

var errNoChartDate = errors.New("billboard: chart date not found on page")

// Billboard fetches one week of a chart from billboard.com.
type Billboard struct {
	BaseURL string

	chart  string
	client *http.Client
	log    zerolog.Logger
}

func NewBillboard(chart string, log zerolog.Logger) *Billboard {
	return &Billboard{
		BaseURL: billboardURL,
		chart:   chart,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// FetchWeek returns the chart for the week containing date. The snapshot's
// Date is the date billboard.com reports, not the one requested.
func (b *Billboard) FetchWeek(ctx context.Context, date time.Time) (models.ChartSnapshot, error) {
	pageURL := fmt.Sprintf("%s/charts/%s/%s/", b.BaseURL, b.chart, models.FormatDate(date))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.ChartSnapshot{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := b.client.Do(req)
	if err != nil {
		return models.ChartSnapshot{}, fmt.Errorf("billboard request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return models.ChartSnapshot{}, fmt.Errorf("billboard: HTTP %d for %s", resp.StatusCode, pageURL)
	}

	snap, err := parseChartPage(resp.Body)
	if err != nil {
		return models.ChartSnapshot{}, fmt.Errorf("billboard parse error: %w", err)
	}

	b.log.Debug().
		Str("requested", models.FormatDate(date)).
		Str("confirmed", models.FormatDate(snap.Date)).
		Int("entries", len(snap.Entries)).
		Msg("chart page parsed")

	return snap, nil
}

var canonicalDateRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})/?$`)

func parseChartPage(r io.Reader) (models.ChartSnapshot, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return models.ChartSnapshot{}, err
	}

	var (
		pickerDate    string
		canonicalDate string
		entries       []models.ChartEntry
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "ul" && hasClass(n, "o-chart-results-list-row"):
				if e, ok := parseChartRow(n); ok {
					entries = append(entries, e)
				}
				return
			case attr(n, "id") == "chart-date-picker" && pickerDate == "":
				pickerDate = attr(n, "data-date")
			case n.Data == "link" && attr(n, "rel") == "canonical":
				if m := canonicalDateRe.FindStringSubmatch(attr(n, "href")); m != nil {
					canonicalDate = m[1]
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	raw := pickerDate
	if raw == "" {
		raw = canonicalDate
	}
	if raw == "" {
		return models.ChartSnapshot{}, errNoChartDate
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return models.ChartSnapshot{}, fmt.Errorf("bad chart date %q: %w", raw, err)
	}

	return models.ChartSnapshot{Date: date, Entries: entries}, nil
}

// parseChartRow reads the title heading and the first label after it,
// which is the artist credit. Labels before the title hold rank numbers.
func parseChartRow(row *html.Node) (models.ChartEntry, bool) {
	var title, artist string
	seenTitle := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if artist != "" {
			return
		}
		if n.Type == html.ElementNode {
			if n.Data == "h3" && attr(n, "id") == "title-of-a-story" && !seenTitle {
				title = nodeText(n)
				seenTitle = true
				return
			}
			if seenTitle && n.Data == "span" && hasClass(n, "c-label") {
				artist = nodeText(n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(row)

	if title == "" {
		return models.ChartEntry{}, false
	}
	return models.ChartEntry{Title: title, Artist: artist}, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
