package twitter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"campaignscraper/pkg/browser"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
)

// metricPattern matches human-readable engagement counts like "1.2K" or "5M".
var metricPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([KMB]?)`)

// titleLayouts are tried in order against the time element's title/tooltip
// when the datetime attribute is missing.
var titleLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	"3:04 PM · Jan 2, 2006",
}

// Parser turns captured post elements into PostRecords. Parsing is
// fail-soft: a malformed element is logged and skipped, never fatal.
type Parser struct {
	selectors browser.Selectors
	log       logger.Logger
}

// NewParser creates a parser using the given selector lists.
func NewParser(selectors browser.Selectors, log logger.Logger) *Parser {
	return &Parser{selectors: selectors, log: log}
}

// Parse extracts a PostRecord from one captured element. ok is false when
// the element has no usable post text. username scopes the permalink
// placeholder used when no status link resolves.
func (p *Parser) Parse(el browser.RawElement, username string) (*models.PostRecord, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(el.HTML))
	if err != nil {
		p.log.WithError(err).WithField("index", el.Index).Debug("unparseable element HTML")
		return nil, false
	}

	content := p.extractText(doc)
	if content == "" {
		return nil, false
	}

	publishedAt, parsed := p.extractTimestamp(doc)

	rec := &models.PostRecord{
		Content:     content,
		URL:         p.extractPermalink(doc, username),
		PublishedAt: publishedAt,
		Parsed:      parsed,
		MessageType: classifyMessage(content),
		Metrics:     p.extractMetrics(doc),
		Links:       p.extractLinks(doc),
		RawMeta: map[string]interface{}{
			"scraper":    "campaignscraper",
			"scraped_at": time.Now().UTC().Format(time.RFC3339),
		},
	}

	return rec, true
}

// extractText returns the post body via the first matching text selector.
func (p *Parser) extractText(doc *goquery.Document) string {
	for _, sel := range p.selectors.Text {
		node := doc.Find(sel).First()
		if node.Length() > 0 {
			if text := strings.TrimSpace(node.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// extractTimestamp reads the time element. The datetime attribute is
// authoritative; the title attribute is a fallback for older layouts.
// An unparseable timestamp yields the zero time with parsed=false so the
// caller decides what to substitute.
func (p *Parser) extractTimestamp(doc *goquery.Document) (time.Time, bool) {
	node := doc.Find("time").First()
	if node.Length() == 0 {
		return time.Time{}, false
	}

	if attr, ok := node.Attr("datetime"); ok && attr != "" {
		if t, err := time.Parse(time.RFC3339, attr); err == nil {
			return t, true
		}
	}

	if title, ok := node.Attr("title"); ok && title != "" {
		title = strings.TrimSpace(title)
		for _, layout := range titleLayouts {
			if t, err := time.Parse(layout, title); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// extractPermalink resolves the post URL from the time element's parent
// anchor, the layout's status link. When no status link resolves the URL
// falls back to a per-account placeholder so the field is always present.
func (p *Parser) extractPermalink(doc *goquery.Document, username string) string {
	href, ok := doc.Find("time").First().Parent().Attr("href")
	if !ok || href == "" {
		return fmt.Sprintf("https://x.com/%s/status/unknown", username)
	}
	if strings.HasPrefix(href, "/") {
		return "https://x.com" + href
	}
	return href
}

// extractMetrics reads engagement counters by metric name. Missing or
// unreadable counters stay zero.
func (p *Parser) extractMetrics(doc *goquery.Document) map[string]int {
	metrics := map[string]int{"likes": 0, "retweets": 0, "replies": 0}

	for name, sels := range p.selectors.Metrics {
		for _, sel := range sels {
			node := doc.Find(sel).First()
			if node.Length() > 0 {
				metrics[name] = ParseMetricCount(node.Text())
				break
			}
		}
	}

	return metrics
}

// extractLinks returns absolute hrefs in document order.
func (p *Parser) extractLinks(doc *goquery.Document) []string {
	var links []string
	for _, sel := range p.selectors.Links {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok && strings.HasPrefix(href, "http") {
				links = append(links, href)
			}
		})
		if len(links) > 0 {
			break
		}
	}
	return links
}

// ParseMetricCount parses counts like "1.2K", "5M" or "42". Anything that
// does not look like a count parses as zero.
func ParseMetricCount(text string) int {
	if text == "" {
		return 0
	}

	match := metricPattern.FindStringSubmatch(strings.ToUpper(text))
	if match == nil {
		return 0
	}

	number, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}

	switch match[2] {
	case "K":
		number *= 1_000
	case "M":
		number *= 1_000_000
	case "B":
		number *= 1_000_000_000
	}

	return int(number)
}

// classifyMessage infers the message type from the content shape.
func classifyMessage(content string) models.MessageType {
	switch {
	case strings.HasPrefix(content, "RT @"):
		return models.MessageTypeRetweet
	case strings.HasPrefix(content, "@"):
		return models.MessageTypeReply
	default:
		return models.MessageTypePost
	}
}
