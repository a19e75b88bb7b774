package discovery

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/hoanghai1803/llmchecker/internal/models"
	"github.com/mmcdole/gofeed"
)

// Compile-time interface check.
var _ Provider = (*Feed)(nil)

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// Feed reads model announcements from an RSS or Atom feed. Each item names a
// model either in its title ("provider/name") or in its link path
// (".../provider/name"); item categories become tags.
type Feed struct {
	url    string
	client *http.Client
}

// NewFeed creates a Feed provider for the given feed URL.
func NewFeed(feedURL string) *Feed {
	return &Feed{
		url: feedURL,
		client: &http.Client{
			Timeout: httpTimeout,
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		},
	}
}

// Name implements Provider.
func (f *Feed) Name() string {
	return "announcement feed"
}

// Discover fetches and parses the feed.
func (f *Feed) Discover(ctx context.Context) ([]models.Candidate, error) {
	if f.url == "" {
		return nil, fmt.Errorf("no feed URL configured")
	}

	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", f.url, err)
	}

	return parseFeedItems(feed), nil
}

// parseFeedItems converts gofeed items into candidates. Items that name no
// model are skipped.
func parseFeedItems(feed *gofeed.Feed) []models.Candidate {
	candidates := []models.Candidate{}
	for _, item := range feed.Items {
		id := modelIDFromItem(item)
		if id == "" {
			continue
		}

		desc := stripHTML(item.Description)
		if strings.TrimSpace(desc) == "" && item.Content != "" {
			desc = readableText(item.Content, item.Link)
		}

		var createdAt string
		switch {
		case item.PublishedParsed != nil:
			createdAt = item.PublishedParsed.UTC().Format(time.RFC3339)
		case item.UpdatedParsed != nil:
			createdAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
		}

		candidates = append(candidates, models.Candidate{
			ModelID:     id,
			Tags:        item.Categories,
			Description: strings.TrimSpace(desc),
			CreatedAt:   createdAt,
		})
	}
	return candidates
}

// modelIDFromItem prefers a "provider/name" title and falls back to the last
// two segments of the item link.
func modelIDFromItem(item *gofeed.Item) string {
	title := strings.TrimSpace(item.Title)
	if strings.Count(title, "/") == 1 && !strings.ContainsAny(title, " \t") {
		return title
	}

	if item.Link != "" {
		if u, err := url.Parse(item.Link); err == nil {
			segs := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(segs) >= 2 && segs[len(segs)-2] != "" && segs[len(segs)-1] != "" {
				return segs[len(segs)-2] + "/" + segs[len(segs)-1]
			}
		}
	}

	return title
}

// readableText reduces an HTML fragment to its main text using
// go-readability. On failure it falls back to tag stripping.
func readableText(content, link string) string {
	pageURL, err := url.Parse(link)
	if err != nil || link == "" {
		pageURL = &url.URL{Scheme: "https", Host: "localhost"}
	}

	article, err := readability.FromReader(strings.NewReader(content), pageURL)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return stripHTML(content)
	}
	return strings.Join(strings.Fields(article.TextContent), " ")
}

// stripHTML removes HTML tags from s and unescapes HTML entities.
func stripHTML(s string) string {
	clean := htmlTagPattern.ReplaceAllString(s, "")
	return html.UnescapeString(clean)
}
