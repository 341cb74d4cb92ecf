package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Extractor struct {
	gofeedParser *gofeed.Parser
	categorizer  *Categorizer
}

func NewExtractor(categorizer *Categorizer) *Extractor {
	return &Extractor{
		gofeedParser: gofeed.NewParser(),
		categorizer:  categorizer,
	}
}

// Run parses an RSS document and returns its usable items in document order.
// Items without a title, link or parseable pubDate are skipped.
func (e *Extractor) Run(data []byte, source string) ([]Item, error) {
	parsed, err := e.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		if item == nil {
			continue
		}

		normalized, err := e.normalizeItem(item, source)
		if err != nil {
			slog.Warn("Skipping feed item", "source", source, "index", i, "title", item.Title, "error", err)
			continue
		}
		items = append(items, normalized)
	}

	return items, nil
}

func (e *Extractor) normalizeItem(item *gofeed.Item, source string) (Item, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return Item{}, fmt.Errorf("missing title")
	}

	link := strings.TrimSpace(item.Link)
	if link == "" {
		return Item{}, fmt.Errorf("missing link")
	}

	if item.PublishedParsed == nil {
		if item.Published == "" {
			return Item{}, fmt.Errorf("missing pubDate")
		}
		return Item{}, fmt.Errorf("unparseable pubDate %q", item.Published)
	}

	normalized := Item{
		Title:       title,
		Description: optionalText(item.Description),
		Link:        link,
		PubDate:     item.PublishedParsed.UTC(),
		EpisodeType: e.categorizer.Run(title),
		Source:      source,
	}

	if item.ITunesExt != nil {
		normalized.Duration = optionalText(item.ITunesExt.Duration)
		normalized.EpisodeNumber = optionalText(item.ITunesExt.Episode)
		normalized.IsExplicit = isExplicit(item.ITunesExt.Explicit)
	}

	if normalized.EpisodeNumber == nil {
		if number, ok := TitleEpisodeNumber(title); ok {
			normalized.EpisodeNumber = &number
		}
	}

	// RSS 2.0 allows one enclosure per item
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		normalized.EnclosureURL = optionalText(item.Enclosures[0].URL)
	}

	return normalized, nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isExplicit(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes":
		return true
	}
	return false
}
