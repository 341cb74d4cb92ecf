package feed

import (
	"cmp"
	"fmt"
	"time"

	"github.com/eduncan911/podcast"

	"github.com/lysyi3m/episode-timeline/app/database"
)

const (
	feedTitle       = "The Regulation Podcast Timeline"
	feedDescription = "Every episode of The Regulation Podcast and its spin-offs, merged into one timeline."
)

type Generator struct {
	baseURL string
	version string
}

func NewGenerator(baseURL, version string) *Generator {
	return &Generator{
		baseURL: baseURL,
		version: version,
	}
}

// Run renders the episodes, expected newest first, as a podcast RSS document.
func (g *Generator) Run(episodes []database.Episode) ([]byte, error) {
	now := time.Now().UTC()
	lastBuildDate := now
	if len(episodes) > 0 {
		lastBuildDate = cmp.Or(episodes[0].PubDate, episodes[0].CreatedAt, now)
	}

	p := podcast.New(feedTitle, g.baseURL, feedDescription, &lastBuildDate, &now)
	p.Generator = fmt.Sprintf("Episode-Timeline/%s", g.version)
	p.Language = "en-us"
	p.AddSummary(feedDescription)

	for _, episode := range episodes {
		item := podcast.Item{
			GUID:        episode.ID,
			Title:       episode.Title,
			Link:        episode.Link,
			Description: "No description available",
		}

		if episode.Description != nil && *episode.Description != "" {
			item.Description = *episode.Description
		}

		pubDate := episode.PubDate
		item.AddPubDate(&pubDate)

		if episode.Duration != nil {
			item.IDuration = *episode.Duration
		}

		if episode.EnclosureURL != nil {
			item.AddEnclosure(*episode.EnclosureURL, podcast.MP3, 0)
		}

		if episode.IsExplicit {
			item.IExplicit = "yes"
		} else {
			item.IExplicit = "no"
		}

		if _, err := p.AddItem(item); err != nil {
			return nil, fmt.Errorf("failed to add episode %s to feed: %w", episode.ID, err)
		}
	}

	return p.Bytes(), nil
}
