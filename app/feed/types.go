package feed

import (
	"time"

	"github.com/lysyi3m/episode-timeline/app/database"
)

// Item is one episode pulled out of a feed document, already categorized.
type Item struct {
	Title         string
	Description   *string
	Link          string
	PubDate       time.Time
	EpisodeType   database.EpisodeType
	EpisodeNumber *string
	Duration      *string
	EnclosureURL  *string
	IsExplicit    bool
	Source        string // Name of the Source the item was fetched from
}

func (i Item) ToInput() database.EpisodeInput {
	return database.EpisodeInput{
		Title:         i.Title,
		Description:   i.Description,
		Link:          i.Link,
		PubDate:       i.PubDate,
		EpisodeType:   i.EpisodeType,
		EpisodeNumber: i.EpisodeNumber,
		Duration:      i.Duration,
		EnclosureURL:  i.EnclosureURL,
		IsExplicit:    i.IsExplicit,
		Source:        i.Source,
	}
}

// Configuration types

type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}
