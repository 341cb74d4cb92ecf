package database

import (
	"time"
)

type EpisodeType string

const (
	EpisodeTypePodcast     EpisodeType = "podcast"
	EpisodeTypeDraft       EpisodeType = "draft"
	EpisodeTypeWatchalong  EpisodeType = "watchalong"
	EpisodeTypeSausageTalk EpisodeType = "sausage-talk"
	EpisodeTypeBlindside   EpisodeType = "blindside"
	EpisodeTypeBonus       EpisodeType = "bonus"
)

var EpisodeTypes = []EpisodeType{
	EpisodeTypePodcast,
	EpisodeTypeDraft,
	EpisodeTypeWatchalong,
	EpisodeTypeSausageTalk,
	EpisodeTypeBlindside,
	EpisodeTypeBonus,
}

func (t EpisodeType) Valid() bool {
	for _, known := range EpisodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Episode struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   *string     `json:"description"`
	Link          string      `json:"link"`
	PubDate       time.Time   `json:"pubDate"`
	EpisodeType   EpisodeType `json:"episodeType"`
	EpisodeNumber *string     `json:"episodeNumber"`
	Duration      *string     `json:"duration"`
	EnclosureURL  *string     `json:"enclosureUrl"`
	IsExplicit    bool        `json:"isExplicit"`
	CreatedAt     time.Time   `json:"createdAt"`
	Source        string      `json:"source"` // Feed source name, e.g. "regulation" or "fface"
}

// EpisodeInput is the only shape accepted by Create and Upsert.
// It is validated before anything is written.
type EpisodeInput struct {
	Title         string `validate:"required"`
	Description   *string
	Link          string `validate:"required"`
	PubDate       time.Time
	EpisodeType   EpisodeType `validate:"required,oneof=podcast draft watchalong sausage-talk blindside bonus"`
	EpisodeNumber *string
	Duration      *string
	EnclosureURL  *string
	IsExplicit    bool
	Source        string `validate:"required"`
}

// Query filters a listing. Empty fields do not filter; Type and Search combine as AND.
type Query struct {
	Type   EpisodeType
	Search string
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

type UserInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}
