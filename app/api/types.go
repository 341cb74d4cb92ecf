package api

import (
	"context"

	"github.com/lysyi3m/episode-timeline/app/database"
	"github.com/lysyi3m/episode-timeline/app/feed"
	"github.com/lysyi3m/episode-timeline/app/ingest"
)

type GeneratorInterface interface {
	Run(episodes []database.Episode) ([]byte, error)
}

type IngesterInterface interface {
	Run(ctx context.Context, mode ingest.Mode) (ingest.Result, error)
}

type SourceCounter interface {
	GetSourceCount() int
}

var (
	_ GeneratorInterface = (*feed.Generator)(nil)
	_ IngesterInterface  = (*ingest.Ingester)(nil)
	_ SourceCounter      = (*feed.SourceCache)(nil)
)

type Handler struct {
	episodeRepo database.EpisodeRepository
	ingester    IngesterInterface
	generator   GeneratorInterface
	sources     SourceCounter
	version     string
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type refreshResponse struct {
	Message  string             `json:"message"`
	Episodes []database.Episode `json:"episodes"`
	Feeds    string             `json:"feeds"`
}
