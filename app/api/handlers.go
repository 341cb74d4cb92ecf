package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/episode-timeline/app/database"
	"github.com/lysyi3m/episode-timeline/app/ingest"
)

func NewHandler(episodeRepo database.EpisodeRepository, ingester IngesterInterface,
	generator GeneratorInterface, sources SourceCounter, version string) *Handler {
	return &Handler{
		episodeRepo: episodeRepo,
		ingester:    ingester,
		generator:   generator,
		sources:     sources,
		version:     version,
	}
}

// GetEpisodes serves GET /api/episodes?type=&search=&refresh=.
// A failed refresh is logged and the stored episodes are still returned.
func (h *Handler) GetEpisodes(c *gin.Context) {
	query := database.Query{
		Search: strings.TrimSpace(c.Query("search")),
	}

	if typeParam := c.Query("type"); typeParam != "" && typeParam != "all" {
		episodeType := database.EpisodeType(typeParam)
		if !episodeType.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse{
				Message: fmt.Sprintf("Unknown episode type '%s'", typeParam),
			})
			return
		}
		query.Type = episodeType
	}

	if c.Query("refresh") == "true" {
		result, err := h.ingester.Run(c.Request.Context(), ingest.ModeIncremental)
		if err != nil {
			slog.Error("Refresh failed, serving stored episodes", "feeds", result.Summary(), "error", err)
		}
	}

	episodes, err := h.episodeRepo.Find(query)
	if err != nil {
		slog.Error("Database error", "operation", "find_episodes", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "Failed to fetch episodes"})
		return
	}

	c.JSON(http.StatusOK, episodes)
}

// RefreshEpisodes serves POST /api/episodes/refresh: a full re-ingestion that
// replaces the stored episodes.
func (h *Handler) RefreshEpisodes(c *gin.Context) {
	result, err := h.ingester.Run(c.Request.Context(), ingest.ModeFull)
	if err != nil {
		slog.Error("Error refreshing episodes", "feeds", result.Summary(), "error", err)

		c.JSON(http.StatusInternalServerError, errorResponse{Message: "Failed to refresh episodes", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, refreshResponse{
		Message:  fmt.Sprintf("Successfully refreshed %d episodes", len(result.Saved)),
		Episodes: result.Saved,
		Feeds:    result.Summary(),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	episodes, err := h.episodeRepo.GetAll()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_episodes", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(episodes)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(episodes)))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"sources":   h.sources.GetSourceCount(),
	}

	if episodeCount, err := h.episodeRepo.GetEpisodeCount(); err == nil {
		health["episodes"] = episodeCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed"})
}
