package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/episode-timeline/app/database"
	"github.com/lysyi3m/episode-timeline/app/feed"
)

type staticSources []feed.Source

func (s staticSources) GetSources() []feed.Source {
	return s
}

type testItem struct {
	title       string
	link        string
	description string
	pubDate     string
}

func rssDocument(items ...testItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test</title>`)
	for _, item := range items {
		b.WriteString("<item>")
		fmt.Fprintf(&b, "<title>%s</title><link>%s</link><pubDate>%s</pubDate>", item.title, item.link, item.pubDate)
		if item.description != "" {
			fmt.Fprintf(&b, "<description>%s</description>", item.description)
		}
		b.WriteString("</item>")
	}
	b.WriteString("</channel></rss>")
	return b.String()
}

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestIngester(store database.EpisodeRepository, sources ...feed.Source) *Ingester {
	return NewIngester(
		staticSources(sources),
		feed.NewFetcher(http.DefaultClient, "Episode-Timeline/test", 5*time.Second),
		feed.NewExtractor(feed.NewCategorizer()),
		feed.NewDeduplicator(),
		store,
	)
}

func TestIngesterRunDeduplicatesAcrossFeeds(t *testing.T) {
	patreon := feedServer(t, http.StatusOK, rssDocument(
		testItem{"Show [12]", "https://patreon.example/12", "short", "Mon, 03 Jul 2023 10:00:00 GMT"},
		testItem{"Movie Draft: Heists", "https://patreon.example/draft", "", "Sun, 02 Jul 2023 10:00:00 GMT"},
	))
	megaphone := feedServer(t, http.StatusOK, rssDocument(
		testItem{"show [12]  ", "https://megaphone.example/12", "a much longer description", "Mon, 03 Jul 2023 10:00:00 GMT"},
	))

	store := database.NewMemoryStore()
	ingester := newTestIngester(store,
		feed.Source{Name: "regulation", URL: patreon.URL},
		feed.Source{Name: "fface", URL: megaphone.URL},
	)

	result, err := ingester.Run(context.Background(), ModeFull)
	require.NoError(t, err)
	assert.Equal(t, "2 from regulation, 1 from fface", result.Summary())
	assert.Equal(t, 2, result.Unique)
	assert.Len(t, result.Saved, 2)
	assert.Zero(t, result.Skipped)

	episodes, err := store.GetByType(database.EpisodeTypePodcast)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	require.NotNil(t, episodes[0].Description)
	assert.Equal(t, "a much longer description", *episodes[0].Description)
	assert.Equal(t, "https://megaphone.example/12", episodes[0].Link)
	assert.Equal(t, "fface", episodes[0].Source)

	drafts, err := store.GetByType(database.EpisodeTypeDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "regulation", drafts[0].Source)
}

func TestIngesterRunPartialFailure(t *testing.T) {
	broken := feedServer(t, http.StatusInternalServerError, "boom")
	megaphone := feedServer(t, http.StatusOK, rssDocument(
		testItem{"Watchalong: Die Hard", "https://megaphone.example/die-hard", "", "Mon, 03 Jul 2023 10:00:00 GMT"},
	))

	store := database.NewMemoryStore()
	ingester := newTestIngester(store,
		feed.Source{Name: "regulation", URL: broken.URL},
		feed.Source{Name: "fface", URL: megaphone.URL},
	)

	result, err := ingester.Run(context.Background(), ModeFull)
	require.NoError(t, err)
	assert.Equal(t, "regulation failed, 1 from fface", result.Summary())
	assert.Equal(t, []string{"regulation"}, result.FailedSources())
	assert.ErrorIs(t, result.Feeds[0].Err, feed.ErrUnexpectedStatus)

	count, err := store.GetEpisodeCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngesterRunAllFailedKeepsStore(t *testing.T) {
	broken := feedServer(t, http.StatusBadGateway, "")
	garbage := feedServer(t, http.StatusOK, "not a feed")

	store := database.NewMemoryStore()
	require.NoError(t, database.Seed(store))

	ingester := newTestIngester(store,
		feed.Source{Name: "regulation", URL: broken.URL},
		feed.Source{Name: "fface", URL: garbage.URL},
	)

	result, err := ingester.Run(context.Background(), ModeFull)
	assert.ErrorIs(t, err, ErrAllSourcesFailed)
	assert.True(t, result.AllFailed())
	assert.Equal(t, "regulation failed, fface failed", result.Summary())

	count, err := store.GetEpisodeCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngesterRunFullReplacesStore(t *testing.T) {
	megaphone := feedServer(t, http.StatusOK, rssDocument(
		testItem{"Show [1]", "https://megaphone.example/1", "", "Mon, 03 Jul 2023 10:00:00 GMT"},
	))

	store := database.NewMemoryStore()
	require.NoError(t, database.Seed(store))

	ingester := newTestIngester(store, feed.Source{Name: "fface", URL: megaphone.URL})

	_, err := ingester.Run(context.Background(), ModeFull)
	require.NoError(t, err)

	episodes, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "Show [1]", episodes[0].Title)
}

func TestIngesterRunIncrementalIsIdempotent(t *testing.T) {
	megaphone := feedServer(t, http.StatusOK, rssDocument(
		testItem{"Show [1]", "https://megaphone.example/1", "first", "Mon, 03 Jul 2023 10:00:00 GMT"},
		testItem{"Show [2]", "https://megaphone.example/2", "second", "Mon, 10 Jul 2023 10:00:00 GMT"},
	))

	store := database.NewMemoryStore()
	require.NoError(t, database.Seed(store))

	ingester := newTestIngester(store, feed.Source{Name: "fface", URL: megaphone.URL})

	first, err := ingester.Run(context.Background(), ModeIncremental)
	require.NoError(t, err)
	second, err := ingester.Run(context.Background(), ModeIncremental)
	require.NoError(t, err)

	assert.Equal(t, first.Saved[0].ID, second.Saved[0].ID)

	count, err := store.GetEpisodeCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestIngesterRunCanceled(t *testing.T) {
	megaphone := feedServer(t, http.StatusOK, rssDocument())

	ingester := newTestIngester(database.NewMemoryStore(), feed.Source{Name: "fface", URL: megaphone.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ingester.Run(ctx, ModeIncremental)
	assert.ErrorIs(t, err, context.Canceled)
}
