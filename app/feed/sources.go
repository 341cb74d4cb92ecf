package feed

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	PatreonSourceName   = "regulation"
	MegaphoneSourceName = "fface"

	patreonFeedURL   = "https://www.patreon.com/rss/TheRegulationPod?show=868416"
	megaphoneFeedURL = "https://feeds.megaphone.fm/fface"
)

// DefaultSources returns the two built-in feeds. patreonAuth is sent as the
// auth query parameter of the Patreon feed when set.
func DefaultSources(patreonAuth string) []Source {
	patreonURL := patreonFeedURL
	if patreonAuth != "" {
		u, err := url.Parse(patreonFeedURL)
		if err == nil {
			q := u.Query()
			q.Set("auth", patreonAuth)
			u.RawQuery = q.Encode()
			patreonURL = u.String()
		}
	}

	return []Source{
		{Name: PatreonSourceName, URL: patreonURL},
		{Name: MegaphoneSourceName, URL: megaphoneFeedURL},
	}
}

type SourceCache struct {
	sourcesFile string
	patreonAuth string
	sources     []Source
	mu          sync.RWMutex
}

func NewSourceCache(sourcesFile, patreonAuth string) *SourceCache {
	return &SourceCache{
		sourcesFile: sourcesFile,
		patreonAuth: patreonAuth,
	}
}

// Run (re)loads the source list. Without a sources file the built-in
// defaults are used.
func (sc *SourceCache) Run() error {
	sources := DefaultSources(sc.patreonAuth)

	if sc.sourcesFile != "" {
		loaded, err := sc.parseSources(sc.sourcesFile)
		if err != nil {
			return err
		}
		if err := validateSources(loaded); err != nil {
			return fmt.Errorf("invalid sources file %s: %w", sc.sourcesFile, err)
		}
		sources = loaded
	}

	sc.mu.Lock()
	sc.sources = sources
	sc.mu.Unlock()

	for _, source := range sources {
		slog.Debug("Source loaded", "source", source.Name)
	}

	return nil
}

func (sc *SourceCache) GetSources() []Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sourcesCopy := make([]Source, len(sc.sources))
	copy(sourcesCopy, sc.sources)
	return sourcesCopy
}

func (sc *SourceCache) GetSourceCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.sources)
}

// parseSources reads the YAML file. ${VAR} references in URLs are expanded
// from the environment so tokens can stay out of the file.
func (sc *SourceCache) parseSources(sourcesFile string) ([]Source, error) {
	data, err := os.ReadFile(sourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var sourcesConfig SourcesConfig
	if err := yaml.Unmarshal(data, &sourcesConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range sourcesConfig.Sources {
		sourcesConfig.Sources[i].Name = strings.TrimSpace(sourcesConfig.Sources[i].Name)
		sourcesConfig.Sources[i].URL = os.ExpandEnv(strings.TrimSpace(sourcesConfig.Sources[i].URL))
	}

	return sourcesConfig.Sources, nil
}

func validateSources(sources []Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]bool, len(sources))
	for i, source := range sources {
		if source.Name == "" {
			return fmt.Errorf("source name is required at index %d", i)
		}
		if source.URL == "" {
			return fmt.Errorf("source URL is required for '%s'", source.Name)
		}
		u, err := url.Parse(source.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("source URL for '%s' must be an http(s) URL", source.Name)
		}
		if seen[source.Name] {
			return fmt.Errorf("duplicate source name '%s'", source.Name)
		}
		seen[source.Name] = true
	}

	return nil
}
