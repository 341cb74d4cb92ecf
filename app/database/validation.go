package database

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
)

var ErrInvalidEpisode = errors.New("invalid episode")

var validate = validator.New()

func (in EpisodeInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEpisode, err)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Link) == "" {
		return fmt.Errorf("%w: title and link must not be blank", ErrInvalidEpisode)
	}
	if in.PubDate.IsZero() {
		return fmt.Errorf("%w: pubDate is required", ErrInvalidEpisode)
	}
	return nil
}

func (in UserInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	return nil
}

// matcher does case-insensitive substring matching against title and description.
// A Caser keeps state, so each matcher owns one.
type matcher struct {
	fold cases.Caser
	term string
}

func newMatcher(term string) *matcher {
	fold := cases.Fold()
	return &matcher{fold: fold, term: fold.String(term)}
}

func (m *matcher) match(e Episode) bool {
	if strings.Contains(m.fold.String(e.Title), m.term) {
		return true
	}
	return e.Description != nil && strings.Contains(m.fold.String(*e.Description), m.term)
}

func sortByPubDateDesc(episodes []Episode) {
	slices.SortFunc(episodes, func(a, b Episode) int {
		return b.PubDate.Compare(a.PubDate)
	})
}

// mergeEpisode applies an upsert over an existing row. The row keeps its id
// and createdAt; every other field takes the incoming value, nil included.
func mergeEpisode(existing Episode, in EpisodeInput) Episode {
	merged := existing
	merged.Title = in.Title
	merged.Description = in.Description
	merged.Link = in.Link
	merged.PubDate = in.PubDate
	merged.EpisodeType = in.EpisodeType
	merged.EpisodeNumber = in.EpisodeNumber
	merged.Duration = in.Duration
	merged.EnclosureURL = in.EnclosureURL
	merged.IsExplicit = in.IsExplicit
	merged.Source = in.Source

	return merged
}
