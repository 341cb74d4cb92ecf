package database

import (
	"fmt"
	"time"
)

func SampleEpisodes() []EpisodeInput {
	first := "This is a test episode to verify the API is working"
	second := "Another test episode"
	one, two := "1", "2"

	return []EpisodeInput{
		{
			Title:         "Test Episode 1",
			Description:   &first,
			Link:          "https://example.com/test-1",
			PubDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			EpisodeType:   EpisodeTypePodcast,
			EpisodeNumber: &one,
			Source:        "sample",
		},
		{
			Title:         "Test Episode 2",
			Description:   &second,
			Link:          "https://example.com/test-2",
			PubDate:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			EpisodeType:   EpisodeTypeDraft,
			EpisodeNumber: &two,
			Source:        "sample",
		},
	}
}

// Seed upserts the sample rows, so seeding twice leaves two rows.
func Seed(repo EpisodeRepository) error {
	for _, input := range SampleEpisodes() {
		if _, err := repo.Upsert(input); err != nil {
			return fmt.Errorf("failed to seed %q: %w", input.Title, err)
		}
	}
	return nil
}
