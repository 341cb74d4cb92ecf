package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lysyi3m/episode-timeline/app/database"
)

func TestCategorizerRun(t *testing.T) {
	categorizer := NewCategorizer()

	tests := []struct {
		title string
		want  database.EpisodeType
	}{
		{"The Regulation Podcast [245]", database.EpisodeTypePodcast},
		{"Show [12]  ", database.EpisodeTypePodcast},
		{"Fantasy Draft Special [300]", database.EpisodeTypePodcast},
		{"Movie Draft: Heist Films", database.EpisodeTypeDraft},
		{"DRAFT of the century", database.EpisodeTypeDraft},
		{"Watchalong: Die Hard", database.EpisodeTypeWatchalong},
		{"Sausage Talk #14", database.EpisodeTypeSausageTalk},
		{"The Blindside Returns", database.EpisodeTypeBlindside},
		{"Draft Watchalong", database.EpisodeTypeDraft},
		{"Watchalong: The Blindside", database.EpisodeTypeWatchalong},
		{"Sausagetalk", database.EpisodeTypeBonus},
		{"Bracket [12] in the middle", database.EpisodeTypeBonus},
		{"Episode [twelve]", database.EpisodeTypeBonus},
		{"Live Q&A", database.EpisodeTypeBonus},
		{"", database.EpisodeTypeBonus},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, categorizer.Run(tt.title))
		})
	}
}

func TestTitleEpisodeNumber(t *testing.T) {
	number, ok := TitleEpisodeNumber("The Regulation Podcast [245]")
	assert.True(t, ok)
	assert.Equal(t, "245", number)

	number, ok = TitleEpisodeNumber("Show [7] ")
	assert.True(t, ok)
	assert.Equal(t, "7", number)

	_, ok = TitleEpisodeNumber("Watchalong: Die Hard")
	assert.False(t, ok)
}
