package feed

import (
	"regexp"
	"strings"

	"github.com/lysyi3m/episode-timeline/app/database"
)

// Matches a numbered main episode title such as "Show Name [42]".
var bracketedNumber = regexp.MustCompile(`\[(\d+)\]\s*$`)

type keywordRule struct {
	keyword     string
	episodeType database.EpisodeType
}

// Evaluated in order after the bracketed-number check; first match wins.
var keywordRules = []keywordRule{
	{keyword: "draft", episodeType: database.EpisodeTypeDraft},
	{keyword: "watchalong", episodeType: database.EpisodeTypeWatchalong},
	{keyword: "sausage talk", episodeType: database.EpisodeTypeSausageTalk},
	{keyword: "blindside", episodeType: database.EpisodeTypeBlindside},
}

type Categorizer struct{}

func NewCategorizer() *Categorizer {
	return &Categorizer{}
}

func (c *Categorizer) Run(title string) database.EpisodeType {
	if bracketedNumber.MatchString(title) {
		return database.EpisodeTypePodcast
	}

	lowerTitle := strings.ToLower(title)
	for _, rule := range keywordRules {
		if strings.Contains(lowerTitle, rule.keyword) {
			return rule.episodeType
		}
	}

	return database.EpisodeTypeBonus
}

// TitleEpisodeNumber returns the number from a trailing "[N]" suffix.
func TitleEpisodeNumber(title string) (string, bool) {
	match := bracketedNumber.FindStringSubmatch(title)
	if match == nil {
		return "", false
	}
	return match[1], true
}
