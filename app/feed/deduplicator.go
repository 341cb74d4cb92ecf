package feed

import (
	"strings"
	"unicode/utf8"
)

type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Run collapses items whose titles match after trimming and lowercasing.
// The survivor is the one with the longest description; on a tie the first
// seen wins. Survivors keep the position of the first item with their key.
func (d *Deduplicator) Run(items []Item) []Item {
	positions := make(map[string]int, len(items))
	result := make([]Item, 0, len(items))

	for _, item := range items {
		key := titleKey(item.Title)

		pos, seen := positions[key]
		if !seen {
			positions[key] = len(result)
			result = append(result, item)
			continue
		}

		if descriptionLength(item) > descriptionLength(result[pos]) {
			result[pos] = item
		}
	}

	return result
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func descriptionLength(item Item) int {
	if item.Description == nil {
		return 0
	}
	return utf8.RuneCountInString(*item.Description)
}
