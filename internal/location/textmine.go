package location

import (
	"regexp"
	"strings"
)

// minePrepositions are the phrase-pattern prefixes tried against free text,
// in priority order. Earlier patterns win ties.
var minePrepositions = []string{
	"in", "from", "at", "near", "to", "visiting", "live in", "based in", "located in",
}

var minePatterns = buildMinePatterns()

func buildMinePatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(minePrepositions))
	for i, prep := range minePrepositions {
		// "<preposition> <Capitalized Phrase>", capturing up to two words.
		patterns[i] = regexp.MustCompile(`\b` + prep + ` ([A-Z][a-z]+(?: [A-Z][a-z]+)?)`)
	}
	return patterns
}

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// FindLocations mines free text for location candidates. It is a pure
// function of its inputs and returns candidates in a deterministic order:
// phrase-pattern matches first (pattern priority, then position in text),
// then bare capitalized words that are gazetteer entries, then gazetteer
// phrases found by case-insensitive containment, deduplicated throughout.
func FindLocations(gaz *Gazetteer, text string) []string {
	if text == "" {
		return nil
	}

	var found []string
	seen := make(map[string]struct{})
	add := func(candidate string) {
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		found = append(found, candidate)
	}

	for _, pattern := range minePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if !gaz.Ignored(match[1]) {
				add(match[1])
			}
		}
	}

	for _, word := range capitalizedWord.FindAllString(text, -1) {
		if gaz.Contains(word) && !gaz.Ignored(word) {
			add(word)
		}
	}

	// Multi-word gazetteer phrases ("new york", "hong kong") that the
	// capitalized-word scan cannot see. The scan runs over the folded text,
	// since entries are folded, and maps match bounds back through the
	// offset table to report the original-case slice.
	folded, offsets := foldOffsets(text)
	for _, entry := range gaz.entries {
		if idx := strings.Index(folded, entry); idx >= 0 {
			add(text[offsets[idx]:offsets[idx+len(entry)]])
		}
	}

	return found
}

// FirstLocation returns the highest-priority candidate in text, or "" if the
// text yields none.
func FirstLocation(gaz *Gazetteer, text string) string {
	candidates := FindLocations(gaz, text)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}
