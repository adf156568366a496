// Package location implements the location-resolution pipeline: extracting a
// raw location candidate from a post, geocoding it through a rate-limited
// gateway with a persistent cache, and attaching the result to the post.
package location

import (
	_ "embed"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var gazetteerYAML []byte

// Gazetteer is the fixed list of known place names used for candidate
// validation and geocode query simplification, together with the ignore list
// of non-geographic terms.
type Gazetteer struct {
	entries []string            // lowercased, in file order
	index   map[string]struct{} // membership check
	ignore  map[string]struct{}
}

type gazetteerFile struct {
	Cities    []string `yaml:"cities"`
	Countries []string `yaml:"countries"`
	USStates  []string `yaml:"us_states"`
	Ignore    []string `yaml:"ignore"`
}

// DefaultGazetteer is the embedded gazetteer, loaded once at init.
var DefaultGazetteer = mustLoadGazetteer()

func mustLoadGazetteer() *Gazetteer {
	g, err := parseGazetteer(gazetteerYAML)
	if err != nil {
		panic(err)
	}
	return g
}

func parseGazetteer(data []byte) (*Gazetteer, error) {
	var f gazetteerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "location: parse gazetteer")
	}

	g := &Gazetteer{
		index:  make(map[string]struct{}),
		ignore: make(map[string]struct{}, len(f.Ignore)),
	}
	for _, group := range [][]string{f.Cities, f.Countries, f.USStates} {
		for _, entry := range group {
			key := Fold(entry)
			if _, dup := g.index[key]; dup {
				continue
			}
			g.entries = append(g.entries, key)
			g.index[key] = struct{}{}
		}
	}
	for _, term := range f.Ignore {
		g.ignore[Fold(term)] = struct{}{}
	}
	return g, nil
}

// Contains reports whether s, case-folded, is a gazetteer entry.
func (g *Gazetteer) Contains(s string) bool {
	_, ok := g.index[Fold(s)]
	return ok
}

// Ignored reports whether s, case-folded, is on the ignore list.
func (g *Gazetteer) Ignored(s string) bool {
	_, ok := g.ignore[Fold(s)]
	return ok
}

// FindIn scans s for the first gazetteer entry it contains, in entry order.
// The returned entry is the lowercased gazetteer form, not the slice of s.
func (g *Gazetteer) FindIn(s string) (string, bool) {
	folded := Fold(s)
	for _, entry := range g.entries {
		if strings.Contains(folded, entry) {
			return entry, true
		}
	}
	return "", false
}

// Len returns the number of gazetteer entries.
func (g *Gazetteer) Len() int { return len(g.entries) }

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics so "São Paulo" compares equal to
// "sao paulo". Falls back to plain lowercasing if normalization fails.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// foldOffsets folds text rune by rune and records, for every byte of the
// folded form, the byte offset of the originating rune in text, with a final
// element of len(text). Folding can change byte lengths, so a match at
// folded[i:j] maps back to text[offsets[i]:offsets[j]] rather than to the
// same indices.
func foldOffsets(text string) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		f, _, err := transform.String(foldTransformer, string(r))
		if err != nil {
			f = string(r)
		}
		f = strings.ToLower(f)
		for j := 0; j < len(f); j++ {
			offsets = append(offsets, i)
		}
		b.WriteString(f)
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}
