package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLocations_PhrasePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "in phrase",
			text: "Amazing match today in London!",
			want: []string{"London"},
		},
		{
			name: "from phrase",
			text: "Greetings from Tokyo to everyone",
			want: []string{"Tokyo"},
		},
		{
			name: "based in",
			text: "Engineer based in Berlin",
			want: []string{"Berlin"},
		},
		{
			name: "two word phrase",
			text: "Just landed in San Francisco",
			want: []string{"San Francisco"},
		},
		{
			name: "no candidates",
			text: "what a great game last night",
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FindLocations(DefaultGazetteer, tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			require.NotEmpty(t, got)
			assert.Equal(t, tt.want[0], got[0])
		})
	}
}

func TestFindLocations_IgnoreList(t *testing.T) {
	t.Parallel()

	// "Twitter" matches the "in <Capitalized>" pattern but is ignore-listed.
	got := FindLocations(DefaultGazetteer, "Follow me in Twitter")
	assert.Empty(t, got)
}

func TestFindLocations_GazetteerWords(t *testing.T) {
	t.Parallel()

	got := FindLocations(DefaultGazetteer, "Paris is beautiful this time of year")
	require.NotEmpty(t, got)
	assert.Equal(t, "Paris", got[0])
}

func TestFindLocations_MultiWordGazetteerPhrase(t *testing.T) {
	t.Parallel()

	got := FindLocations(DefaultGazetteer, "I love New York pizza")
	require.NotEmpty(t, got)
	assert.Contains(t, got, "New York")
}

func TestFindLocations_AccentedGazetteerPhrase(t *testing.T) {
	t.Parallel()

	// The phrase patterns and capitalized-word scan are ASCII-bound, so the
	// accented spelling is only reachable through the folded containment
	// scan, which must report the original-case slice.
	got := FindLocations(DefaultGazetteer, "Perfect evening in São Paulo tonight")
	require.NotEmpty(t, got)
	assert.Equal(t, "São Paulo", got[0])
}

func TestFindLocations_CaseLengthChangingRunes(t *testing.T) {
	t.Parallel()

	// Lowercasing "Ⱥ" grows from two bytes to three and folding "İ" shrinks,
	// so the containment scan cannot reuse folded-text indices against the
	// original text.
	tests := []struct {
		name string
		text string
	}{
		{name: "rune grows when folded", text: "ȺȺȺȺȺȺȺȺȺȺ london"},
		{name: "rune shrinks when folded", text: "İİİİİİİİİİ about london stuff"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FindLocations(DefaultGazetteer, tt.text)
			require.NotEmpty(t, got)
			assert.Equal(t, "london", got[0])
		})
	}
}

func TestFindLocations_PatternPriorityBeatsGazetteerScan(t *testing.T) {
	t.Parallel()

	// "in Berlin" is a pattern match; "Paris" only a gazetteer word. The
	// pattern match must come first regardless of position in the text.
	got := FindLocations(DefaultGazetteer, "Paris fans gathered in Berlin today")
	require.NotEmpty(t, got)
	assert.Equal(t, "Berlin", got[0])
}

func TestFindLocations_Deterministic(t *testing.T) {
	t.Parallel()

	text := "Flying from London to Paris then visiting Tokyo and New York"
	first := FindLocations(DefaultGazetteer, text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, FindLocations(DefaultGazetteer, text))
	}
}

func TestFindLocations_Dedupe(t *testing.T) {
	t.Parallel()

	got := FindLocations(DefaultGazetteer, "in London, from London, London forever")
	count := 0
	for _, c := range got {
		if c == "London" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestFirstLocation_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FirstLocation(DefaultGazetteer, ""))
	assert.Empty(t, FirstLocation(DefaultGazetteer, "nothing here"))
}
