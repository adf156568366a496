package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "retweet prefix and mention",
			in:   "RT @fan123: what a goal by @striker9 tonight",
			want: "what a goal by tonight",
		},
		{
			name: "urls stripped",
			in:   "highlights here https://example.com/clip and www.example.org",
			want: "highlights here and",
		},
		{
			name: "hashtags keep word",
			in:   "unbelievable scenes #GoTeam #Winners",
			want: "unbelievable scenes GoTeam Winners",
		},
		{
			name: "html entities",
			in:   "Arsenal &amp; Chelsea drew 1&#45;1",
			want: "Arsenal & Chelsea drew 1-1",
		},
		{
			name: "emoji stripped",
			in:   "we won \U0001F389\U0001F3C6 today",
			want: "we won today",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ForSentiment(tt.in))
		})
	}
}

func TestForLocation_KeepsPunctuation(t *testing.T) {
	t.Parallel()

	got := ForLocation("RT @fan: Amazing match in London! #GoTeam https://t.co/x")
	assert.Equal(t, "Amazing match in London! GoTeam", got)
}

func TestHashtags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"GoTeam", "Match2025"}, Hashtags("big win #GoTeam #Match2025"))
	assert.Empty(t, Hashtags("no tags here"))
}

func TestMentions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"ref", "var"}, Mentions("blame @ref and @var"))
}
