// Package textclean normalizes raw post text before sentiment scoring and
// location mining.
package textclean

import (
	"html"
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	cashtagPattern = regexp.MustCompile(`\$(\w+)`)
	rtPattern      = regexp.MustCompile(`^RT @\w+: `)
	emojiPattern   = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2702}-\x{27B0}\x{24C2}-\x{257F}]`)
)

// Hashtags returns the hashtags in text, without the # marker.
func Hashtags(text string) []string {
	var tags []string
	for _, match := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		tags = append(tags, match[1])
	}
	return tags
}

// Mentions returns the @mentions in text, without the @ marker.
func Mentions(text string) []string {
	var names []string
	for _, match := range mentionPattern.FindAllString(text, -1) {
		names = append(names, match[1:])
	}
	return names
}

// ForSentiment prepares text for the sentiment scorer: HTML entities
// unescaped, retweet prefix, URLs, mentions and emojis stripped, hash and
// cash markers dropped but their words kept, whitespace collapsed.
func ForSentiment(text string) string {
	if text == "" {
		return ""
	}
	text = html.UnescapeString(text)
	text = rtPattern.ReplaceAllString(text, "")
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = hashtagPattern.ReplaceAllString(text, "$1")
	text = cashtagPattern.ReplaceAllString(text, "$1")
	text = emojiPattern.ReplaceAllString(text, "")
	return collapseWhitespace(text)
}

// ForLocation prepares text for location mining. Punctuation and emojis are
// kept: they can carry location context.
func ForLocation(text string) string {
	if text == "" {
		return ""
	}
	text = html.UnescapeString(text)
	text = rtPattern.ReplaceAllString(text, "")
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = hashtagPattern.ReplaceAllString(text, "$1")
	return collapseWhitespace(text)
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
