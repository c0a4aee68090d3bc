package sentiment

import (
	"time"
	"unicode/utf8"
)

// BodyPreviewLength is the number of body characters used for classification
const BodyPreviewLength = 100

// Sentiment is the category a post is classified into
type Sentiment string

const (
	Bullish    Sentiment = "Bullish"
	Bearish    Sentiment = "Bearish"
	Discussion Sentiment = "Discussion"
)

// Post is one item returned by the social feed
type Post struct {
	Title        string    `json:"title"`
	Body         string    `json:"body"` // at most BodyPreviewLength characters
	Timestamp    time.Time `json:"timestamp"`
	Upvotes      int       `json:"upvotes"`
	CommentCount int       `json:"comment_count"`
	Community    string    `json:"community"`
	Permalink    string    `json:"permalink,omitempty"`
}

// Text returns the title joined with the body preview
func (p Post) Text() string {
	return p.Title + " " + p.Body
}

// ClassifiedPost is a Post with its sentiment category
type ClassifiedPost struct {
	Post
	Sentiment Sentiment `json:"sentiment"`
}

// Summary aggregates classified posts for one query
type Summary struct {
	BullishCount int `json:"bullish_count"`
	BearishCount int `json:"bearish_count"`
	TotalPosts   int `json:"total_posts"`
	HypeIndex    int `json:"hype_index"`
}

// HasSignal reports whether any post was classified Bullish or Bearish.
// A zero HypeIndex without signal means "nothing measured", not "all bearish".
func (s Summary) HasSignal() bool {
	return s.BullishCount+s.BearishCount > 0
}

// Mood is the label derived from the hype index
type Mood string

const (
	MoodHype    Mood = "Hype/overheated"
	MoodFear    Mood = "Fear"
	MoodNeutral Mood = "Neutral"
)

// TruncateBody cuts s to at most BodyPreviewLength characters without
// splitting a multi-byte rune
func TruncateBody(s string) string {
	if utf8.RuneCountInString(s) <= BodyPreviewLength {
		return s
	}
	n := 0
	for i := range s {
		if n == BodyPreviewLength {
			return s[:i]
		}
		n++
	}
	return s
}
