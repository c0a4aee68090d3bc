package sentiment

import "strings"

// Keyword sets are matched as plain substrings of the case-folded text, so
// "up" also matches "update" and "red" matches "reddit". Bullish is checked
// first: a post containing both sets is Bullish. Changing either rule changes
// every previously displayed index.
var (
	BullishKeywords = []string{"buy", "long", "moon", "rocket", "bull", "call", "yolo", "hold", "green", "up"}
	BearishKeywords = []string{"sell", "short", "drop", "crash", "bear", "put", "red", "down", "dump"}
)

const (
	hypeThreshold = 60
	fearThreshold = 40
)

// Classify maps text to a sentiment category
func Classify(text string) Sentiment {
	folded := strings.ToLower(text)
	switch {
	case containsAny(folded, BullishKeywords):
		return Bullish
	case containsAny(folded, BearishKeywords):
		return Bearish
	default:
		return Discussion
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// ClassifyPost classifies a post by its title and body preview
func ClassifyPost(p Post) ClassifiedPost {
	return ClassifiedPost{Post: p, Sentiment: Classify(p.Text())}
}

// ClassifyAll classifies posts preserving feed order
func ClassifyAll(posts []Post) []ClassifiedPost {
	out := make([]ClassifiedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, ClassifyPost(p))
	}
	return out
}

// Summarize counts categories and derives the hype index
func Summarize(posts []ClassifiedPost) Summary {
	s := Summary{TotalPosts: len(posts)}
	for _, p := range posts {
		switch p.Sentiment {
		case Bullish:
			s.BullishCount++
		case Bearish:
			s.BearishCount++
		}
	}
	s.HypeIndex = HypeIndex(s.BullishCount, s.BearishCount)
	return s
}

// HypeIndex returns floor(100 * bullish / max(1, bullish+bearish)).
// Both counts zero yields 0.
func HypeIndex(bullish, bearish int) int {
	if bullish < 0 {
		bullish = 0
	}
	if bearish < 0 {
		bearish = 0
	}
	total := bullish + bearish
	if total < 1 {
		total = 1
	}
	return 100 * bullish / total
}

// Label maps a hype index to a mood; both thresholds are inclusive
func Label(index int) Mood {
	switch {
	case index >= hypeThreshold:
		return MoodHype
	case index <= fearThreshold:
		return MoodFear
	default:
		return MoodNeutral
	}
}
