package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Cleaner normalizes raw post text into a lowercase, token-joined form
// suitable for vectorisation. Cleaning is deterministic and idempotent:
// cleaning an already-cleaned text yields the same text.
type Cleaner struct {
	stopwords map[string]struct{}
}

// NewCleaner creates a cleaner with the given stopword list.
func NewCleaner(stopwords []string) *Cleaner {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Cleaner{stopwords: stops}
}

// Clean runs the full normalization: HTML unescape, mention and URL
// removal, punctuation and digit stripping, lowercasing, tokenization,
// stopword and single-character filtering.
func (c *Cleaner) Clean(text string) string {
	text = stripHTML(text)
	text = strings.ToLower(text)
	text = dropMentionsAndURLs(text)

	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				if word := c.processToken(current.String()); word != "" {
					tokens = append(tokens, word)
				}
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		if word := c.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
	}

	return strings.Join(tokens, " ")
}

// processToken applies length and stopword filtering.
func (c *Cleaner) processToken(token string) string {
	if len(token) <= 1 {
		return ""
	}
	if _, ok := c.stopwords[token]; ok {
		return ""
	}
	return token
}

var (
	mentionRe = regexp.MustCompile(`@\w+`)
	urlRe     = regexp.MustCompile(`http\S+|www\S+`)
)

// dropMentionsAndURLs removes whole @-mentions and web addresses,
// handle included, wherever they appear in the text.
func dropMentionsAndURLs(text string) string {
	text = urlRe.ReplaceAllString(text, " ")
	return mentionRe.ReplaceAllString(text, " ")
}

// stripHTML extracts plain text from any markup in the post body,
// unescaping entities along the way.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}
