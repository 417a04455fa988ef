package post

import "time"

// Record is one social-media post as it moves through the pipeline.
// The Loader fills ID, Text, CreatedAt and Sentiment; the Preprocessor
// adds CleanText and Airlines; the Topic Modeler adds Topic. After that
// the record is never mutated.
type Record struct {
	ID        string
	Text      string
	CleanText string
	CreatedAt time.Time
	Airlines  []string
	Sentiment string
	Topic     int
}

// OutlierTopic is the topic id given to records that no cluster claims.
const OutlierTopic = -1

// Mentions reports whether the record's extracted airline set contains
// the given canonical airline name.
func (r Record) Mentions(airline string) bool {
	for _, a := range r.Airlines {
		if a == airline {
			return true
		}
	}
	return false
}

// HasTimestamp reports whether the record carries a usable creation time.
func (r Record) HasTimestamp() bool {
	return !r.CreatedAt.IsZero()
}
