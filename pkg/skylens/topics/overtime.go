package topics

import (
	"log"
	"time"

	"github.com/skylens-io/skylens/pkg/skylens/post"
)

// OverTime is the topic prevalence series for one run: per topic, a
// record count for each equal-width bin of the corpus time range.
type OverTime struct {
	Start  time.Time
	End    time.Time
	Bins   int
	Counts map[int][]int // topic id -> count per bin
}

// BinStart returns the start of bin i.
func (ot *OverTime) BinStart(i int) time.Time {
	width := ot.End.Sub(ot.Start) / time.Duration(ot.Bins)
	return ot.Start.Add(width * time.Duration(i))
}

// ComputeOverTime partitions the records' time range into equal-width
// bins and counts topic occurrences per bin. Records
// without a usable timestamp, or assigned the outlier topic, are not
// counted. Returns nil when the corpus carries no usable time span;
// the caller then skips the time-series chart only.
func ComputeOverTime(records []post.Record, bins int) *OverTime {
	var start, end time.Time
	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		if start.IsZero() || r.CreatedAt.Before(start) {
			start = r.CreatedAt
		}
		if end.IsZero() || r.CreatedAt.After(end) {
			end = r.CreatedAt
		}
	}
	if start.IsZero() || !end.After(start) {
		log.Printf("topics: no usable time span; skipping topics-over-time analysis")
		return nil
	}

	ot := &OverTime{
		Start:  start,
		End:    end,
		Bins:   bins,
		Counts: make(map[int][]int),
	}
	span := end.Sub(start)

	for _, r := range records {
		if !r.HasTimestamp() || r.Topic == post.OutlierTopic {
			continue
		}
		bin := int(float64(bins) * float64(r.CreatedAt.Sub(start)) / float64(span))
		if bin >= bins {
			bin = bins - 1
		}
		counts, ok := ot.Counts[r.Topic]
		if !ok {
			counts = make([]int, bins)
			ot.Counts[r.Topic] = counts
		}
		counts[bin]++
	}
	return ot
}
