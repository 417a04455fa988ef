package topics

import (
	"testing"
	"time"

	"github.com/skylens-io/skylens/pkg/skylens/post"
)

func stamped(topic int, offset time.Duration) post.Record {
	base := time.Date(2015, 2, 24, 0, 0, 0, 0, time.UTC)
	return post.Record{Topic: topic, CreatedAt: base.Add(offset)}
}

func TestComputeOverTimeBinsAndCounts(t *testing.T) {
	records := []post.Record{
		stamped(0, 0),
		stamped(0, time.Hour),
		stamped(1, 2*time.Hour),
		stamped(0, 4*time.Hour),
	}

	ot := ComputeOverTime(records, 4)
	if ot == nil {
		t.Fatal("Expected a series")
	}
	if ot.Bins != 4 {
		t.Fatalf("Expected 4 bins, got %d", ot.Bins)
	}

	total := 0
	for topic, counts := range ot.Counts {
		if len(counts) != 4 {
			t.Errorf("Topic %d has %d bins, want 4", topic, len(counts))
		}
		for _, c := range counts {
			total += c
		}
	}
	if total != len(records) {
		t.Errorf("Bin counts sum to %d, want %d", total, len(records))
	}

	// The last record lands in the final bin, not one past it.
	if ot.Counts[0][3] != 1 {
		t.Errorf("Expected the range-max record in the last bin, got %v", ot.Counts[0])
	}
}

func TestComputeOverTimeSkipsOutliersAndUntimed(t *testing.T) {
	records := []post.Record{
		stamped(0, 0),
		stamped(post.OutlierTopic, time.Hour),
		{Topic: 0}, // no timestamp
		stamped(0, 2*time.Hour),
	}

	ot := ComputeOverTime(records, 2)
	if ot == nil {
		t.Fatal("Expected a series")
	}
	total := 0
	for _, counts := range ot.Counts {
		for _, c := range counts {
			total += c
		}
	}
	if total != 2 {
		t.Errorf("Expected 2 counted records, got %d", total)
	}
}

func TestComputeOverTimeNoTimestamps(t *testing.T) {
	records := []post.Record{{Topic: 0}, {Topic: 1}}

	if ot := ComputeOverTime(records, 10); ot != nil {
		t.Error("Expected nil series when no record has a timestamp")
	}
}

func TestComputeOverTimeSingleInstant(t *testing.T) {
	records := []post.Record{stamped(0, 0), stamped(1, 0)}

	if ot := ComputeOverTime(records, 10); ot != nil {
		t.Error("Expected nil series for a zero-width time range")
	}
}

func TestBinStart(t *testing.T) {
	records := []post.Record{stamped(0, 0), stamped(0, 4*time.Hour)}

	ot := ComputeOverTime(records, 4)
	if ot == nil {
		t.Fatal("Expected a series")
	}
	if got := ot.BinStart(0); !got.Equal(ot.Start) {
		t.Errorf("Bin 0 should start at range start, got %v", got)
	}
	if got := ot.BinStart(2); !got.Equal(ot.Start.Add(2 * time.Hour)) {
		t.Errorf("Bin 2 should start two hours in, got %v", got)
	}
}
