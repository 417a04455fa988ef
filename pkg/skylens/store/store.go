package store

import (
	"context"
	"time"
)

// Store is the interface for the optional run archive: a place to keep
// finished analysis runs so they can be reported on later.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context) ([]Run, error)
	LatestRun(ctx context.Context) (Run, error)

	// Topics & assignments
	SaveTopics(ctx context.Context, runID string, ts []Topic) error
	GetTopics(ctx context.Context, runID string) ([]Topic, error)
	SaveAssignments(ctx context.Context, runID string, as []Assignment) error
	GetAssignments(ctx context.Context, runID string) ([]Assignment, error)
}

// Run represents one archived modeling run (overall or per airline).
type Run struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Docs      int
	Topics    int
	Skipped   bool
}

// Topic represents one archived topic of a run.
type Topic struct {
	ID       int
	Size     int
	Keywords []Keyword
}

// Keyword is one ranked keyword of an archived topic.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Assignment records which topic a post landed in for a run.
type Assignment struct {
	PostID string
	Topic  int
}
