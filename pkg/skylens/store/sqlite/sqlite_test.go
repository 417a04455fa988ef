package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/skylens-io/skylens/pkg/skylens/internalerr"
	"github.com/skylens-io/skylens/pkg/skylens/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run := store.Run{
		ID:        "01HZX0000000000000000000A1",
		Label:     "overall",
		CreatedAt: time.Date(2015, 2, 24, 12, 0, 0, 0, time.UTC),
		Docs:      1234,
		Topics:    8,
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Label != run.Label || got.Docs != run.Docs || got.Topics != run.Topics {
		t.Errorf("Run changed in storage: %+v != %+v", got, run)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("Timestamp changed: %v != %v", got.CreatedAt, run.CreatedAt)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLatestRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, id := range []string{"01A", "01B", "01C"} {
		run := store.Run{ID: id, Label: "run-" + id, CreatedAt: time.Now().UTC().Truncate(time.Second)}
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	latest, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest.ID != "01C" {
		t.Errorf("Expected latest run 01C, got %s", latest.ID)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "01C" {
		t.Errorf("Expected 3 runs newest first, got %+v", runs)
	}
}

func TestTopicsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run := store.Run{ID: "01R", Label: "united", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	topics := []store.Topic{
		{ID: 0, Size: 42, Keywords: []store.Keyword{{Term: "delay", Weight: 1.5}, {Term: "gate", Weight: 0.9}}},
		{ID: 1, Size: 17, Keywords: []store.Keyword{{Term: "crew", Weight: 1.1}}},
	}
	if err := s.SaveTopics(ctx, run.ID, topics); err != nil {
		t.Fatalf("SaveTopics failed: %v", err)
	}

	got, err := s.GetTopics(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetTopics failed: %v", err)
	}
	if !reflect.DeepEqual(got, topics) {
		t.Errorf("Topics changed in storage: %+v != %+v", got, topics)
	}
}

func TestAssignmentsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run := store.Run{ID: "01S", Label: "overall", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	as := []store.Assignment{
		{PostID: "a", Topic: 0},
		{PostID: "b", Topic: -1},
		{PostID: "c", Topic: 2},
	}
	if err := s.SaveAssignments(ctx, run.ID, as); err != nil {
		t.Fatalf("SaveAssignments failed: %v", err)
	}

	got, err := s.GetAssignments(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetAssignments failed: %v", err)
	}
	if !reflect.DeepEqual(got, as) {
		t.Errorf("Assignments changed in storage: %+v != %+v", got, as)
	}
}

func TestSaveTopicsReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run := store.Run{ID: "01T", Label: "overall", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	first := []store.Topic{{ID: 0, Size: 1, Keywords: []store.Keyword{{Term: "old", Weight: 1}}}}
	second := []store.Topic{{ID: 0, Size: 2, Keywords: []store.Keyword{{Term: "new", Weight: 2}}}}
	if err := s.SaveTopics(ctx, run.ID, first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTopics(ctx, run.ID, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTopics(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Keywords[0].Term != "new" {
		t.Errorf("Second save should replace the first, got %+v", got)
	}
}
