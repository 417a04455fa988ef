package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/skylens-io/skylens/pkg/skylens/internalerr"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "tweet_id,airline_sentiment,text,tweet_created\n"+
		"570306133677760513,neutral,@VirginAmerica What said.,2015-02-24 11:35:52 -0800\n"+
		"570301130888122368,positive,@VirginAmerica plus you've added commercials,2015-02-24 11:15:59 -0800\n")

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "570306133677760513" {
		t.Errorf("Expected tweet id column to fill ID, got %q", first.ID)
	}
	if first.Sentiment != "neutral" {
		t.Errorf("Expected sentiment carried through, got %q", first.Sentiment)
	}
	if !first.HasTimestamp() {
		t.Error("Expected parsed timestamp")
	}
	if first.Text == "" {
		t.Error("Expected raw text preserved")
	}
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeCSV(t, "text\nfirst post\nsecond post\nthird post\n")

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"first post", "second post", "third post"}
	for i, w := range want {
		if records[i].Text != w {
			t.Errorf("Position %d: expected %q, got %q", i, w, records[i].Text)
		}
	}
}

func TestLoadMissingTextColumn(t *testing.T) {
	path := writeCSV(t, "tweet_id,body\n1,hello\n")

	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, internalerr.ErrDataLoad) {
		t.Errorf("Expected ErrDataLoad, got %v", err)
	}
}

func TestLoadBadTimestampDegrades(t *testing.T) {
	path := writeCSV(t, "text,tweet_created\nsome post,not-a-date\n")

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if records[0].HasTimestamp() {
		t.Error("Unparseable timestamp should leave the zero time")
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"tweet_id", "text", "tweet_created"},
		{"42", "@united where is my flight", "2015-02-24 11:35:52 -0800"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].ID != "42" || records[0].Text != "@united where is my flight" {
		t.Errorf("Unexpected record: %+v", records[0])
	}
}
