package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/skylens-io/skylens/pkg/skylens/internalerr"
	"github.com/skylens-io/skylens/pkg/skylens/post"
)

// Column names recognized in the input spreadsheet. Only the text
// column is required.
const (
	ColText      = "text"
	ColID        = "tweet_id"
	ColCreated   = "tweet_created"
	ColSentiment = "airline_sentiment"
)

// Timestamp layouts tried in order. The first two are what the airline
// dataset actually contains.
var timeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Load reads a spreadsheet into records, preserving source order.
// The format is chosen by extension: .xlsx via excelize, anything else
// is treated as CSV. A missing file or missing text column is fatal.
func Load(path string) ([]post.Record, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrDataLoad, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", internalerr.ErrDataLoad, path)
	}

	cols := indexColumns(rows[0])
	textIdx, ok := cols[ColText]
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q column not found", internalerr.ErrMissingColumn, path, ColText)
	}

	idIdx, hasID := cols[ColID]
	createdIdx, hasCreated := cols[ColCreated]
	sentIdx, hasSent := cols[ColSentiment]

	records := make([]post.Record, 0, len(rows)-1)
	badTimestamps := 0
	for i, row := range rows[1:] {
		r := post.Record{
			ID:    fmt.Sprintf("row-%d", i+1),
			Topic: post.OutlierTopic,
		}
		r.Text = cell(row, textIdx)
		if hasID {
			if v := cell(row, idIdx); v != "" {
				r.ID = v
			}
		}
		if hasCreated {
			if v := cell(row, createdIdx); v != "" {
				ts, err := parseTime(v)
				if err != nil {
					badTimestamps++
				} else {
					r.CreatedAt = ts
				}
			}
		}
		if hasSent {
			r.Sentiment = cell(row, sentIdx)
		}
		records = append(records, r)
	}

	if badTimestamps > 0 {
		log.Printf("loader: %d unparseable timestamps; affected records are excluded from time analysis", badTimestamps)
	}
	log.Printf("loader: loaded %d records from %s", len(records), path)
	return records, nil
}

func readRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheet)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// indexColumns maps lowercased, trimmed header names to their index.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

// cell returns the trimmed value at idx, tolerating short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseTime(v string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}
