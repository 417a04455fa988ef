// Package export writes and reloads the processed record set as a flat
// CSV file. The sentiment column is deliberately dropped; cleaned text
// and airline sets survive a save/load round trip unchanged.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skylens-io/skylens/pkg/skylens/post"
)

// ProcessedFile is the export file name inside the output directory.
const ProcessedFile = "processed_posts.csv"

// airlineSep joins airline sets in one CSV field.
const airlineSep = "|"

var header = []string{"tweet_id", "tweet_created", "text", "clean_text", "airlines"}

// WriteProcessed saves the processed records to path, overwriting any
// prior export.
func WriteProcessed(path string, records []post.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		created := ""
		if r.HasTimestamp() {
			created = r.CreatedAt.Format(time.RFC3339)
		}
		row := []string{r.ID, created, r.Text, r.CleanText, strings.Join(r.Airlines, airlineSep)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadProcessed loads a processed export back into records.
func ReadProcessed(path string) ([]post.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("export %s is empty", path)
	}

	records := make([]post.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("export %s: malformed row with %d fields", path, len(row))
		}
		r := post.Record{
			ID:        row[0],
			Text:      row[2],
			CleanText: row[3],
			Topic:     post.OutlierTopic,
		}
		if row[1] != "" {
			ts, err := time.Parse(time.RFC3339, row[1])
			if err != nil {
				return nil, fmt.Errorf("export %s: bad timestamp %q", path, row[1])
			}
			r.CreatedAt = ts
		}
		if row[4] != "" {
			r.Airlines = strings.Split(row[4], airlineSep)
		}
		records = append(records, r)
	}
	return records, nil
}
