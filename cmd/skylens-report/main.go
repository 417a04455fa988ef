package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/skylens-io/skylens/pkg/skylens/store"
	"github.com/skylens-io/skylens/pkg/skylens/store/sqlite"
)

type report struct {
	Run    runJSON     `json:"run"`
	Topics []topicJSON `json:"topics"`
}

type runJSON struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Docs      int       `json:"docs"`
	Skipped   bool      `json:"skipped"`
}

type topicJSON struct {
	ID       int             `json:"id"`
	Size     int             `json:"size"`
	Keywords []store.Keyword `json:"keywords"`
}

func main() {
	var (
		archive = flag.String("archive", "", "Path to the sqlite run archive (required)")
		runID   = flag.String("run", "", "Run id to report on (default: latest)")
		list    = flag.Bool("list", false, "List archived runs instead of reporting one")
	)
	flag.Parse()

	if *archive == "" {
		log.Fatal("--archive required")
	}

	ctx := context.Background()

	st, err := sqlite.Open(ctx, *archive)
	if err != nil {
		log.Fatalf("open archive: %v", err)
	}
	defer st.Close()

	if *list {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		for _, r := range runs {
			fmt.Printf("%s  %-16s  %d docs, %d topics\n", r.ID, r.Label, r.Docs, r.Topics)
		}
		return
	}

	var run store.Run
	if *runID != "" {
		run, err = st.GetRun(ctx, *runID)
	} else {
		run, err = st.LatestRun(ctx)
	}
	if err != nil {
		log.Fatalf("load run: %v", err)
	}

	topics, err := st.GetTopics(ctx, run.ID)
	if err != nil {
		log.Fatalf("load topics: %v", err)
	}

	rep := report{
		Run: runJSON{
			ID:        run.ID,
			Label:     run.Label,
			CreatedAt: run.CreatedAt,
			Docs:      run.Docs,
			Skipped:   run.Skipped,
		},
	}
	for _, t := range topics {
		rep.Topics = append(rep.Topics, topicJSON{ID: t.ID, Size: t.Size, Keywords: t.Keywords})
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}
