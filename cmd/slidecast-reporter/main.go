// Command slidecast-reporter periodically recomputes the global
// engagement summary and logs it, giving operators a scheduled pulse of
// platform activity without hitting the admin API.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/slidecast/slidecast/pkg/analytics"
	"github.com/slidecast/slidecast/pkg/presentations"
	"github.com/slidecast/slidecast/pkg/store"
)

var (
	dataDir  = flag.String("data-dir", getEnv("SLIDECAST_DATA_DIR", "data"), "Directory holding the JSON document collections")
	schedule = flag.String("schedule", "0 * * * *", "Cron schedule for summary reports (default: every hour)")
	runOnce  = flag.Bool("run-once", false, "Compute one summary and exit")
)

func main() {
	flag.Parse()

	presentationDocs, err := store.NewCollection[presentations.Presentation](*dataDir, "presentations")
	if err != nil {
		log.Fatalf("Failed to open presentations collection: %v", err)
	}
	events, err := store.NewCollection[analytics.Event](*dataDir, "analytics")
	if err != nil {
		log.Fatalf("Failed to open analytics collection: %v", err)
	}

	reports := analytics.NewService(presentationDocs, events)

	if *runOnce {
		if err := report(reports); err != nil {
			log.Fatalf("Summary failed: %v", err)
		}
		return
	}

	c := cron.New()
	_, err = c.AddFunc(*schedule, func() {
		if err := report(reports); err != nil {
			log.Printf("Summary failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule summary reports: %v", err)
	}

	c.Start()
	log.Printf("Analytics reporter started, schedule: %s", *schedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	ctx := c.Stop()
	<-ctx.Done()
	log.Println("Reporter stopped")
}

func report(reports *analytics.Service) error {
	summary, err := reports.Summary()
	if err != nil {
		return err
	}

	overview, err := json.Marshal(summary.Overview)
	if err != nil {
		return err
	}
	log.Printf("Engagement summary: %s", overview)
	log.Printf("Recent activity: %d events in the last 30 days (%.2f/day)",
		summary.RecentActivity.Last30Days, summary.RecentActivity.DailyAverage)
	for i, top := range summary.TopPresentations {
		log.Printf("Top %d: %s (%d views, %d interactions)", i+1, top.Title, top.Views, top.Interactions)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
