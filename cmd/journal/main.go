package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"peopledetect/internal/models"
	"peopledetect/internal/repository/sqlite"
)

func main() {
	_ = godotenv.Load()

	defaultDB := os.Getenv("DB_PATH")
	if defaultDB == "" {
		defaultDB = "data/actuations.db"
	}

	dbPath := flag.String("db", defaultDB, "Database path")
	limit := flag.Int("limit", 20, "Number of recent actuations to print")
	prune := flag.Duration("prune", 0, "Delete actuations older than this (e.g. 720h), 0 keeps everything")
	flag.Parse()

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := sqlite.NewActuationRepository(db)

	if *prune > 0 {
		cutoff := time.Now().Add(-*prune)
		n, err := repo.DeleteBefore(cutoff)
		if err != nil {
			log.Fatalf("Failed to prune journal: %v", err)
		}
		fmt.Printf("🧹 Deleted %d actuations before %s\n", n, cutoff.Format(time.RFC3339))
	}

	actuations, err := repo.Recent(*limit)
	if err != nil {
		log.Fatalf("Failed to read journal: %v", err)
	}

	if len(actuations) == 0 {
		fmt.Println("No actuations recorded")
	} else {
		fmt.Printf("Last %d actuations in %s:\n", len(actuations), *dbPath)
		for _, a := range actuations {
			fmt.Println(formatActuation(a))
		}
	}

	stats, err := repo.Stats()
	if err == nil {
		fmt.Printf("\n📊 Journal Statistics:\n")
		fmt.Printf("   Total actuations: %d\n", stats.Total)
		if stats.LastRequestedAt != nil {
			fmt.Printf("   Last request: %s\n", stats.LastRequestedAt.Local().Format(time.RFC3339))
		}
		outcomes := make([]string, 0, len(stats.PerOutcome))
		for outcome := range stats.PerOutcome {
			outcomes = append(outcomes, string(outcome))
		}
		sort.Strings(outcomes)
		if len(outcomes) > 0 {
			fmt.Printf("   Per outcome:\n")
			for _, outcome := range outcomes {
				fmt.Printf("      - %s: %d\n", outcome, stats.PerOutcome[models.Outcome(outcome)])
			}
		}
	}
}

func formatActuation(a models.Actuation) string {
	line := fmt.Sprintf("%s  %-11s class=%d conf=%.2f  %s",
		a.RequestedAt.Local().Format("2006-01-02 15:04:05"), a.Outcome, a.ClassID, a.Confidence, a.ID)
	if a.FinishedAt != nil {
		line += fmt.Sprintf("  took=%s", a.FinishedAt.Sub(a.RequestedAt).Round(time.Millisecond))
	}
	if a.Snapshot != "" {
		line += "  snapshot=" + a.Snapshot
	}
	if a.Error != "" {
		line += "  error=" + a.Error
	}
	return line
}
