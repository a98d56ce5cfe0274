package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/board"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/boukii"
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/config"
)

// boardcheck fetches one day of planner data and prints the computed
// lane layout of the unassigned row, for debugging overlap issues.
func main() {
	_ = godotenv.Load("../.env")
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: boardcheck <YYYY-MM-DD>")
		os.Exit(1)
	}
	date := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	api := boukii.NewClient(cfg.APIBaseURL)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	payload, err := api.FetchPlanner(ctx, date, date, cfg.SchoolID)
	if err != nil {
		fmt.Printf("Error: planner fetch failed: %v\n", err)
		os.Exit(1)
	}
	degrees, err := api.FetchDegrees(ctx, cfg.SchoolID)
	if err != nil {
		fmt.Printf("Error: degree fetch failed: %v\n", err)
		os.Exit(1)
	}

	tasks, monitors := board.Normalize(payload, degrees)
	unassigned := board.PartitionUnassigned(tasks)

	fmt.Printf("%s: %d tasks, %d monitors, %d unassigned\n", date, len(tasks), len(monitors), len(unassigned))
	for _, t := range unassigned {
		fmt.Printf("  lane %d/%d  %s-%s  %-20s %s (%d clients)\n",
			t.Lane, t.LaneCount, t.HourStart, t.HourEnd, t.Kind, t.ID, len(t.Clients))
	}
}
