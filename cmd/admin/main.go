package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"campusmentor/backend/internal/models"
	"campusmentor/backend/internal/report"
	"campusmentor/backend/internal/storage"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Fatal("MONGODB_URI is not set")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "campusmentor"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer client.Disconnect(context.Background())

	store := storage.NewService(client.Database(dbName), nil) // no redis needed for the admin CLI
	reports := report.NewService(store, nil, zap.NewNop())

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "show":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show <report_id>")
			os.Exit(1)
		}
		rep, err := reports.Get(context.Background(), os.Args[2])
		if err != nil {
			log.Fatalf("Error loading report: %v", err)
		}
		printReport(rep)

	case "review":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin review <report_id> <reviewer_id> [notes]")
			os.Exit(1)
		}
		notes := ""
		if len(os.Args) > 4 {
			notes = os.Args[4]
		}
		rep, err := reports.Advance(context.Background(), os.Args[2], models.ReportReviewed, os.Args[3], notes, "")
		if err != nil {
			log.Fatalf("Error reviewing report: %v", err)
		}
		fmt.Printf("Report %s marked reviewed.\n", rep.ID)

	case "action":
		if len(os.Args) < 5 {
			fmt.Println("Usage: admin action <report_id> <reviewer_id> <action> [notes]")
			os.Exit(1)
		}
		notes := ""
		if len(os.Args) > 5 {
			notes = os.Args[5]
		}
		rep, err := reports.Advance(context.Background(), os.Args[2], models.ReportActionTaken, os.Args[3], notes, os.Args[4])
		if err != nil {
			log.Fatalf("Error recording action: %v", err)
		}
		fmt.Printf("Report %s closed with action: %s\n", rep.ID, rep.ActionTaken)

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <show|review|action> [args]")
	os.Exit(1)
}

func printReport(rep *models.ChatReport) {
	fmt.Printf("Report %s (%s)\n", rep.ID, rep.Status)
	fmt.Printf("  Channel:  %s\n", rep.ChannelID)
	fmt.Printf("  Reporter: %s\n", rep.ReporterID)
	fmt.Printf("  Reason:   %s\n", rep.Reason)
	fmt.Printf("  Captured: %s\n", rep.CreatedAt.Format(time.RFC3339))
	if rep.ReviewedBy != "" {
		fmt.Printf("  Reviewed by %s", rep.ReviewedBy)
		if rep.ReviewedAt != nil {
			fmt.Printf(" at %s", rep.ReviewedAt.Format(time.RFC3339))
		}
		fmt.Println()
	}
	if rep.AdminNotes != "" {
		fmt.Printf("  Notes:    %s\n", rep.AdminNotes)
	}
	if rep.ActionTaken != "" {
		fmt.Printf("  Action:   %s\n", rep.ActionTaken)
	}
	fmt.Printf("  Snapshot (%d messages):\n", len(rep.Messages))
	for _, m := range rep.Messages {
		fmt.Printf("    [%s] %s: %s\n", m.CreatedAt.Format(time.RFC3339), m.SenderID, m.Text)
	}
}
