package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"shelfstats-backend/lib/scrapers/douban"
	"shelfstats-backend/lib/serviceutil"
	"shelfstats-backend/services/collections"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	jsonOut  *string
	maxPages *int
	delayMs  *int
)

func init() {
	jsonOut = reportCmd.Flags().String("json", "", "Write the raw report as JSON to this file.")
	maxPages = reportCmd.Flags().Int("max-pages", 0, "Cap the number of listing pages fetched per category.")
	delayMs = reportCmd.Flags().Int("delay-ms", 0, "Delay between page fetches in milliseconds.")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <username>",
	Short: "Scrapes a user's collections and prints per-category stats and the year timeline.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		client, err := douban.NewClient(douban.ClientOptions{
			Referer: "https://www.douban.com/",
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize scrape client", err)
		}

		service := collections.NewService(client, collections.Options{
			MaxPages: *maxPages,
			Delay:    time.Duration(*delayMs) * time.Millisecond,
		})

		report, err := service.Run(cmd.Context(), username, func(category string, page int) {
			slog.Info("fetched page", "category", category, "page", page)
		})
		if err != nil {
			serviceutil.Fatal("report pipeline failed", err)
		}

		printSummary(report)
		printTimeline(report)

		if *jsonOut != "" {
			writeJSON(*jsonOut, report)
		}
	},
}

func printSummary(report collections.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Category", "Total", "Unrated", "1", "2", "3", "4", "5"})

	for _, kind := range []douban.Kind{
		douban.KindMovie, douban.KindSerial, douban.KindBook, douban.KindMusic,
	} {
		s := report.Summary[kind]
		d := s.Distribution
		t.AppendRow(table.Row{kind, s.Total, d[0], d[1], d[2], d[3], d[4], d[5]})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printTimeline(report collections.Report) {
	if len(report.YearData) == 0 {
		fmt.Println("no high-rated items with a resolved year")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Year", "Movie", "Serial", "Book", "Music"})

	for _, entry := range report.YearData {
		t.AppendRow(table.Row{entry.Year, entry.Movie, entry.Serial, entry.Book, entry.Music})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func writeJSON(path string, report collections.Report) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		serviceutil.Fatal("failed to marshal report", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		serviceutil.Fatal("failed to write report", err)
	}
	slog.Info("wrote report", "path", path)
}
