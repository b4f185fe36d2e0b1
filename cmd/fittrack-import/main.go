package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/logging"
	"github.com/meltforce/fittrack/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "FitTrack server URL (e.g. https://fittrack.tail1234.ts.net)")
	exportPath := flag.String("path", "", "directory containing Alpha Progression CSV exports")
	apiKey := flag.String("api-key", os.Getenv("FITTRACK_AUTH_API_KEY"), "API key for the import endpoint (default $FITTRACK_AUTH_API_KEY)")
	stateDir := flag.String("state-dir", "", "directory for the import ledger (default ~/.fittrack-import)")
	history := flag.Bool("history", false, "print what earlier runs imported and exit")
	dryRun := flag.Bool("dry-run", false, "list new exports but don't send them")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittrack-import", Version)
		return
	}

	log, logCloser, err := logging.New(config.LogConfig{Level: *logLevel, Format: "text"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".fittrack-import")
	}
	ledger, err := upload.OpenLedger(*stateDir)
	if err != nil {
		log.Error("failed to open import ledger", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	if *history {
		if err := printHistory(ledger); err != nil {
			log.Error("reading import ledger", "error", err)
			os.Exit(1)
		}
		return
	}

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fittrack-import -server <URL> -path <export dir> [-api-key KEY] [-dry-run] [-history]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if !*dryRun && (*serverURL == "" || *apiKey == "") {
		fmt.Fprintf(os.Stderr, "Error: -server and -api-key are required (or use -dry-run)\n")
		os.Exit(1)
	}

	info, err := os.Stat(*exportPath)
	if err != nil || !info.IsDir() {
		log.Error("export directory not found", "path", *exportPath)
		os.Exit(1)
	}

	var client *upload.Client
	if *dryRun {
		log.Info("DRY RUN mode: exports are listed but not sent")
	} else {
		client = upload.NewClient(*serverURL, *apiKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := upload.New(client, ledger, *exportPath, *dryRun, log).Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	if stats.FilesErrored > 0 {
		log.Warn("import finished with errors", "errored", stats.FilesErrored)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Sessions:         %d\n", stats.SessionsReceived)
	fmt.Printf("  Workouts created: %d\n", stats.WorkoutsInserted)
	fmt.Printf("  Duplicates:       %d\n", stats.SessionsSkipped)
	fmt.Printf("  Sets:             %d\n", stats.SetsInserted)

	if len(stats.Unmatched) > 0 {
		fmt.Printf("\n  Exercises not in catalogue:\n")
		for _, name := range stats.Unmatched {
			fmt.Printf("    - %s\n", name)
		}
	}
	fmt.Println()
}

func printHistory(ledger *upload.Ledger) error {
	files, res, err := ledger.Totals()
	if err != nil {
		return err
	}
	unmatched, err := ledger.Unmatched()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("=== Import History ===")
	fmt.Printf("  Exports imported: %d\n", files)
	fmt.Printf("  Sessions:         %d\n", res.SessionsReceived)
	fmt.Printf("  Workouts created: %d\n", res.WorkoutsInserted)
	fmt.Printf("  Duplicates:       %d\n", res.SessionsSkipped)
	fmt.Printf("  Sets:             %d\n", res.SetsInserted)
	if len(unmatched) > 0 {
		fmt.Printf("\n  Exercises never matched:\n")
		for _, name := range unmatched {
			fmt.Printf("    - %s\n", name)
		}
	}
	fmt.Println()
	return nil
}
