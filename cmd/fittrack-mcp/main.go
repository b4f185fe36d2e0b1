package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/logging"
	fitmcp "github.com/meltforce/fittrack/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", os.Getenv("FITTRACK_SERVER_URL"), "FitTrack server URL (default $FITTRACK_SERVER_URL)")
	logFile := flag.String("log-file", "", "optional log file; stdout carries the MCP protocol")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittrack-mcp", Version)
		return
	}
	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: fittrack-mcp -server <URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// stdout is the protocol stream, so console logs go to stderr
	log, logCloser, err := logging.NewWithWriter(config.LogConfig{Level: "info", Format: "text", File: *logFile}, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	s := fitmcp.New(fitmcp.NewHTTPClient(*serverURL), Version, log)
	log.Info("fittrack-mcp serving stdio", "server", *serverURL)
	if err := server.ServeStdio(s); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}
