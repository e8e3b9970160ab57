// Package main is the entry point for the geodraw terminal editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/geodraw/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, code, done := parseFlags(os.Args[1:])
	if done {
		return code
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags parses the command line. done reports that the program
// should exit with code without starting the editor.
func parseFlags(args []string) (opts app.Options, code int, done bool) {
	fs := flag.NewFlagSet("geodraw", flag.ContinueOnError)
	var showVersion, showHelp bool

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LoadPath, "load", "", "GeoJSON file to load on startup")
	fs.StringVar(&opts.LoadPath, "l", "", "GeoJSON file to load on startup (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "geodraw - draw and edit GeoJSON in the terminal\n\n")
		fmt.Fprintf(out, "Usage: geodraw [options] [file.geojson]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nKeys:\n")
		fmt.Fprintf(out, "  1 2 3        draw point, line, polygon\n")
		fmt.Fprintf(out, "  Backspace    delete the selection\n")
		fmt.Fprintf(out, "  c / u        combine / uncombine the selection\n")
		fmt.Fprintf(out, "  arrows       pan, mouse wheel zooms\n")
		fmt.Fprintf(out, "  q            quit\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, true
		}
		return opts, 2, true
	}

	if showHelp {
		fs.Usage()
		return opts, 0, true
	}
	if showVersion {
		fmt.Printf("geodraw %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return opts, 0, true
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		return opts, 1, true
	}

	// A positional argument is the file to load.
	if opts.LoadPath == "" && fs.NArg() > 0 {
		opts.LoadPath = fs.Arg(0)
	}
	return opts, 0, false
}
