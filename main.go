package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nextbuscli/pkg/logging"
	"nextbuscli/pkg/lookup"
	"nextbuscli/pkg/metrics"
	"nextbuscli/pkg/nextbus"
	"nextbuscli/pkg/profiling"
	"nextbuscli/pkg/tracing"
)

func main() {
	// Command line flags
	var (
		baseURL = flag.String("base-url", getEnv("NEXTBUS_BASE_URL", nextbus.DefaultBaseURL), "NextBus publicXMLFeed base URL")
		timeout = flag.String("timeout", getEnv("NEXTBUS_TIMEOUT", "30s"), "HTTP request timeout")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <agency> <routeTag> <stopTitleSubstring>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "NextBus Arrival Predictions Lookup\n\n")
		fmt.Fprintf(os.Stderr, "Fetches the stops of a route from the NextBus publicXMLFeed, filters them\n")
		fmt.Fprintf(os.Stderr, "by a title substring (case-sensitive), and prints arrival predictions for\n")
		fmt.Fprintf(os.Stderr, "every matching stop.\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  agency              - transit agency short code (e.g. actransit)\n")
		fmt.Fprintf(os.Stderr, "  routeTag            - route identifier (e.g. 18)\n")
		fmt.Fprintf(os.Stderr, "  stopTitleSubstring  - substring matched against stop titles\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  NEXTBUS_BASE_URL - feed base URL (default: %s)\n", nextbus.DefaultBaseURL)
		fmt.Fprintf(os.Stderr, "  NEXTBUS_TIMEOUT  - HTTP request timeout (default: 30s)\n")
		fmt.Fprintf(os.Stderr, "  LOG_LEVEL        - debug, info, warn, error (default: info)\n")
		fmt.Fprintf(os.Stderr, "  LOG_FORMAT       - text or json (default: text)\n\n")
		fmt.Fprintf(os.Stderr, "Example:\n")
		fmt.Fprintf(os.Stderr, "  %s actransit 18 59th\n\n", os.Args[0])
	}

	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprintf(os.Stderr, "Error: expected 3 arguments, got %d.\n\n", len(args))
		flag.Usage()
		os.Exit(1)
	}

	// Parse timeout
	timeoutDuration, err := time.ParseDuration(*timeout)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	// Initialize logging
	logging.InitLogging()

	// Initialize tracing
	shutdownTracing, err := tracing.InitTracing()
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer shutdownTracing()

	// Initialize metrics
	shutdownMetrics, err := metrics.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer shutdownMetrics()

	// Initialize profiling
	shutdownProfiling, err := profiling.InitProfiling()
	if err != nil {
		log.Fatalf("Failed to initialize profiling: %v", err)
	}
	defer shutdownProfiling()

	client := nextbus.NewClient(*baseURL, timeoutDuration)

	lookupInstance, err := lookup.New(lookup.Config{
		Agency:    args[0],
		Route:     args[1],
		StopQuery: args[2],
	}, client)
	if err != nil {
		log.Fatalf("Failed to create lookup: %v", err)
	}

	// Cancel on SIGINT/SIGTERM so an in-flight fetch is abandoned cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := lookupInstance.Run(ctx); err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}
}

// getEnv returns the value of an environment variable or a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
