package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/cartlens-org/cartlens/pipeline"
)

// ============================================================================
// PREPARE CLI — raw source tables → denormalized CSV export
// ============================================================================

const version = "0.1.0"

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	csvDir := flag.String("csv-dir", "", "Directory with raw CSV tables (orders.csv, customers.csv, ...)")
	sqlitePath := flag.String("sqlite", "", "SQLite database with raw tables (alternative to --csv-dir)")
	outPath := flag.String("out", getEnv("EXPORT_PATH", "out/orders.csv"), "Export file path")
	reportJSON := flag.Bool("report-json", false, "Print the run report as JSON")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `cartlens prepare — build the denormalized order export

Usage:
  prepare --csv-dir data/raw --out out/orders.csv
  prepare --sqlite data/orders.db --out out/orders.csv --report-json

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  EXPORT_PATH    Default export path (overridden by --out)
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("prepare %s\n", version)
		os.Exit(0)
	}

	var src pipeline.Source
	switch {
	case *csvDir != "" && *sqlitePath != "":
		fatalf("--csv-dir and --sqlite are mutually exclusive")
	case *csvDir != "":
		src = pipeline.CSVSource{Dir: *csvDir}
	case *sqlitePath != "":
		src = pipeline.SQLiteSource{Path: *sqlitePath}
	default:
		fmt.Fprintln(os.Stderr, "Error: one of --csv-dir or --sqlite is required")
		flag.Usage()
		os.Exit(1)
	}

	report, err := pipeline.Run(src, *outPath)
	if err != nil {
		fatalf("pipeline failed: %v", err)
	}

	if *reportJSON {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Rows read: orders=%d customers=%d items=%d products=%d reviews=%d\n",
		report.Orders, report.Customers, report.Items, report.Products, report.Reviews)
	if d := report.Join.Dropped(); d > 0 {
		fmt.Printf("Rows dropped (unresolved keys): %d\n", d)
	}
	if c := report.Join.DuplicateReviews; c > 0 {
		fmt.Printf("Duplicate reviews collapsed: %d\n", c)
	}
	fmt.Printf("Rows exported: %d\n", report.Exported)
	fmt.Printf("Export: %s\n", *outPath)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
