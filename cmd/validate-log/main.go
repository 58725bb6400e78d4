package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/upb/observability-platform/eventlog"
)

func main() {
	logFile := flag.String("log-file", eventlog.DefaultLogFile, "path to the JSONL event log")
	flag.Parse()

	store := eventlog.NewStore(*logFile)
	report, err := store.Validate()
	if err != nil {
		log.Fatalf("validation failed: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode report: %v", err)
	}
	fmt.Println(string(out))

	if report.ErrorCount > 0 {
		os.Exit(1)
	}
}
