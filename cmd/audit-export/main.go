package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/your-org/chat-fusion/internal/audit"
)

func main() {
	in := flag.String("in", "", "path to the JSONL request log")
	out := flag.String("out", "", "path for the CSV output")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: audit-export -in requests.jsonl -out requests.csv")
		os.Exit(2)
	}

	if err := audit.ExportJSONLToCSV(*in, *out); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
}
