package audit

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ExportJSONLToCSV converts line-delimited JSON request logs into CSV.
func ExportJSONLToCSV(inputPath string, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input request log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output csv: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	if err := w.Write([]string{"ts", "remote", "mode", "model", "status", "duration_ms", "error"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	s := bufio.NewScanner(in)
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("parse request log line: %w", err)
		}
		row := []string{rec.Timestamp, rec.Remote, rec.Mode, rec.Model, rec.Status, strconv.FormatInt(rec.DurationMS, 10), rec.Error}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("scan request log: %w", err)
	}
	return nil
}
