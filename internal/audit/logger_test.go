package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteAppendsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.jsonl")
	l := NewLogger(path)

	if err := l.Write("127.0.0.1:1234", "fusion", "both", "ok", 120*time.Millisecond, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Write("127.0.0.1:1234", "single", "openai", "bad_request", time.Millisecond, errors.New("boom")); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var recs []Record
	s := bufio.NewScanner(f)
	for s.Scan() {
		var rec Record
		if err := json.Unmarshal(s.Bytes(), &rec); err != nil {
			t.Fatalf("parse line: %v", err)
		}
		recs = append(recs, rec)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Mode != "fusion" || recs[0].Status != "ok" || recs[0].DurationMS != 120 {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if recs[1].Error != "boom" {
		t.Fatalf("error detail lost: %+v", recs[1])
	}
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	l := NewLogger("")
	if l.Enabled() {
		t.Fatal("empty path must disable the logger")
	}
	if err := l.Write("r", "fusion", "both", "ok", 0, nil); err != nil {
		t.Fatalf("disabled write should be a no-op, got %v", err)
	}
}

func TestExportJSONLToCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "requests.jsonl")
	out := filepath.Join(dir, "requests.csv")

	l := NewLogger(in)
	if err := l.Write("10.0.0.1:9", "fusion", "both", "ok", 10*time.Millisecond, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ExportJSONLToCSV(in, out); err != nil {
		t.Fatalf("export: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	got := string(b)
	if want := "ts,remote,mode,model,status,duration_ms,error"; len(got) == 0 || got[:len(want)] != want {
		t.Fatalf("unexpected csv header: %q", got)
	}
}
