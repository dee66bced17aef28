package record

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/echomind-io/echomind/internal/config"
	"github.com/echomind-io/echomind/internal/models"
)

func readRecords(t *testing.T, path string) []models.Record {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer f.Close()

	var records []models.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec models.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("malformed record %q: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}
	return records
}

func TestRecorderWritesJSONLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	r, err := New(dir, "20250102_030405")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.Data(models.ChannelInput, []byte("echo hi\r")); err != nil {
		t.Fatalf("Data: %v", err)
	}
	if err := r.Data(models.ChannelOutput, []byte("hi\r\n")); err != nil {
		t.Fatalf("Data: %v", err)
	}
	if err := r.System("session ended: shell exited"); err != nil {
		t.Fatalf("System: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records := readRecords(t, filepath.Join(dir, config.SessionLogFileName))
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].Channel != models.ChannelInput || records[0].Data != "echo hi\r" {
		t.Errorf("input record = %+v", records[0])
	}
	if records[1].Channel != models.ChannelOutput || records[1].Data != "hi\r\n" {
		t.Errorf("output record = %+v", records[1])
	}
	if records[2].Channel != models.ChannelSystem {
		t.Errorf("system record = %+v", records[2])
	}
	for i, rec := range records {
		if rec.SessionID != "20250102_030405" {
			t.Errorf("record %d session id = %q", i, rec.SessionID)
		}
		if rec.Timestamp == "" {
			t.Errorf("record %d has no timestamp", i)
		}
	}
}

func TestRecorderRestrictsDirPermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	r, err := New(dir, "s1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("log dir perm = %o, want 700", perm)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "plain", in: []byte("hello"), want: "hello"},
		{name: "sgr color", in: []byte("\x1b[32mok\x1b[0m"), want: "ok"},
		{name: "cursor movement", in: []byte("\x1b[2Jcleared"), want: "cleared"},
		{name: "invalid utf8", in: []byte{'h', 'i', 0xff}, want: "hi�"},
		{name: "keeps newlines", in: []byte("a\r\nb"), want: "a\r\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
