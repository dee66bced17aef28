package tailer

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/echomind-io/echomind/internal/config"
	"github.com/echomind-io/echomind/internal/models"
	"github.com/echomind-io/echomind/internal/record"
	"github.com/echomind-io/echomind/internal/segment"
)

// TestPipelineEndToEnd covers the whole consumer side: records written by
// the proxy's recorder are tailed, segmented into one interaction, and
// handed to the backend exactly once, even when the backend fails.
func TestPipelineEndToEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	rec, err := record.New(dir, "20250102_030405")
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}

	if err := rec.System("session started: shell=/bin/zsh"); err != nil {
		t.Fatalf("System: %v", err)
	}
	if err := rec.Data(models.ChannelInput, []byte("echo hi\r")); err != nil {
		t.Fatalf("Data: %v", err)
	}
	if err := rec.Data(models.ChannelOutput, []byte("hi\r\n")); err != nil {
		t.Fatalf("Data: %v", err)
	}
	if err := rec.Data(models.ChannelOutput, []byte("user@host %")); err != nil {
		t.Fatalf("Data: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var interactions []models.Interaction
	seg := segment.New("%", func(i models.Interaction) {
		interactions = append(interactions, i)
		panic("simulated backend transport failure")
	})

	feed := func(r models.Record) {
		defer func() { _ = recover() }()
		seg.Feed(r)
	}

	path := filepath.Join(dir, config.SessionLogFileName)
	if err := New(path, false, 0).Run(context.Background(), feed); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(interactions) != 1 {
		t.Fatalf("expected exactly 1 interaction, got %d", len(interactions))
	}
	got := interactions[0]
	if got.SessionID != "20250102_030405" {
		t.Errorf("session id = %q", got.SessionID)
	}
	want := []string{"echo hi", "hi", "user@host %"}
	if !reflect.DeepEqual(got.Lines, want) {
		t.Errorf("lines = %v, want %v", got.Lines, want)
	}
	if seg.Accumulating() {
		t.Error("segmenter stranded after backend failure")
	}
}
