// Package main is the entry point for the echomind-listen log listener.
//
// The listener is a wholly separate process from the capture proxy; the
// session log file on disk is the only thing they share.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/echomind-io/echomind/internal/analysis"
	"github.com/echomind-io/echomind/internal/config"
	"github.com/echomind-io/echomind/internal/models"
	"github.com/echomind-io/echomind/internal/render"
	"github.com/echomind-io/echomind/internal/segment"
	"github.com/echomind-io/echomind/internal/tailer"
)

func main() {
	logDir := flag.String("log-dir", "", "directory containing session logs (default ~/.echomind/logs)")
	logFile := flag.String("log-file", config.SessionLogFileName, "name of the log file to follow")
	noFollow := flag.Bool("no-follow", false, "read the log once and exit instead of following")
	marker := flag.String("marker", "", "prompt marker that ends an interaction (default from settings)")
	model := flag.String("model", "", "Ollama model to use (default from settings)")
	backendURL := flag.String("backend-url", "", "Ollama base URL (default from settings)")
	noClear := flag.Bool("no-clear", false, "do not clear the display between interactions")
	flag.Parse()

	log.SetPrefix("[echomind-listen] ")
	log.SetFlags(log.Ldate | log.Ltime)

	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
		settings = models.NewSettings()
	}
	applyFlagOverrides(settings, *marker, *model, *backendURL)

	dir := *logDir
	if dir == "" {
		dir, err = config.GlobalLogsDir()
		if err != nil {
			log.Fatalf("Failed to resolve log directory: %v", err)
		}
	}
	path := filepath.Join(dir, *logFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := analysis.NewOllama(
		settings.Backend.Model,
		settings.Backend.URL,
		time.Duration(settings.Backend.Timeout)*time.Second,
	)
	renderer := render.New(os.Stdout, !*noClear)

	segmenter := segment.New(settings.Listener.PromptMarker, func(interaction models.Interaction) {
		renderer.Interaction(interaction, backend.Analyze(ctx, interaction))
	})

	interval := time.Duration(settings.Listener.PollInterval) * time.Millisecond
	t := tailer.New(path, !*noFollow, interval)
	if err := t.Run(ctx, segmenter.Feed); err != nil {
		log.Fatalf("Tail failed: %v", err)
	}
}

// applyFlagOverrides lets flags take precedence over settings.yaml.
func applyFlagOverrides(settings *models.Settings, marker, model, backendURL string) {
	if marker != "" {
		settings.Listener.PromptMarker = marker
	}
	if model != "" {
		settings.Backend.Model = model
	}
	if backendURL != "" {
		settings.Backend.URL = backendURL
	}
}
