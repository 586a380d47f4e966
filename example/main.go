// Package main demonstrates how to use the labeler library.
//
// This example shows:
// 1. Loading the phrase and regex lexicons
// 2. Building the matcher, review detector, and severity engine
// 3. Wiring an external toxicity signal with retry
// 4. Persisting records and review tasks in MySQL
// 5. Classifying posts by text and by URL
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/client"
	"github.com/skymod/labeler/hooks"
	"github.com/skymod/labeler/lexicon"
	"github.com/skymod/labeler/match"
	"github.com/skymod/labeler/posts"
	"github.com/skymod/labeler/severity"
	"github.com/skymod/labeler/signal"
	"github.com/skymod/labeler/signal/perspective"
	sqlstore "github.com/skymod/labeler/store/sql"
)

func main() {
	ctx := context.Background()

	// ============================================================
	// Step 1: Load Lexicons
	// ============================================================
	entries, err := lexicon.LoadFile("labeler-inputs/lexicon.csv")
	if err != nil {
		log.Fatalf("Failed to load lexicon: %v", err)
	}

	reviewEntries, err := lexicon.LoadFile("labeler-inputs/ambiguity.csv")
	if err != nil {
		log.Fatalf("Failed to load ambiguity lexicon: %v", err)
	}

	// ============================================================
	// Step 2: Build the Classification Chain
	// ============================================================
	cfg := labeler.DefaultConfig()

	index, err := match.NewIndex(entries, cfg)
	if err != nil {
		log.Fatalf("Failed to build match index: %v", err)
	}

	review := match.NewReviewIndex(reviewEntries)

	// ============================================================
	// Step 3: Wire the External Toxicity Signal
	// ============================================================
	var source signal.Source = signal.Nop{}
	if key := os.Getenv("PERSPECTIVE_API_KEY"); key != "" {
		pcfg := perspective.DefaultConfig()
		pcfg.APIKey = key
		p, err := perspective.New(pcfg)
		if err != nil {
			log.Fatalf("Failed to create perspective source: %v", err)
		}
		source = signal.NewResilient(p, signal.DefaultResilientConfig())
	}

	engine := severity.NewEngine(cfg, source)

	lab, err := labeler.New(cfg, index, review, engine)
	if err != nil {
		log.Fatalf("Failed to create labeler: %v", err)
	}

	// ============================================================
	// Step 4: Initialize Database Store (optional)
	// ============================================================
	opts := client.DefaultOptions()
	opts.Labeler = lab
	opts.Posts = posts.NewClient(posts.DefaultClientConfig())

	if dsn := os.Getenv("LABELER_MYSQL_DSN"); dsn != "" {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		opts.Store = sqlstore.NewWithDB(db, sqlstore.DialectMySQL)
	}

	// ============================================================
	// Step 5: Implement Hooks
	// ============================================================
	opts.Hooks = hooks.FuncHooks{
		OnPostLabeledFunc: func(ctx context.Context, e hooks.PostLabeledEvent) error {
			log.Printf("[Hook] Labeled %s (cached=%v): %v", e.PostURI, e.Cached, e.Result.Labels)
			return nil
		},
		OnReviewFlaggedFunc: func(ctx context.Context, e hooks.ReviewFlaggedEvent) error {
			log.Printf("[Hook] Review queued for %s: task %s", e.PostURI, e.TaskID)
			return nil
		},
		OnSeverityEscalatedFunc: func(ctx context.Context, e hooks.SeverityEscalatedEvent) error {
			log.Printf("[Hook] High severity on %s: level %d (score %.1f)", e.PostURI, e.Severity, e.Score)
			return nil
		},
	}

	svc, err := client.New(opts)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	// ============================================================
	// Step 6: Classify
	// ============================================================
	samples := []string{
		"what a lovely day on the timeline",
		"if you leave me I will hurt myself, just kidding lol",
	}

	for _, text := range samples {
		callCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		result, err := svc.LabelText(callCtx, "", text)
		cancel()
		if err != nil {
			log.Printf("classification failed: %v", err)
			continue
		}
		log.Printf("%q -> %v (severity %s, review=%v)",
			text, result.Labels, result.Severity, result.NeedsReview)
	}

	// Classify a live post by URL.
	if ref := os.Getenv("LABELER_EXAMPLE_POST"); ref != "" {
		callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		result, err := svc.LabelPost(callCtx, ref)
		cancel()
		if err != nil {
			log.Fatalf("Failed to label post %s: %v", ref, err)
		}
		log.Printf("%s -> %v", ref, result.Labels)
	}
}
