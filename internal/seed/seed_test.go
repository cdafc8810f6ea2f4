package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestRunIsIdempotent(t *testing.T) {
	repo := newMemCatalog()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := Run(ctx, repo, logger); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}

	levels, err := repo.Catalog().DegreeLevels(ctx)
	if err != nil {
		t.Fatalf("DegreeLevels: %v", err)
	}
	if len(levels) != 3 {
		t.Errorf("degree levels = %d, want 3", len(levels))
	}

	years, err := repo.Catalog().AcademicYears(ctx)
	if err != nil {
		t.Fatalf("AcademicYears: %v", err)
	}
	if len(years) != academicYearSpan {
		t.Errorf("academic years = %d, want %d", len(years), academicYearSpan)
	}
	var covered bool
	for _, y := range years {
		if y.Covers(time.Now().Year()) {
			covered = true
		}
	}
	if !covered {
		t.Error("no seeded academic year covers the current year")
	}

	content, err := repo.About().GetContent(ctx)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if content.Title == "" {
		t.Error("about-us content has no title")
	}
}

func TestRunPreservesEditedAboutUs(t *testing.T) {
	repo := newMemCatalog()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	if err := Run(ctx, repo, logger); err != nil {
		t.Fatalf("Run: %v", err)
	}

	content, err := repo.About().GetContent(ctx)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	content.Title = "About Our Archive"
	if err := repo.About().UpsertContent(ctx, content); err != nil {
		t.Fatalf("UpsertContent: %v", err)
	}

	if err := Run(ctx, repo, logger); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	content, _ = repo.About().GetContent(ctx)
	if content.Title != "About Our Archive" {
		t.Errorf("title = %q, want the edited copy preserved", content.Title)
	}
}
