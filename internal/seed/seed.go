package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/repositories/postgres"
)

// academicYearSpan is how many years of academic years to keep seeded,
// counting back from the current year.
const academicYearSpan = 5

// Run seeds the reference data the application expects: the degree levels,
// a rolling span of academic years, and the about-us singleton. Every write
// is an upsert keyed on natural unique columns, so repeated runs are safe.
func Run(ctx context.Context, repo repositories.Repository, logger *slog.Logger) error {
	if err := seedDegreeLevels(ctx, repo); err != nil {
		return fmt.Errorf("seed degree levels: %w", err)
	}
	if err := seedAcademicYears(ctx, repo); err != nil {
		return fmt.Errorf("seed academic years: %w", err)
	}
	if err := seedAboutUs(ctx, repo); err != nil {
		return fmt.Errorf("seed about us: %w", err)
	}

	logger.Info("reference data seeded")
	return nil
}

func seedDegreeLevels(ctx context.Context, repo repositories.Repository) error {
	describe := func(s string) *string { return &s }

	levels := []*models.DegreeLevel{
		{Code: models.DegreeUndergraduate, Name: "Undergraduate", Description: describe("Bachelor's degree programs")},
		{Code: models.DegreePostgraduate, Name: "Postgraduate", Description: describe("Master's degree programs")},
		{Code: models.DegreeDoctorate, Name: "Doctorate", Description: describe("Doctoral programs")},
	}
	for _, level := range levels {
		if err := repo.Catalog().UpsertDegreeLevel(ctx, level); err != nil {
			return err
		}
	}
	return nil
}

func seedAcademicYears(ctx context.Context, repo repositories.Repository) error {
	current := time.Now().Year()
	for start := current - academicYearSpan + 1; start <= current; start++ {
		year := &models.AcademicYear{YearStart: start, YearEnd: start + 1}
		if err := repo.Catalog().UpsertAcademicYear(ctx, year); err != nil {
			return err
		}
	}
	return nil
}

func seedAboutUs(ctx context.Context, repo repositories.Repository) error {
	existing, err := repo.About().GetContent(ctx)
	if err != nil && !postgres.IsNotFound(err) {
		return err
	}
	if existing != nil {
		// Never overwrite admin-edited copy.
		return nil
	}

	return repo.About().UpsertContent(ctx, &models.AboutUsContent{
		Title:        "About Archivus",
		AboutText:    "Archivus is a shared archive of course documents, built by students for students.",
		MissionTitle: "Our Mission",
		MissionText:  "Make every approved exam, assignment and set of notes easy to find for the people who come after you.",
	})
}
