package seed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

// memCatalog is a minimal in-memory repository covering the slices of the
// aggregate the seeder touches.
type memCatalog struct {
	degreeLevels  []*models.DegreeLevel
	academicYears []*models.AcademicYear
	aboutContent  *models.AboutUsContent
}

func newMemCatalog() *memCatalog { return &memCatalog{} }

func (m *memCatalog) User() repositories.UserRepository                 { return nil }
func (m *memCatalog) Document() repositories.DocumentRepository         { return nil }
func (m *memCatalog) UploadLog() repositories.UploadLogRepository       { return nil }
func (m *memCatalog) Points() repositories.PointsRepository             { return nil }
func (m *memCatalog) RefreshToken() repositories.RefreshTokenRepository { return nil }
func (m *memCatalog) Dashboard() repositories.DashboardRepository       { return nil }

func (m *memCatalog) Catalog() repositories.CatalogRepository { return (*memCatalogRepo)(m) }
func (m *memCatalog) About() repositories.AboutRepository     { return (*memAboutRepo)(m) }

func (m *memCatalog) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *memCatalog) Ping(ctx context.Context) error { return nil }
func (m *memCatalog) Close() error                   { return nil }

type memCatalogRepo memCatalog

func (r *memCatalogRepo) DegreeLevels(ctx context.Context) ([]*models.DegreeLevel, error) {
	return r.degreeLevels, nil
}

func (r *memCatalogRepo) Programs(ctx context.Context, degreeLevelID *uint) ([]*models.Program, error) {
	return nil, nil
}

func (r *memCatalogRepo) GetProgram(ctx context.Context, id uint) (*models.Program, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memCatalogRepo) CoursesByProgram(ctx context.Context, programID uint) ([]*models.Course, error) {
	return nil, nil
}

func (r *memCatalogRepo) AcademicYears(ctx context.Context) ([]*models.AcademicYear, error) {
	return r.academicYears, nil
}

func (r *memCatalogRepo) AcademicYearCovering(ctx context.Context, year int) (*models.AcademicYear, error) {
	for _, y := range r.academicYears {
		if y.Covers(year) {
			return y, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCatalogRepo) Semesters(ctx context.Context, programID, academicYearID uint) ([]*models.Semester, error) {
	return nil, nil
}

func (r *memCatalogRepo) UpsertDegreeLevel(ctx context.Context, level *models.DegreeLevel) error {
	for _, existing := range r.degreeLevels {
		if existing.Code == level.Code {
			existing.Name = level.Name
			existing.Description = level.Description
			return nil
		}
	}
	level.ID = uint(len(r.degreeLevels) + 1)
	r.degreeLevels = append(r.degreeLevels, level)
	return nil
}

func (r *memCatalogRepo) UpsertAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	for _, existing := range r.academicYears {
		if existing.YearStart == year.YearStart && existing.YearEnd == year.YearEnd {
			return nil
		}
	}
	year.ID = uint(len(r.academicYears) + 1)
	r.academicYears = append(r.academicYears, year)
	return nil
}

type memAboutRepo memCatalog

func (r *memAboutRepo) GetContent(ctx context.Context) (*models.AboutUsContent, error) {
	if r.aboutContent == nil {
		return nil, fmt.Errorf("about content: %w", gorm.ErrRecordNotFound)
	}
	clone := *r.aboutContent
	return &clone, nil
}

func (r *memAboutRepo) UpsertContent(ctx context.Context, content *models.AboutUsContent) error {
	clone := *content
	if clone.ID == 0 {
		clone.ID = 1
	}
	clone.UpdatedAt = time.Now()
	r.aboutContent = &clone
	return nil
}

func (r *memAboutRepo) TeamMembers(ctx context.Context) ([]*models.TeamMember, error) {
	return nil, nil
}

func (r *memAboutRepo) UpsertTeamMember(ctx context.Context, member *models.TeamMember) error {
	return nil
}
