package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

type catalogPostgreSQL struct {
	db *gorm.DB
}

func NewCatalogPostgreSQL(db *gorm.DB) repositories.CatalogRepository {
	return &catalogPostgreSQL{db: db}
}

func (r *catalogPostgreSQL) DegreeLevels(ctx context.Context) ([]*models.DegreeLevel, error) {
	var levels []*models.DegreeLevel
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&levels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list degree levels: %w", err)
	}
	return levels, nil
}

func (r *catalogPostgreSQL) Programs(ctx context.Context, degreeLevelID *uint) ([]*models.Program, error) {
	query := r.db.WithContext(ctx).Preload("DegreeLevel")
	if degreeLevelID != nil {
		query = query.Where("degree_level_id = ?", *degreeLevelID)
	}

	var programs []*models.Program
	if err := query.Order("name ASC").Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (r *catalogPostgreSQL) GetProgram(ctx context.Context, id uint) (*models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).
		Preload("DegreeLevel").
		First(&program, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get program %d: %w", id, err)
	}
	return &program, nil
}

func (r *catalogPostgreSQL) CoursesByProgram(ctx context.Context, programID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("code ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses for program %d: %w", programID, err)
	}
	return courses, nil
}

func (r *catalogPostgreSQL) AcademicYears(ctx context.Context) ([]*models.AcademicYear, error) {
	var years []*models.AcademicYear
	err := r.db.WithContext(ctx).
		Order("year_start DESC").
		Find(&years).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list academic years: %w", err)
	}
	return years, nil
}

func (r *catalogPostgreSQL) AcademicYearCovering(ctx context.Context, year int) (*models.AcademicYear, error) {
	var academicYear models.AcademicYear
	err := r.db.WithContext(ctx).
		Where("year_start <= ? AND year_end >= ?", year, year).
		Order("year_start DESC").
		First(&academicYear).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find academic year covering %d: %w", year, err)
	}
	return &academicYear, nil
}

func (r *catalogPostgreSQL) Semesters(ctx context.Context, programID, academicYearID uint) ([]*models.Semester, error) {
	var semesters []*models.Semester
	err := r.db.WithContext(ctx).
		Preload("AcademicYear").
		Where("program_id = ? AND academic_year_id = ?", programID, academicYearID).
		Order("number ASC").
		Find(&semesters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list semesters: %w", err)
	}
	return semesters, nil
}

// UpsertDegreeLevel inserts the level or refreshes its name and description,
// keyed on the unique code.
func (r *catalogPostgreSQL) UpsertDegreeLevel(ctx context.Context, level *models.DegreeLevel) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "updated_at"}),
		}).
		Create(level).Error
	if err != nil {
		return fmt.Errorf("failed to upsert degree level %s: %w", level.Code, err)
	}
	return nil
}

// UpsertAcademicYear inserts the span if absent; an existing span is left alone.
func (r *catalogPostgreSQL) UpsertAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year_start"}, {Name: "year_end"}},
			DoNothing: true,
		}).
		Create(year).Error
	if err != nil {
		return fmt.Errorf("failed to upsert academic year %s: %w", year, err)
	}
	return nil
}
