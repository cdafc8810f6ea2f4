package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/archivus/archive-service/internal/cache"
	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

// lookupService serves the public academic catalog. Responses are cached
// briefly; the catalog changes only through seeding or admin action.
type lookupService struct {
	repo   repositories.Repository
	cache  *cache.CacheHelper
	logger *slog.Logger
}

func NewLookupService(repo repositories.Repository, cacheHelper *cache.CacheHelper, logger *slog.Logger) LookupService {
	return &lookupService{
		repo:   repo,
		cache:  cacheHelper,
		logger: logger,
	}
}

func (s *lookupService) DegreeLevels(ctx context.Context) ([]*models.DegreeLevel, error) {
	var levels []*models.DegreeLevel
	err := s.cached(ctx, "degree-levels", &levels, func() (interface{}, error) {
		return s.repo.Catalog().DegreeLevels(ctx)
	})
	return levels, err
}

func (s *lookupService) Programs(ctx context.Context, degreeLevelID *uint) ([]*models.Program, error) {
	key := "programs"
	if degreeLevelID != nil {
		key = fmt.Sprintf("programs:%d", *degreeLevelID)
	}
	var programs []*models.Program
	err := s.cached(ctx, key, &programs, func() (interface{}, error) {
		return s.repo.Catalog().Programs(ctx, degreeLevelID)
	})
	return programs, err
}

func (s *lookupService) Courses(ctx context.Context, programID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := s.cached(ctx, fmt.Sprintf("courses:%d", programID), &courses, func() (interface{}, error) {
		return s.repo.Catalog().CoursesByProgram(ctx, programID)
	})
	return courses, err
}

func (s *lookupService) AcademicYears(ctx context.Context) ([]*models.AcademicYear, error) {
	var years []*models.AcademicYear
	err := s.cached(ctx, "academic-years", &years, func() (interface{}, error) {
		return s.repo.Catalog().AcademicYears(ctx)
	})
	return years, err
}

func (s *lookupService) Semesters(ctx context.Context, programID, academicYearID uint) ([]*models.Semester, error) {
	key := fmt.Sprintf("semesters:%d:%d", programID, academicYearID)
	var semesters []*models.Semester
	err := s.cached(ctx, key, &semesters, func() (interface{}, error) {
		return s.repo.Catalog().Semesters(ctx, programID, academicYearID)
	})
	return semesters, err
}

// cached reads through the lookup cache into dest; fetch supplies the
// value on a miss.
func (s *lookupService) cached(ctx context.Context, key string, dest interface{}, fetch func() (interface{}, error)) error {
	if s.cache != nil {
		err := s.cache.Get(ctx, key, dest)
		if err == nil {
			return nil
		}
		if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
			s.logger.Warn("lookup cache read failed", "key", key, "error", err)
		}
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value, cache.LookupCacheConfig.TTL); err != nil {
			s.logger.Warn("lookup cache write failed", "key", key, "error", err)
		}
	}

	// Round-trip through JSON so dest gets the fetched value regardless of
	// the concrete slice type.
	return assign(dest, value)
}
