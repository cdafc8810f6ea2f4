package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/archivus/archive-service/internal/cache"
	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/repositories/postgres"
)

const (
	recentUploadsLimit = 10
	recentReviewsLimit = 10
	studentRecentLimit = 5
)

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheHelper
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, cacheHelper *cache.CacheHelper, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cacheHelper,
		logger: logger,
	}
}

// GetDashboard composes the role-appropriate overview. Only admins and
// students have a dashboard; every other role is rejected.
func (s *dashboardService) GetDashboard(ctx context.Context, actor *models.User) (*DashboardResponse, error) {
	switch actor.Role {
	case models.RoleAdmin:
		admin, err := s.adminDashboard(ctx)
		if err != nil {
			return nil, err
		}
		return &DashboardResponse{Role: actor.Role, Admin: admin}, nil
	case models.RoleStudent:
		student, err := s.studentDashboard(ctx, actor)
		if err != nil {
			return nil, err
		}
		return &DashboardResponse{Role: actor.Role, Student: student}, nil
	default:
		return nil, fmt.Errorf("no dashboard for role %q: %w", actor.Role, ErrForbidden)
	}
}

func (s *dashboardService) adminDashboard(ctx context.Context) (*AdminDashboardResponse, error) {
	const cacheKey = "admin"

	if s.cache != nil {
		var cached AdminDashboardResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
			s.logger.Warn("dashboard cache read failed", "error", err)
		}
	}

	userCounts, err := s.repo.Dashboard().GetUserCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user counts: %w", err)
	}

	docCounts, err := s.repo.Dashboard().GetDocumentCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get document counts: %w", err)
	}
	var totalDocs int64
	for _, n := range docCounts {
		totalDocs += n
	}

	recentUploads, err := s.repo.Document().Recent(ctx, nil, recentUploadsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent uploads: %w", err)
	}

	recentReviews, err := s.repo.UploadLog().Recent(ctx, recentReviewsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent reviews: %w", err)
	}

	resp := &AdminDashboardResponse{
		Users: AdminUserStats{
			Total:  userCounts.Total,
			Active: userCounts.Active,
			ByRole: userCounts.ByRole,
		},
		Documents:     docCounts,
		TotalDocs:     totalDocs,
		RecentUploads: recentUploads,
		RecentReviews: recentReviews,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, cache.DashboardCacheConfig.TTL); err != nil {
			s.logger.Warn("dashboard cache write failed", "error", err)
		}
	}

	return resp, nil
}

func (s *dashboardService) studentDashboard(ctx context.Context, actor *models.User) (*StudentDashboardResponse, error) {
	recentPoints, err := s.repo.Points().Recent(ctx, actor.ID, studentRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get points history: %w", err)
	}

	docCounts, err := s.repo.Document().CountByStatus(ctx, &actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document counts: %w", err)
	}

	recentUploads, err := s.repo.Document().Recent(ctx, &actor.ID, studentRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent uploads: %w", err)
	}

	resp := &StudentDashboardResponse{
		Points:        actor.Points,
		RecentPoints:  recentPoints,
		Documents:     docCounts,
		RecentUploads: recentUploads,
	}

	academic, err := s.academicSummary(ctx, actor)
	if err != nil {
		// The academic panel is supplementary; a catalog gap does not take
		// down the whole dashboard.
		s.logger.Warn("failed to build academic summary", "user_id", actor.ID, "error", err)
	} else {
		resp.Academic = academic
	}

	return resp, nil
}

// academicSummary builds the program panel with the current academic
// year's semesters and their course listings. Nil when not enrolled.
func (s *dashboardService) academicSummary(ctx context.Context, actor *models.User) (*AcademicSummary, error) {
	if actor.ProgramID == nil {
		return nil, nil
	}

	program, err := s.repo.Catalog().GetProgram(ctx, *actor.ProgramID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	summary := &AcademicSummary{
		Program:        program,
		DegreeLevel:    program.DegreeLevel,
		EnrollmentYear: actor.EnrollmentYear,
	}

	year, err := s.currentAcademicYear(ctx)
	if err != nil || year == nil {
		return summary, err
	}
	summary.AcademicYear = year

	semesters, err := s.repo.Catalog().Semesters(ctx, program.ID, year.ID)
	if err != nil {
		return nil, err
	}

	courses, err := s.repo.Catalog().CoursesByProgram(ctx, program.ID)
	if err != nil {
		return nil, err
	}

	for _, sem := range semesters {
		summary.Semesters = append(summary.Semesters, &SemesterCourses{
			Semester: sem,
			Courses:  courses,
		})
	}
	return summary, nil
}

func (s *dashboardService) currentAcademicYear(ctx context.Context) (*models.AcademicYear, error) {
	year, err := s.repo.Catalog().AcademicYearCovering(ctx, time.Now().Year())
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return year, nil
}
