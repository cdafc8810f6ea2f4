package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/archivus/archive-service/internal/models"
)

func TestDashboardServiceAdmin(t *testing.T) {
	repo := newMemRepository()
	svc := NewDashboardService(repo, nil, testLogger())
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	student := &models.User{Email: "s@archivus.test", Role: models.RoleStudent, IsActive: true}
	if err := repo.User().Create(ctx, student); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	for _, status := range []models.DocumentStatus{models.StatusPending, models.StatusApproved, models.StatusApproved} {
		doc := &models.Document{UploaderID: student.ID, Title: "doc", DocType: models.DocNotes, Status: status, FileKey: "k"}
		if err := repo.Document().Create(ctx, doc); err != nil {
			t.Fatalf("seed document: %v", err)
		}
	}

	resp, err := svc.GetDashboard(ctx, admin)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if resp.Admin == nil || resp.Student != nil {
		t.Fatal("admin actor should get the admin shape only")
	}
	if resp.Admin.Users.Total != 2 {
		t.Errorf("total users = %d, want 2", resp.Admin.Users.Total)
	}
	if resp.Admin.TotalDocs != 3 {
		t.Errorf("total documents = %d, want 3", resp.Admin.TotalDocs)
	}
	if resp.Admin.Documents[models.StatusApproved] != 2 {
		t.Errorf("approved count = %d, want 2", resp.Admin.Documents[models.StatusApproved])
	}
	if resp.Admin.Documents[models.StatusRejected] != 0 {
		t.Errorf("rejected count = %d, want 0", resp.Admin.Documents[models.StatusRejected])
	}
}

func TestDashboardServiceStaffHasNoDashboard(t *testing.T) {
	repo := newMemRepository()
	svc := NewDashboardService(repo, nil, testLogger())
	staff := seedUser(t, repo, models.RoleStaff)

	_, err := svc.GetDashboard(context.Background(), staff)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("staff GetDashboard = %v, want ErrForbidden", err)
	}
}

func TestDashboardServiceStudent(t *testing.T) {
	repo := newMemRepository()
	svc := NewDashboardService(repo, nil, testLogger())
	ctx := context.Background()

	// Catalog: one program under one degree level, with the current
	// academic year and a semester.
	level := &models.DegreeLevel{Code: models.DegreeUndergraduate, Name: "Undergraduate"}
	if err := repo.Catalog().UpsertDegreeLevel(ctx, level); err != nil {
		t.Fatalf("seed degree level: %v", err)
	}
	now := time.Now().Year()
	year := &models.AcademicYear{YearStart: now, YearEnd: now + 1}
	if err := repo.Catalog().UpsertAcademicYear(ctx, year); err != nil {
		t.Fatalf("seed academic year: %v", err)
	}
	repo.programs = append(repo.programs, &models.Program{ID: 1, DegreeLevelID: level.ID, Name: "Computer Science"})
	repo.courses = append(repo.courses, &models.Course{ID: 1, ProgramID: 1, Code: "CS101", Name: "Intro"})
	repo.semesters = append(repo.semesters, &models.Semester{ID: 1, ProgramID: 1, AcademicYearID: year.ID, Name: models.SemesterFall, Number: 1})

	programID := uint(1)
	enrollment := now
	student := &models.User{
		Email:          "enrolled@archivus.test",
		Role:           models.RoleStudent,
		IsActive:       true,
		ProgramID:      &programID,
		EnrollmentYear: &enrollment,
		Points:         ApprovalAward,
	}
	if err := repo.User().Create(ctx, student); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	doc := &models.Document{UploaderID: student.ID, Title: "mine", DocType: models.DocNotes, Status: models.StatusApproved, FileKey: "k"}
	if err := repo.Document().Create(ctx, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	resp, err := svc.GetDashboard(ctx, student)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if resp.Student == nil || resp.Admin != nil {
		t.Fatal("student actor should get the student shape only")
	}
	if resp.Student.Points != ApprovalAward {
		t.Errorf("points = %d, want %d", resp.Student.Points, ApprovalAward)
	}
	if resp.Student.Documents[models.StatusApproved] != 1 {
		t.Errorf("approved count = %d, want 1", resp.Student.Documents[models.StatusApproved])
	}
	if resp.Student.Academic == nil {
		t.Fatal("enrolled student should get an academic summary")
	}
	if resp.Student.Academic.AcademicYear == nil || !resp.Student.Academic.AcademicYear.Covers(now) {
		t.Errorf("academic year = %+v, want one covering %d", resp.Student.Academic.AcademicYear, now)
	}
	if len(resp.Student.Academic.Semesters) != 1 {
		t.Errorf("semesters = %d, want 1", len(resp.Student.Academic.Semesters))
	}
}

func TestDashboardServiceStudentWithoutProgram(t *testing.T) {
	repo := newMemRepository()
	svc := NewDashboardService(repo, nil, testLogger())
	student := seedUser(t, repo, models.RoleStudent)

	resp, err := svc.GetDashboard(context.Background(), student)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if resp.Student.Academic != nil {
		t.Error("unenrolled student should have no academic summary")
	}
}

func TestDashboardServiceUnknownRole(t *testing.T) {
	repo := newMemRepository()
	svc := NewDashboardService(repo, nil, testLogger())

	actor := &models.User{ID: 1, Role: "auditor"}
	if _, err := svc.GetDashboard(context.Background(), actor); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetDashboard(unknown role) = %v, want ErrForbidden", err)
	}
}
