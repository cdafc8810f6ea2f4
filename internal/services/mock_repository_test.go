package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

// memRepository is an in-memory repositories.Repository for service tests.
// Transactions are not isolated; WithTransaction simply runs fn against the
// same store, which is enough to exercise the service-level sequencing.
type memRepository struct {
	mu sync.Mutex

	users         map[uint]*models.User
	nextUserID    uint
	documents     map[uint]*models.Document
	nextDocID     uint
	uploadLogs    []*models.UploadLog
	nextLogID     uint
	points        []*models.PointsHistory
	nextPointID   uint
	refreshTokens map[string]*models.RefreshTokenRecord

	degreeLevels  []*models.DegreeLevel
	programs      []*models.Program
	courses       []*models.Course
	academicYears []*models.AcademicYear
	semesters     []*models.Semester

	aboutContent *models.AboutUsContent
	teamMembers  []*models.TeamMember
}

func newMemRepository() *memRepository {
	return &memRepository{
		users:         make(map[uint]*models.User),
		nextUserID:    1,
		documents:     make(map[uint]*models.Document),
		nextDocID:     1,
		nextLogID:     1,
		nextPointID:   1,
		refreshTokens: make(map[string]*models.RefreshTokenRecord),
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, gorm.ErrRecordNotFound)
}

func (m *memRepository) User() repositories.UserRepository               { return (*memUserRepo)(m) }
func (m *memRepository) Catalog() repositories.CatalogRepository         { return (*memCatalogRepo)(m) }
func (m *memRepository) Document() repositories.DocumentRepository       { return (*memDocumentRepo)(m) }
func (m *memRepository) UploadLog() repositories.UploadLogRepository     { return (*memUploadLogRepo)(m) }
func (m *memRepository) Points() repositories.PointsRepository           { return (*memPointsRepo)(m) }
func (m *memRepository) RefreshToken() repositories.RefreshTokenRepository {
	return (*memRefreshTokenRepo)(m)
}
func (m *memRepository) Dashboard() repositories.DashboardRepository { return (*memDashboardRepo)(m) }
func (m *memRepository) About() repositories.AboutRepository         { return (*memAboutRepo)(m) }

func (m *memRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memRepository) Ping(ctx context.Context) error { return nil }
func (m *memRepository) Close() error                   { return nil }

// ===== users =====

type memUserRepo memRepository

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextUserID
	r.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, notFound("get user by id")
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, notFound("get user by email")
}

func (r *memUserRepo) GetByOAuth(ctx context.Context, provider models.OAuthProvider, oauthID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.OAuthProvider != nil && *u.OAuthProvider == provider && u.OAuthID != nil && *u.OAuthID == oauthID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, notFound("get user by oauth")
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username != nil && *u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return notFound("update user")
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) AddPoints(ctx context.Context, userID uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return notFound("add points")
	}
	u.Points += delta
	return nil
}

// ===== catalog =====

type memCatalogRepo memRepository

func (r *memCatalogRepo) DegreeLevels(ctx context.Context) ([]*models.DegreeLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.DegreeLevel(nil), r.degreeLevels...), nil
}

func (r *memCatalogRepo) Programs(ctx context.Context, degreeLevelID *uint) ([]*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Program
	for _, p := range r.programs {
		if degreeLevelID == nil || p.DegreeLevelID == *degreeLevelID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memCatalogRepo) GetProgram(ctx context.Context, id uint) (*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.programs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, notFound("get program")
}

func (r *memCatalogRepo) CoursesByProgram(ctx context.Context, programID uint) ([]*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Course
	for _, c := range r.courses {
		if c.ProgramID == programID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCatalogRepo) AcademicYears(ctx context.Context) ([]*models.AcademicYear, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.AcademicYear(nil), r.academicYears...), nil
}

func (r *memCatalogRepo) AcademicYearCovering(ctx context.Context, year int) (*models.AcademicYear, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, y := range r.academicYears {
		if y.Covers(year) {
			return y, nil
		}
	}
	return nil, notFound("academic year covering")
}

func (r *memCatalogRepo) Semesters(ctx context.Context, programID, academicYearID uint) ([]*models.Semester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Semester
	for _, s := range r.semesters {
		if s.ProgramID == programID && s.AcademicYearID == academicYearID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memCatalogRepo) UpsertDegreeLevel(ctx context.Context, level *models.DegreeLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.academicYears {
		if existing.YearStart == year.YearStart && existing.YearEnd == year.YearEnd {
			return nil
		}
	}
	year.ID = uint(len(r.academicYears) + 1)
	r.academicYears = append(r.academicYears, year)
	return nil
}

// ===== documents =====

type memDocumentRepo memRepository

func (r *memDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = r.nextDocID
	r.nextDocID++
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	clone := *doc
	r.documents[doc.ID] = &clone
	return nil
}

func (r *memDocumentRepo) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	if !ok {
		return nil, notFound("get document")
	}
	clone := *d
	return &clone, nil
}

func (r *memDocumentRepo) Update(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.documents[doc.ID]
	if !ok {
		return notFound("update document")
	}
	existing.Title = doc.Title
	existing.DocType = doc.DocType
	existing.CourseID = doc.CourseID
	existing.AcademicYearID = doc.AcademicYearID
	existing.SemesterNumber = doc.SemesterNumber
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *memDocumentRepo) UpdateStatus(ctx context.Context, id uint, status models.DocumentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	if !ok {
		return notFound("update document status")
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	return nil
}

func (r *memDocumentRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[id]; !ok {
		return notFound("delete document")
	}
	delete(r.documents, id)
	return nil
}

func (r *memDocumentRepo) List(ctx context.Context, filters repositories.DocumentFilters, scope repositories.DocumentScope) ([]*models.Document, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Document
	for _, d := range r.documents {
		if scope.Restricted && d.Status != models.StatusApproved && d.UploaderID != scope.ActorID {
			continue
		}
		if filters.Status != nil && d.Status != *filters.Status {
			continue
		}
		if filters.UploaderID != nil && d.UploaderID != *filters.UploaderID {
			continue
		}
		if filters.DocType != nil && d.DocType != *filters.DocType {
			continue
		}
		if filters.CourseID != nil && (d.CourseID == nil || *d.CourseID != *filters.CourseID) {
			continue
		}
		clone := *d
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(matched) > filters.Limit {
		matched = matched[:filters.Limit]
	}
	return matched, total, nil
}

func (r *memDocumentRepo) CountByStatus(ctx context.Context, uploaderID *uint) (map[models.DocumentStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.DocumentStatus]int64{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for _, d := range r.documents {
		if uploaderID != nil && d.UploaderID != *uploaderID {
			continue
		}
		counts[d.Status]++
	}
	return counts, nil
}

func (r *memDocumentRepo) Recent(ctx context.Context, uploaderID *uint, limit int) ([]*models.Document, error) {
	docs, _, err := r.List(ctx, repositories.DocumentFilters{UploaderID: uploaderID, Limit: limit}, repositories.DocumentScope{})
	return docs, err
}

func (r *memDocumentRepo) ListAll(ctx context.Context) ([]*models.Document, error) {
	docs, _, err := r.List(ctx, repositories.DocumentFilters{}, repositories.DocumentScope{})
	return docs, err
}

// ===== upload logs =====

type memUploadLogRepo memRepository

func (r *memUploadLogRepo) Append(ctx context.Context, log *models.UploadLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = r.nextLogID
	r.nextLogID++
	clone := *log
	r.uploadLogs = append(r.uploadLogs, &clone)
	return nil
}

func (r *memUploadLogRepo) ListByDocument(ctx context.Context, documentID uint) ([]*models.UploadLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UploadLog
	for _, l := range r.uploadLogs {
		if l.DocumentID == documentID {
			clone := *l
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewTime.After(out[j].ReviewTime) })
	return out, nil
}

func (r *memUploadLogRepo) Recent(ctx context.Context, limit int) ([]*models.UploadLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*models.UploadLog(nil), r.uploadLogs...)
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewTime.After(out[j].ReviewTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ===== points =====

type memPointsRepo memRepository

func (r *memPointsRepo) Append(ctx context.Context, entry *models.PointsHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextPointID
	r.nextPointID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	clone := *entry
	r.points = append(r.points, &clone)
	return nil
}

func (r *memPointsRepo) Recent(ctx context.Context, userID uint, limit int) ([]*models.PointsHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PointsHistory
	for _, e := range r.points {
		if e.UserID == userID {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ===== refresh tokens =====

type memRefreshTokenRepo memRepository

func (r *memRefreshTokenRepo) Create(ctx context.Context, record *models.RefreshTokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *record
	r.refreshTokens[record.ID] = &clone
	return nil
}

func (r *memRefreshTokenRepo) GetByID(ctx context.Context, jti string) (*models.RefreshTokenRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.refreshTokens[jti]
	if !ok {
		return nil, notFound("get refresh token")
	}
	clone := *rec
	return &clone, nil
}

func (r *memRefreshTokenRepo) Revoke(ctx context.Context, jti string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.refreshTokens[jti]
	if !ok || rec.RevokedAt != nil {
		return notFound("revoke refresh token")
	}
	rec.RevokedAt = &at
	return nil
}

func (r *memRefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for jti, rec := range r.refreshTokens {
		if rec.ExpiresAt.Before(before) {
			delete(r.refreshTokens, jti)
			removed++
		}
	}
	return removed, nil
}

// ===== dashboard =====

type memDashboardRepo memRepository

func (r *memDashboardRepo) GetUserCounts(ctx context.Context) (*repositories.UserCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &repositories.UserCounts{ByRole: make(map[models.UserRole]int64)}
	for _, u := range r.users {
		counts.Total++
		if u.IsActive && !u.IsBanned {
			counts.Active++
		}
		counts.ByRole[u.Role]++
	}
	return counts, nil
}

func (r *memDashboardRepo) GetDocumentCounts(ctx context.Context) (map[models.DocumentStatus]int64, error) {
	return (*memDocumentRepo)(r).CountByStatus(ctx, nil)
}

// ===== about =====

type memAboutRepo memRepository

func (r *memAboutRepo) GetContent(ctx context.Context) (*models.AboutUsContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aboutContent == nil {
		return nil, notFound("get about content")
	}
	clone := *r.aboutContent
	return &clone, nil
}

func (r *memAboutRepo) UpsertContent(ctx context.Context, content *models.AboutUsContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *content
	if clone.ID == 0 {
		clone.ID = 1
	}
	r.aboutContent = &clone
	return nil
}

func (r *memAboutRepo) TeamMembers(ctx context.Context) ([]*models.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.TeamMember(nil), r.teamMembers...), nil
}

func (r *memAboutRepo) UpsertTeamMember(ctx context.Context, member *models.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.teamMembers {
		if existing.ID == member.ID {
			clone := *member
			r.teamMembers[i] = &clone
			return nil
		}
	}
	if member.ID == 0 {
		member.ID = uint(len(r.teamMembers) + 1)
	}
	clone := *member
	r.teamMembers = append(r.teamMembers, &clone)
	return nil
}

// ===== storage fake =====

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	payload, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = payload
	return nil
}

func (s *memStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStorage) URL(key string) string {
	return "https://storage.test/" + key
}
