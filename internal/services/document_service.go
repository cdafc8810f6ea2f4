package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/archivus/archive-service/internal/events"
	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/repositories/postgres"
	"github.com/archivus/archive-service/internal/storage"
	"github.com/archivus/archive-service/internal/validator"
)

type documentService struct {
	repo      repositories.Repository
	store     storage.Storage
	publisher events.Publisher
	validator *validator.BusinessValidator
	logger    *slog.Logger
}

func NewDocumentService(repo repositories.Repository, store storage.Storage, publisher events.Publisher, bv *validator.BusinessValidator, logger *slog.Logger) DocumentService {
	return &documentService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		validator: bv,
		logger:    logger,
	}
}

// Create stores the payload first, then writes the row. Every submission
// enters the lifecycle at pending regardless of the request.
func (s *documentService) Create(ctx context.Context, req *CreateDocumentRequest, file *FileUpload, uploader *models.User) (*DocumentResponse, error) {
	if errs := s.validator.ValidateDocumentCreate(req); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs.FieldMap()}
	}
	if file == nil || file.Reader == nil {
		return nil, NewValidationError("file", "is required")
	}

	key := s.objectKey(uploader.ID, file.Filename)
	if err := s.store.Upload(ctx, key, file.Reader, file.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store document payload: %w", err)
	}

	doc := &models.Document{
		UploaderID:     uploader.ID,
		Title:          req.Title,
		DocType:        models.DocumentType(req.DocType),
		CourseID:       req.CourseID,
		AcademicYearID: req.AcademicYearID,
		SemesterNumber: req.SemesterNumber,
		Status:         models.StatusPending,
		FileKey:        key,
		FileSize:       file.Size,
	}
	if file.ContentType != "" {
		ct := file.ContentType
		doc.FileFormat = &ct
	}

	if err := s.repo.Document().Create(ctx, doc); err != nil {
		// The row never existed; drop the stored payload.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("orphaned storage object after failed create", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.logger.Info("document submitted", "document_id", doc.ID, "uploader_id", uploader.ID)
	return s.respond(doc, uploader), nil
}

// Get enforces the object-level gate: reviewers always, students only
// their own documents or approved ones.
func (s *documentService) Get(ctx context.Context, id uint, actor *models.User) (*DocumentResponse, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(doc, actor) {
		return nil, fmt.Errorf("document %d: %w", id, ErrForbidden)
	}
	return s.respond(doc, actor), nil
}

// UpdateMetadata mutates only the provided fields. Status and uploader are
// unreachable through this path.
func (s *documentService) UpdateMetadata(ctx context.Context, id uint, req *UpdateDocumentRequest, actor *models.User) (*DocumentResponse, error) {
	if errs := s.validator.ValidateDocumentUpdate(req); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs.FieldMap()}
	}

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(doc, actor) {
		return nil, fmt.Errorf("document %d: %w", id, ErrForbidden)
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.DocType != nil {
		doc.DocType = models.DocumentType(*req.DocType)
	}
	if req.CourseID != nil {
		doc.CourseID = req.CourseID
	}
	if req.AcademicYearID != nil {
		doc.AcademicYearID = req.AcademicYearID
	}
	if req.SemesterNumber != nil {
		doc.SemesterNumber = req.SemesterNumber
	}

	if err := s.repo.Document().Update(ctx, doc); err != nil {
		if postgres.IsNotFound(err) {
			return nil, fmt.Errorf("document %d: %w", id, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	return s.respond(doc, actor), nil
}

// ChangeStatus applies a review decision. The status write and the audit
// log append commit in one transaction; the review event publishes only
// after the commit. A repeated identical decision succeeds and appends
// another audit entry.
func (s *documentService) ChangeStatus(ctx context.Context, id uint, req *StatusChangeRequest, reviewer *models.User) (*DocumentResponse, error) {
	if errs := s.validator.ValidateStatusChange(req); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs.FieldMap()}
	}
	if !reviewer.IsReviewer() {
		return nil, fmt.Errorf("status change requires a reviewer: %w", ErrForbidden)
	}

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := models.DocumentStatus(req.Status)
	reviewedAt := time.Now().UTC()

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Document().UpdateStatus(ctx, id, newStatus); err != nil {
			return err
		}
		return tx.UploadLog().Append(ctx, &models.UploadLog{
			DocumentID: id,
			ReviewerID: reviewer.ID,
			Status:     newStatus,
			ReviewTime: reviewedAt,
		})
	})
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, fmt.Errorf("document %d: %w", id, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to change document status: %w", err)
	}

	doc.Status = newStatus

	if s.publisher != nil {
		event := events.DocumentReviewedEvent{
			DocumentID: doc.ID,
			UploaderID: doc.UploaderID,
			ReviewerID: reviewer.ID,
			Status:     newStatus,
			ReviewedAt: reviewedAt,
		}
		if err := s.publisher.PublishDocumentReviewed(ctx, event); err != nil {
			// The review itself is committed; the points award is lost,
			// not the decision.
			s.logger.Error("failed to publish review event", "document_id", doc.ID, "error", err)
		}
	}

	s.logger.Info("document reviewed", "document_id", doc.ID, "status", newStatus, "reviewer_id", reviewer.ID)
	return s.respond(doc, reviewer), nil
}

// Delete removes the row first, then the payload. A failed storage delete
// leaves an orphaned object, which is logged with its key for cleanup.
func (s *documentService) Delete(ctx context.Context, id uint, actor *models.User) error {
	doc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canDelete(doc, actor) {
		return fmt.Errorf("document %d: %w", id, ErrForbidden)
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Document().Delete(ctx, id)
	})
	if err != nil {
		if postgres.IsNotFound(err) {
			return fmt.Errorf("document %d: %w", id, ErrDocumentNotFound)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.store.Delete(ctx, doc.FileKey); err != nil {
		s.logger.Error("orphaned storage object after delete", "key", doc.FileKey, "document_id", id, "error", err)
	}

	s.logger.Info("document deleted", "document_id", id, "actor_id", actor.ID)
	return nil
}

// List is role-scoped: students see approved documents plus their own in
// any status; reviewers see everything and may filter freely.
func (s *documentService) List(ctx context.Context, filters repositories.DocumentFilters, actor *models.User) (*DocumentListResponse, error) {
	scope := repositories.DocumentScope{}
	if !actor.IsReviewer() {
		scope = repositories.DocumentScope{ActorID: actor.ID, Restricted: true}
	}

	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}

	docs, total, err := s.repo.Document().List(ctx, filters, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	responses := make([]*DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = s.respond(doc, actor)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}
	return &DocumentListResponse{
		Documents: responses,
		Total:     total,
		Page:      page,
		Size:      filters.Limit,
	}, nil
}

// History returns the audit trail for a document the actor may view.
func (s *documentService) History(ctx context.Context, id uint, actor *models.User) ([]*models.UploadLog, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(doc, actor) {
		return nil, fmt.Errorf("document %d: %w", id, ErrForbidden)
	}
	logs, err := s.repo.UploadLog().ListByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list document history: %w", err)
	}
	return logs, nil
}

func (s *documentService) load(ctx context.Context, id uint) (*models.Document, error) {
	doc, err := s.repo.Document().GetByID(ctx, id)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, fmt.Errorf("document %d: %w", id, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

func (s *documentService) respond(doc *models.Document, actor *models.User) *DocumentResponse {
	resp := &DocumentResponse{
		Document:  doc,
		CanEdit:   canEdit(doc, actor),
		CanDelete: canDelete(doc, actor),
		CanReview: actor != nil && actor.IsReviewer(),
	}
	if canView(doc, actor) {
		resp.FileURL = s.store.URL(doc.FileKey)
	}
	return resp
}

func (s *documentService) objectKey(uploaderID uint, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("documents/%d/%s%s", uploaderID, uuid.NewString(), ext)
}

func canView(doc *models.Document, actor *models.User) bool {
	if actor == nil {
		return false
	}
	if actor.IsReviewer() {
		return true
	}
	return doc.UploaderID == actor.ID || doc.Status == models.StatusApproved
}

// Metadata edits and deletion are reviewer-only; uploaders submit and
// withdraw through review, never by mutating records directly.
func canEdit(doc *models.Document, actor *models.User) bool {
	return actor != nil && actor.IsReviewer()
}

func canDelete(doc *models.Document, actor *models.User) bool {
	return actor != nil && actor.IsReviewer()
}
