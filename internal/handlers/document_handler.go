package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/utils"
)

// maxUploadBytes caps a single document payload at 50 MiB.
const maxUploadBytes = 50 << 20

type DocumentHandler struct {
	BaseHandler
	documentService services.DocumentService
	exportService   services.ExportService
}

func NewDocumentHandler(documentService services.DocumentService, exportService services.ExportService, logger utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     NewBaseHandler(logger),
		documentService: documentService,
		exportService:   exportService,
	}
}

// Upload accepts a multipart form with the metadata fields and a "file"
// part, and submits the document for review.
func (h *DocumentHandler) Upload(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var req services.CreateDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, "Invalid form fields")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "A file part is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.badRequest(c, "Unreadable file part")
		return
	}
	defer file.Close()

	upload := &services.FileUpload{
		Reader:      file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}

	doc, err := h.documentService.Create(c.Request.Context(), &req, upload, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "document uploaded", "document_id", doc.ID, "uploader_id", user.ID)
	h.created(c, "Document submitted for review", doc)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Document retrieved", doc)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload")
		return
	}

	doc, err := h.documentService.UpdateMetadata(c.Request.Context(), id, &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Document updated", doc)
}

// ChangeStatus applies a reviewer's decision.
func (h *DocumentHandler) ChangeStatus(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload")
		return
	}

	doc, err := h.documentService.ChangeStatus(c.Request.Context(), id, &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "document reviewed", "document_id", id, "status", req.Status, "reviewer_id", user.ID)
	h.ok(c, "Document status updated", doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id, user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Document deleted", nil)
}

// List returns the role-scoped document listing with optional filters.
func (h *DocumentHandler) List(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	docs, err := h.documentService.List(c.Request.Context(), h.parseFilters(c), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Documents retrieved", docs)
}

// History returns the audit trail of review decisions for a document.
func (h *DocumentHandler) History(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	logs, err := h.documentService.History(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Document history retrieved", logs)
}

// Export streams the xlsx document register.
func (h *DocumentHandler) Export(c *gin.Context) {
	payload, filename, err := h.exportService.DocumentRegister(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		payload)
}

func (h *DocumentHandler) parseFilters(c *gin.Context) repositories.DocumentFilters {
	var filters repositories.DocumentFilters

	if raw := c.Query("status"); raw != "" {
		status := models.DocumentStatus(raw)
		if status.Valid() {
			filters.Status = &status
		}
	}
	if raw := c.Query("doc_type"); raw != "" {
		docType := models.DocumentType(raw)
		if docType.Valid() {
			filters.DocType = &docType
		}
	}
	if raw := c.Query("uploader_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			uploaderID := uint(id)
			filters.UploaderID = &uploaderID
		}
	}
	if raw := c.Query("course_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			courseID := uint(id)
			filters.CourseID = &courseID
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filters.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}
	filters.SortBy = c.Query("sort_by")
	filters.SortOrder = c.Query("sort_order")

	return filters
}
