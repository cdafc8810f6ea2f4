package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/utils"
)

// LookupHandler serves the public academic catalog endpoints.
type LookupHandler struct {
	BaseHandler
	lookupService services.LookupService
}

func NewLookupHandler(lookupService services.LookupService, logger utils.Logger) *LookupHandler {
	return &LookupHandler{
		BaseHandler:   NewBaseHandler(logger),
		lookupService: lookupService,
	}
}

func (h *LookupHandler) DegreeLevels(c *gin.Context) {
	levels, err := h.lookupService.DegreeLevels(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, "Degree levels retrieved", levels)
}

// Programs optionally filters by degree_level_id.
func (h *LookupHandler) Programs(c *gin.Context) {
	var degreeLevelID *uint
	if raw := c.Query("degree_level_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			h.badRequest(c, "Invalid degree_level_id parameter")
			return
		}
		v := uint(id)
		degreeLevelID = &v
	}

	programs, err := h.lookupService.Programs(c.Request.Context(), degreeLevelID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, "Programs retrieved", programs)
}

func (h *LookupHandler) Courses(c *gin.Context) {
	programID := h.parseIDParam(c, "program_id")
	if programID == 0 {
		return
	}

	courses, err := h.lookupService.Courses(c.Request.Context(), programID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, "Courses retrieved", courses)
}

func (h *LookupHandler) AcademicYears(c *gin.Context) {
	years, err := h.lookupService.AcademicYears(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, "Academic years retrieved", years)
}

// Semesters requires both program_id and academic_year_id query parameters.
func (h *LookupHandler) Semesters(c *gin.Context) {
	programID, err1 := strconv.ParseUint(c.Query("program_id"), 10, 32)
	yearID, err2 := strconv.ParseUint(c.Query("academic_year_id"), 10, 32)
	if err1 != nil || err2 != nil || programID == 0 || yearID == 0 {
		h.badRequest(c, "program_id and academic_year_id parameters are required")
		return
	}

	semesters, err := h.lookupService.Semesters(c.Request.Context(), uint(programID), uint(yearID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, "Semesters retrieved", semesters)
}
