package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type timetableManager interface {
	Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	Fetch(ctx context.Context, scope models.Scope) (*dto.FetchTimetableResponse, error)
	Rollback(ctx context.Context, scope models.Scope) (*dto.FetchTimetableResponse, error)
	Unrollback(ctx context.Context, scope models.Scope) (*dto.FetchTimetableResponse, error)
}

type rosterProvider interface {
	Lecturers(ctx context.Context) ([]models.Lecturer, error)
	Classrooms(ctx context.Context) ([]models.Classroom, error)
}

// TimetableHandler manages timetable read, save and version endpoints.
type TimetableHandler struct {
	service timetableManager
	roster  rosterProvider
	metrics *service.MetricsService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc timetableManager, roster rosterProvider, metrics *service.MetricsService) *TimetableHandler {
	return &TimetableHandler{service: svc, roster: roster, metrics: metrics}
}

// Fetch godoc
// @Summary Fetch the timetable at the current version pointer
// @Tags Timetable
// @Produce json
// @Param program query string false "Program name"
// @Param year query int false "Year"
// @Param rollback query int false "1 to roll back, -1 to roll forward (admin only)"
// @Success 200 {object} dto.FetchTimetableResponse
// @Router /timetable [get]
func (h *TimetableHandler) Fetch(c *gin.Context) {
	scope := models.Scope{ProgramName: c.Query("program")}
	if rawYear := c.Query("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FetchTimetableResponse{Status: dto.StatusFailure, Entries: []models.Session{}, Message: "invalid year"})
			return
		}
		scope.Year = year
	}

	var resp *dto.FetchTimetableResponse
	var err error

	switch c.Query("rollback") {
	case "":
		resp, err = h.service.Fetch(c.Request.Context(), scope)
	case "1":
		if claims := claimsFromContext(c); claims == nil || claims.Role != models.RoleAdmin {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		resp, err = h.service.Rollback(c.Request.Context(), scope)
	case "-1":
		if claims := claimsFromContext(c); claims == nil || claims.Role != models.RoleAdmin {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		resp, err = h.service.Unrollback(c.Request.Context(), scope)
	default:
		c.JSON(http.StatusBadRequest, dto.FetchTimetableResponse{Status: dto.StatusFailure, Entries: []models.Session{}, Message: "rollback must be 1 or -1"})
		return
	}

	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			c.JSON(appErr.Status, dto.FetchTimetableResponse{Status: dto.StatusFailure, Entries: []models.Session{}, Message: appErr.Message})
			return
		}
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Save godoc
// @Summary Atomically replace a scope's timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SaveTimetableRequest true "Timetable batch"
// @Success 200 {object} dto.SaveTimetableResponse
// @Router /timetable/save [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.SaveTimetableResponse{Status: dto.StatusFailure, Error: "invalid payload"})
		return
	}

	resp, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			c.JSON(appErr.Status, dto.SaveTimetableResponse{Status: dto.StatusFailure, Error: appErr.Message})
			return
		}
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveSave(resp.Status)
	}
	c.JSON(http.StatusOK, resp)
}

// Lecturers godoc
// @Summary List lecturers
// @Tags Roster
// @Produce json
// @Success 200 {object} dto.LecturerListResponse
// @Router /timetable/lecturers [get]
func (h *TimetableHandler) Lecturers(c *gin.Context) {
	lecturers, err := h.roster.Lecturers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LecturerListResponse{Status: dto.StatusSuccess, Lecturers: lecturers})
}

// Classrooms godoc
// @Summary List classrooms
// @Tags Roster
// @Produce json
// @Success 200 {object} dto.ClassroomListResponse
// @Router /timetable/classes [get]
func (h *TimetableHandler) Classrooms(c *gin.Context) {
	classrooms, err := h.roster.Classrooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ClassroomListResponse{Status: dto.StatusSuccess, Classrooms: classrooms})
}
