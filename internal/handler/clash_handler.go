package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type clashChecker interface {
	CheckClash(ctx context.Context, req dto.ClashCheckRequest) (*dto.ClashCheckResponse, error)
}

// ClashHandler serves the advisory clash check.
type ClashHandler struct {
	service clashChecker
	metrics *service.MetricsService
}

// NewClashHandler constructs handler.
func NewClashHandler(svc clashChecker, metrics *service.MetricsService) *ClashHandler {
	return &ClashHandler{service: svc, metrics: metrics}
}

// Detect godoc
// @Summary Check a candidate session for lecturer or room clashes
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.ClashCheckRequest true "Candidate session"
// @Success 200 {object} dto.ClashCheckResponse
// @Router /clash_detect [post]
func (h *ClashHandler) Detect(c *gin.Context) {
	var req dto.ClashCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ClashCheckResponse{Status: dto.StatusFailure, Message: "invalid payload"})
		return
	}

	resp, err := h.service.CheckClash(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			c.JSON(appErr.Status, dto.ClashCheckResponse{Status: dto.StatusFailure, Message: appErr.Message})
			return
		}
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveClashCheck(resp.Status)
	}
	c.JSON(http.StatusOK, resp)
}
