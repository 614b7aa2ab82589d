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

type slotSuggester interface {
	SuggestSlots(ctx context.Context, req dto.SlotSuggestionRequest) (*dto.SlotSuggestionResponse, error)
}

// SuggestHandler serves free-slot suggestions.
type SuggestHandler struct {
	service slotSuggester
	metrics *service.MetricsService
}

// NewSuggestHandler constructs handler.
func NewSuggestHandler(svc slotSuggester, metrics *service.MetricsService) *SuggestHandler {
	return &SuggestHandler{service: svc, metrics: metrics}
}

// Suggest godoc
// @Summary List free time windows for a lecturer and/or classroom
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SlotSuggestionRequest true "Lecturer and/or classroom"
// @Success 200 {object} dto.SlotSuggestionResponse
// @Router /free_slots [post]
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req dto.SlotSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.SlotSuggestionResponse{Success: false, SuggestedSlots: []dto.Slot{}, Message: "invalid payload"})
		return
	}

	resp, err := h.service.SuggestSlots(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			c.JSON(appErr.Status, dto.SlotSuggestionResponse{Success: false, SuggestedSlots: []dto.Slot{}, Message: appErr.Message})
			return
		}
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveSuggestion(len(resp.SuggestedSlots))
	}
	c.JSON(http.StatusOK, resp)
}
