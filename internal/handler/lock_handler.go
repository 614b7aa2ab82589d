package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type lockManager interface {
	Lock(ctx context.Context) error
	Release(ctx context.Context) error
	Status(ctx context.Context) (bool, error)
}

// LockHandler toggles and reports the cooperative edit lock.
type LockHandler struct {
	service lockManager
}

// NewLockHandler constructs handler.
func NewLockHandler(svc lockManager) *LockHandler {
	return &LockHandler{service: svc}
}

// Lock godoc
// @Summary Freeze timetable editing
// @Tags Lock
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /timetable/lock [get]
func (h *LockHandler) Lock(c *gin.Context) {
	if err := h.service.Lock(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: dto.StatusSuccess})
}

// Release godoc
// @Summary Resume timetable editing
// @Tags Lock
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /timetable/release [get]
func (h *LockHandler) Release(c *gin.Context) {
	if err := h.service.Release(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: dto.StatusSuccess})
}

// CheckLock godoc
// @Summary Report the edit-lock state
// @Tags Lock
// @Produce json
// @Success 200 {object} dto.LockStatusResponse
// @Router /timetable/check_lock [get]
func (h *LockHandler) CheckLock(c *gin.Context) {
	locked, err := h.service.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LockStatusResponse{Status: dto.StatusSuccess, Locked: locked})
}
