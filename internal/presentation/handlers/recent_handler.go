package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"branchboard-core/internal/application/dto"
	"branchboard-core/internal/application/service"
	"branchboard-core/internal/domain/recent"

	"github.com/gin-gonic/gin"
)

// RecentHandler handles recent-repositories HTTP requests
type RecentHandler struct {
	recentService *service.RecentService
}

// NewRecentHandler creates a new recent-repositories handler
func NewRecentHandler(recentService *service.RecentService) *RecentHandler {
	return &RecentHandler{recentService: recentService}
}

// ListRecent handles GET /recents
// @Summary List recently opened repositories
// @Description Returns recently opened repositories, most recent first
// @Tags Recents
// @Accept json
// @Produce json
// @Param limit query int false "Maximum entries" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.RecentListResponse
// @Failure 500 {object} ErrorResponse
// @Router /recents [get]
func (h *RecentHandler) ListRecent(c *gin.Context) {
	limit := 20
	if limitStr := c.DefaultQuery("limit", "20"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	response, err := h.recentService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list recent repositories",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// RecordOpened handles POST /recents
// @Summary Record a repository as opened
// @Description Creates or refreshes the recent entry for a repository
// @Tags Recents
// @Accept json
// @Produce json
// @Param request body dto.RecordRecentRequest true "Opened repository"
// @Success 200 {object} dto.RecentEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /recents [post]
func (h *RecentHandler) RecordOpened(c *gin.Context) {
	var request dto.RecordRecentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Owner and name are required",
			Details: err.Error(),
		})
		return
	}

	response, err := h.recentService.RecordOpened(c.Request.Context(), request.Owner, request.Name, request.Targets)
	if err != nil {
		var domainErr *recent.DomainError
		if errors.As(err, &domainErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_entry",
				Message: domainErr.Message,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "record_failed",
			Message: "Failed to record repository",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Forget handles DELETE /recents/:id
// @Summary Forget a recent repository
// @Description Removes a recent repository entry
// @Tags Recents
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /recents/{id} [delete]
func (h *RecentHandler) Forget(c *gin.Context) {
	err := h.recentService.Forget(c.Request.Context(), c.Param("id"))
	if err != nil {
		var domainErr *recent.DomainError
		if errors.As(err, &domainErr) {
			status := http.StatusBadRequest
			if recent.IsEntryNotFound(err) {
				status = http.StatusNotFound
			}
			c.JSON(status, ErrorResponse{
				Error:   "forget_failed",
				Message: domainErr.Message,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "forget_failed",
			Message: "Failed to remove recent repository",
			Details: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
