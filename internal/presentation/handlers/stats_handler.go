package handlers

import (
	"net/http"

	"branchboard-core/internal/application/service"
	"branchboard-core/internal/domain/branch"
	"branchboard-core/internal/middleware"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles repository metadata HTTP requests
type StatsHandler struct {
	statsService   *service.StatsService
	defaultTargets []string
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService, defaultTargets []string) *StatsHandler {
	return &StatsHandler{
		statsService:   statsService,
		defaultTargets: defaultTargets,
	}
}

// GetStats handles GET /repos/:owner/:repo/stats
// @Summary Get repository stats
// @Description Returns repository metadata counters (stars, forks, contributors, releases)
// @Tags Stats
// @Accept json
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	handle, ok := h.buildHandle(c)
	if !ok {
		return
	}

	response, err := h.statsService.GetStats(c.Request.Context(), handle)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "stats_failed",
			Message: "Failed to fetch repository stats",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetReadme handles GET /repos/:owner/:repo/readme
// @Summary Get repository readme
// @Description Returns the decoded repository readme
// @Tags Stats
// @Accept json
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} dto.ReadmeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/readme [get]
func (h *StatsHandler) GetReadme(c *gin.Context) {
	handle, ok := h.buildHandle(c)
	if !ok {
		return
	}

	response, err := h.statsService.GetReadme(c.Request.Context(), handle)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "readme_failed",
			Message: "Failed to fetch repository readme",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// buildHandle resolves the repository handle for stats routes. Targets are
// irrelevant to these aggregations, so the configured defaults are used.
func (h *StatsHandler) buildHandle(c *gin.Context) (branch.RepositoryHandle, bool) {
	targets, err := branch.NewTargetSet(h.defaultTargets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Invalid default target configuration",
			Details: err.Error(),
		})
		return branch.RepositoryHandle{}, false
	}

	handle, err := branch.NewRepositoryHandle(
		c.Param("owner"),
		c.Param("repo"),
		middleware.GetProviderToken(c),
		targets,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_repository",
			Message: "Invalid repository identifier",
			Details: err.Error(),
		})
		return branch.RepositoryHandle{}, false
	}

	return handle, true
}
