package handlers

import (
	"errors"
	"net/http"
	"strings"

	"branchboard-core/internal/application/dto"
	"branchboard-core/internal/application/service"
	"branchboard-core/internal/domain/branch"
	"branchboard-core/internal/middleware"

	"github.com/gin-gonic/gin"
)

// BranchHandler handles branch reconciliation and deletion HTTP requests
type BranchHandler struct {
	reconciliationService *service.ReconciliationService
	defaultTargets        []string
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(reconciliationService *service.ReconciliationService, defaultTargets []string) *BranchHandler {
	return &BranchHandler{
		reconciliationService: reconciliationService,
		defaultTargets:        defaultTargets,
	}
}

// Reconcile handles GET /repos/:owner/:repo/branches
// @Summary Reconcile branch merge statuses
// @Description Lists qualifying branches with their merge status against every configured target branch
// @Tags Branches
// @Accept json
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param targets query string false "Comma-separated target branches (exactly 3)"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/branches [get]
func (h *BranchHandler) Reconcile(c *gin.Context) {
	handle, ok := h.buildHandle(c)
	if !ok {
		return
	}

	response, err := h.reconciliationService.Reconcile(c.Request.Context(), handle)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "reconcile_failed",
			Message: "Failed to enumerate repository branches",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteBranch handles DELETE /repos/:owner/:repo/branches/*name
// @Summary Delete a branch
// @Description Deletes one branch; provider failures are surfaced verbatim
// @Tags Branches
// @Accept json
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param name path string true "Branch name (may contain slashes)"
// @Success 200 {object} dto.DeleteBranchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/branches/{name} [delete]
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	handle, ok := h.buildHandle(c)
	if !ok {
		return
	}

	// The wildcard capture keeps its leading slash.
	name := strings.TrimPrefix(c.Param("name"), "/")
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_branch",
			Message: "Branch name is required",
		})
		return
	}

	if err := h.reconciliationService.DeleteBranch(c.Request.Context(), handle, name); err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete branch",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.DeleteBranchResponse{Name: name, Deleted: true})
}

// BulkDelete handles POST /repos/:owner/:repo/branches/delete
// @Summary Delete multiple branches
// @Description Deletes each named branch independently and reports per-name outcomes
// @Tags Branches
// @Accept json
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param request body dto.BulkDeleteRequest true "Branches to delete"
// @Success 200 {object} dto.BulkDeleteResponse
// @Failure 400 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/branches/delete [post]
func (h *BranchHandler) BulkDelete(c *gin.Context) {
	handle, ok := h.buildHandle(c)
	if !ok {
		return
	}

	var request dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must list at least one branch",
			Details: err.Error(),
		})
		return
	}

	response := h.reconciliationService.DeleteBranches(c.Request.Context(), handle, request.Branches)
	c.JSON(http.StatusOK, response)
}

// buildHandle resolves the repository handle from path params, the targets
// query and the provider token middleware. It writes the error response
// itself and returns ok=false when the handle is invalid.
func (h *BranchHandler) buildHandle(c *gin.Context) (branch.RepositoryHandle, bool) {
	targetNames := h.defaultTargets
	if raw := c.Query("targets"); raw != "" {
		targetNames = strings.Split(raw, ",")
	}

	targets, err := branch.NewTargetSet(targetNames)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_targets",
			Message: "Exactly three non-empty target branches are required",
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
		var domainErr *branch.DomainError
		details := err.Error()
		if errors.As(err, &domainErr) {
			details = domainErr.Message
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_repository",
			Message: "Invalid repository identifier",
			Details: details,
		})
		return branch.RepositoryHandle{}, false
	}

	return handle, true
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
