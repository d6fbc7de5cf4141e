package handlers

import (
	"branchboard-core/internal/application/dto"

	"github.com/gin-gonic/gin"
)

// StreamReconcile handles GET /repos/:owner/:repo/branches/stream
// @Summary Stream branch reconciliation progress
// @Description Streams each reconciled branch as a Server-Sent Event the moment its statuses are resolved
// @Tags Branches
// @Produce text/event-stream
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param targets query string false "Comma-separated target branches (exactly 3)"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/branches/stream [get]
func (h *BranchHandler) StreamReconcile(c *gin.Context) {
	handle, ok := h.buildHandle(c)
	if !ok {
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	count := 0
	err := h.reconciliationService.ReconcileStream(c.Request.Context(), handle, func(record *dto.BranchResponse) {
		c.SSEvent("branch", record)
		c.Writer.Flush()
		count++
	})
	if err != nil {
		c.SSEvent("error", ErrorResponse{
			Error:   "reconcile_failed",
			Message: "Failed to enumerate repository branches",
			Details: err.Error(),
		})
		c.Writer.Flush()
		return
	}

	c.SSEvent("done", gin.H{"count": count})
	c.Writer.Flush()
}
