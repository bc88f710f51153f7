package handlers

import (
	"net/http"
	"strconv"

	"automl-platform-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CleanupSystem(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil {
		badRequest(c, "hours must be an integer")
		return
	}
	dryRun := c.Query("dry_run") == "true"
	ownerID := c.Query("user_id")

	summary, err := h.cleanupSvc.CleanupOld(c.Request.Context(), hours, ownerID, dryRun)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSweepSummaryResponse(summary))
}

// CleanupOrphans runs both reconciliation passes: records without blobs,
// then blobs without records.
func (h *Handler) CleanupOrphans(c *gin.Context) {
	ownerID := c.Query("user_id")

	records, err := h.cleanupSvc.SweepOrphanRecords(c.Request.Context(), ownerID)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	blobs, err := h.cleanupSvc.SweepOrphanBlobs(c.Request.Context(), ownerID)
	if err != nil {
		log.WithError(err).Warn("orphan blob sweep failed after record sweep succeeded")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": dto.ToSweepSummaryResponse(records),
		"blobs":   dto.ToSweepSummaryResponse(blobs),
	})
}

func (h *Handler) WipeUser(c *gin.Context) {
	confirm := c.Query("confirm") == "true"

	summary, err := h.cleanupSvc.WipeUser(c.Request.Context(), c.Param("id"), confirm)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSweepSummaryResponse(summary))
}

func (h *Handler) CleanupStatus(c *gin.Context) {
	stats, err := h.cleanupSvc.Stats(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	recent := h.cleanupSvc.RecentRuns()
	runs := make([]dto.SweepSummaryResponse, 0, len(recent))
	for _, r := range recent {
		runs = append(runs, dto.ToSweepSummaryResponse(r))
	}

	c.JSON(http.StatusOK, dto.CleanupStatusResponse{Stats: stats, RecentRuns: runs})
}

func (h *Handler) CleanupLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.cleanupSvc.Logs(c.Request.Context(), limit)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.SweepSummaryResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, dto.ToSweepSummaryResponse(l))
	}

	c.JSON(http.StatusOK, dto.CleanupLogsResponse{Items: items, Total: len(items)})
}
