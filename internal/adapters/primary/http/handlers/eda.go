package handlers

import (
	"net/http"
	"strconv"

	"automl-platform-service/internal/adapters/primary/http/dto"
	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GenerateReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	content, filename, err := h.readUpload(c, "file")
	if err != nil {
		badRequest(c, "file upload is required and must be within the size limit")
		return
	}

	outcome, err := h.lifecycleSvc.GenerateReport(c.Request.Context(), services.ProfileRequest{
		OwnerID:          userID,
		DatasetName:      c.PostForm("dataset_name"),
		OriginalFilename: filename,
		Content:          content,
	})
	if err != nil {
		log.WithError(err).Error("report generation failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ProfileResponse{
		Dataset: dto.ToArtifactResponse(outcome.Dataset),
		Report:  dto.ToArtifactResponse(outcome.Report),
	})
}

func (h *Handler) ListReports(c *gin.Context) {
	h.listArtifacts(c, domain.KindReport)
}

func (h *Handler) ViewReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	_, data, err := h.lifecycleSvc.Open(c.Request.Context(), domain.KindReport, c.Param("id"), userID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	h.deleteArtifact(c, domain.KindReport)
}

// listArtifacts and deleteArtifact are shared by every kind-specific route.
func (h *Handler) listArtifacts(c *gin.Context, kind domain.Kind) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	artifacts, err := h.lifecycleSvc.List(c.Request.Context(), kind, userID, limit)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListArtifactsResponse(artifacts))
}

func (h *Handler) deleteArtifact(c *gin.Context, kind domain.Kind) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	id := c.Param("id")
	warnings, err := h.lifecycleSvc.Delete(c.Request.Context(), kind, id, userID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{ID: id, Deleted: true, Warnings: warnings})
}
