package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"automl-platform-service/internal/adapters/primary/http/dto"
	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) TrainModel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	targetColumn := c.PostForm("target_column")
	if targetColumn == "" {
		badRequest(c, "target_column is required")
		return
	}

	content, filename, err := h.readUpload(c, "file")
	if err != nil {
		badRequest(c, "file upload is required and must be within the size limit")
		return
	}

	var hints []string
	if raw := c.PostForm("algorithms"); raw != "" {
		for _, hint := range strings.Split(raw, ",") {
			if hint = strings.TrimSpace(hint); hint != "" {
				hints = append(hints, hint)
			}
		}
	}

	outcome, err := h.lifecycleSvc.TrainModel(c.Request.Context(), services.TrainRequest{
		OwnerID:          userID,
		DatasetName:      c.PostForm("dataset_name"),
		OriginalFilename: filename,
		TargetColumn:     targetColumn,
		AlgorithmHints:   hints,
		Content:          content,
	})
	if err != nil {
		log.WithError(err).Error("model training failed")
		mapDomainError(c, err)
		return
	}

	plots := make([]dto.ArtifactResponse, 0, len(outcome.Plots))
	for _, p := range outcome.Plots {
		plots = append(plots, dto.ToArtifactResponse(p))
	}

	c.JSON(http.StatusCreated, dto.TrainResponse{
		Dataset:  dto.ToArtifactResponse(outcome.Dataset),
		Model:    dto.ToArtifactResponse(outcome.Model),
		Plots:    plots,
		Warnings: outcome.Warnings,
	})
}

func (h *Handler) ListModels(c *gin.Context) {
	h.listArtifacts(c, domain.KindModel)
}

func (h *Handler) CompareModels(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	comparisons, err := h.lifecycleSvc.CompareModels(c.Request.Context(), userID, limit)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": comparisons, "total": len(comparisons)})
}

func (h *Handler) Predict(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	prediction, err := h.lifecycleSvc.Predict(c.Request.Context(), c.Param("id"), userID, req.Input)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictResponse(prediction))
}

func (h *Handler) ListPredictions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	predictions, err := h.lifecycleSvc.PredictionHistory(c.Request.Context(), userID, limit)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PredictResponse, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, dto.ToPredictResponse(p))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) DownloadModel(c *gin.Context) {
	h.downloadArtifact(c, domain.KindModel, "application/octet-stream")
}

func (h *Handler) DeleteModel(c *gin.Context) {
	h.deleteArtifact(c, domain.KindModel)
}

// downloadArtifact streams the backing blob with a download disposition.
func (h *Handler) downloadArtifact(c *gin.Context, kind domain.Kind, contentType string) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	artifact, data, err := h.lifecycleSvc.Open(c.Request.Context(), kind, c.Param("id"), userID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	filename := artifact.ID + kind.Ext()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
