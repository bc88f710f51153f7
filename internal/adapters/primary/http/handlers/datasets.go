package handlers

import (
	"automl-platform-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListDatasets(c *gin.Context) {
	h.listArtifacts(c, domain.KindDataset)
}

func (h *Handler) DownloadDataset(c *gin.Context) {
	h.downloadArtifact(c, domain.KindDataset, "text/csv")
}

func (h *Handler) DeleteDataset(c *gin.Context) {
	h.deleteArtifact(c, domain.KindDataset)
}
