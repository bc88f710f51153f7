package handlers

import (
	"net/http"

	"automl-platform-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPlots(c *gin.Context) {
	h.listArtifacts(c, domain.KindPlot)
}

func (h *Handler) ViewPlot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	_, data, err := h.lifecycleSvc.Open(c.Request.Context(), domain.KindPlot, c.Param("id"), userID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) DeletePlot(c *gin.Context) {
	h.deleteArtifact(c, domain.KindPlot)
}
