package handlers

import (
	"io"
	"net/http"

	"automl-platform-service/internal/core/domain"
	"automl-platform-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	userSvc      *services.UserService
	lifecycleSvc *services.LifecycleService
	cleanupSvc   *services.CleanupService

	maxUploadBytes int64
}

func New(
	userSvc *services.UserService,
	lifecycleSvc *services.LifecycleService,
	cleanupSvc *services.CleanupService,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		userSvc:        userSvc,
		lifecycleSvc:   lifecycleSvc,
		cleanupSvc:     cleanupSvc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Users
	r.POST("/users/init", h.InitUser)
	r.GET("/users/:id", h.GetUser)

	// EDA reports
	r.POST("/eda/generate", h.GenerateReport)
	r.GET("/eda", h.ListReports)
	r.GET("/eda/:id/view", h.ViewReport)
	r.DELETE("/eda/:id", h.DeleteReport)

	// Models
	r.POST("/models/train", h.TrainModel)
	r.GET("/models", h.ListModels)
	r.GET("/models/compare", h.CompareModels)
	r.POST("/models/:id/predict", h.Predict)
	r.GET("/models/:id/download", h.DownloadModel)
	r.DELETE("/models/:id", h.DeleteModel)

	// Predictions
	r.GET("/predictions", h.ListPredictions)

	// Plots
	r.GET("/plots", h.ListPlots)
	r.GET("/plots/:id/view", h.ViewPlot)
	r.DELETE("/plots/:id", h.DeletePlot)

	// Datasets
	r.GET("/datasets", h.ListDatasets)
	r.GET("/datasets/:id/download", h.DownloadDataset)
	r.DELETE("/datasets/:id", h.DeleteDataset)

	// Cleanup
	r.POST("/cleanup/system", h.CleanupSystem)
	r.POST("/cleanup/orphans", h.CleanupOrphans)
	r.POST("/cleanup/user/:id", h.WipeUser)
	r.GET("/cleanup/status", h.CleanupStatus)
	r.GET("/cleanup/logs", h.CleanupLogs)
}

// getUserID extracts the caller identity set by the auth layer in front of
// this service.
func getUserID(c *gin.Context) (string, error) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		return "", domain.ErrInvalidOwnerID
	}
	return id, nil
}

// readUpload pulls one multipart file field, enforcing the size limit
// before the body is read into memory.
func (h *Handler) readUpload(c *gin.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return nil, "", domain.ErrValidation
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Filename, nil
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
