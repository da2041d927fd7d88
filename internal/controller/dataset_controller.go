package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/dataset"
	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/service"
)

type DatasetController struct {
	datasetService service.DatasetService
	maxUploadBytes int64
}

func NewDatasetController(cfg *config.Config, datasetService service.DatasetService) *DatasetController {
	return &DatasetController{
		datasetService: datasetService,
		maxUploadBytes: cfg.Dataset.MaxUploadBytes,
	}
}

func RegisterDatasetRoutes(router *gin.Engine, controller *DatasetController) {
	v1 := router.Group("/api/v1/datasets")
	{
		v1.POST("", controller.UploadDataset)
		v1.GET("/:id", controller.GetDataset)
		v1.DELETE("/:id", controller.DeleteDataset)
	}
}

// UploadDataset godoc
// @Summary      Upload an inventory table
// @Description  Accepts a CSV, TSV or XLSX file. Column names are normalized and column kinds (numeric, datetime, categorical) are inferred. The dataset is kept in memory until it expires.
// @Tags         datasets
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV, TSV or XLSX file"
// @Success      201 {object} model.Response{data=dto.DatasetResponse} "Dataset stored"
// @Failure      400 {object} model.Response "Missing, unsupported or empty file"
// @Failure      413 {object} model.Response "File too large"
// @Failure      500 {object} model.Response "Internal server error"
// @Router       /api/v1/datasets [post]
func (c *DatasetController) UploadDataset(ctx *gin.Context) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctx.JSON(http.StatusRequestEntityTooLarge, model.NewResponse("File too large", nil))
			return
		}
		log.Warn().Err(err).Msg("Dataset upload without file")
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Missing form file 'file': "+err.Error(), nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("Failed to open uploaded file")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Internal server error", nil))
		return
	}
	defer file.Close()

	resp, err := c.datasetService.Upload(ctx.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, dataset.ErrUnsupportedFormat) || errors.Is(err, dataset.ErrEmptyFile) {
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
			return
		}
		if errors.Is(err, service.ErrDatasetStore) {
			respondServiceError(ctx, err, "")
			return
		}
		// Malformed CSV or XLSX content.
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Failed to read dataset: "+err.Error(), nil))
		return
	}
	ctx.JSON(http.StatusCreated, model.NewResponse("Dataset uploaded successfully", resp))
}

// GetDataset godoc
// @Summary      Get dataset metadata
// @Tags         datasets
// @Produce      json
// @Param        id path string true "Dataset ID"
// @Success      200 {object} model.Response{data=dto.DatasetResponse}
// @Failure      404 {object} model.Response "Dataset not found or expired"
// @Router       /api/v1/datasets/{id} [get]
func (c *DatasetController) GetDataset(ctx *gin.Context) {
	id := ctx.Param("id")
	resp, err := c.datasetService.Get(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err, id)
		return
	}
	ctx.JSON(http.StatusOK, model.NewResponse("Dataset retrieved successfully", resp))
}

// DeleteDataset godoc
// @Summary      Delete a dataset
// @Tags         datasets
// @Produce      json
// @Param        id path string true "Dataset ID"
// @Success      200 {object} model.Response
// @Failure      404 {object} model.Response "Dataset not found or expired"
// @Router       /api/v1/datasets/{id} [delete]
func (c *DatasetController) DeleteDataset(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.datasetService.Delete(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err, id)
		return
	}
	ctx.JSON(http.StatusOK, model.NewResponse("Dataset deleted successfully", nil))
}
