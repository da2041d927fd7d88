package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inventory-chart-backend/internal/dto"
	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/service"
	"inventory-chart-backend/internal/store"
)

type ChartController struct {
	chartService service.ChartService
}

func NewChartController(chartService service.ChartService) *ChartController {
	return &ChartController{
		chartService: chartService,
	}
}

func RegisterChartRoutes(router *gin.Engine, controller *ChartController) {
	v1 := router.Group("/api/v1/charts")
	{
		v1.POST("/query", controller.HandleChartQuery)
		v1.POST("/render", controller.HandleRenderSpec)
		v1.GET("/types", controller.GetChartTypes)
	}
}

// HandleChartQuery godoc
// @Summary      Answer a natural language question with a chart
// @Description  Sends the dataset schema, a few sample rows and the question to the LLM, parses its chart spec and renders it. Parse and render failures are reported with resultType "error" and a classified errorKind.
// @Tags         charts
// @Accept       json
// @Produce      json
// @Param        request body dto.ChartQueryRequest true "Dataset ID and question"
// @Success      200 {object} dto.ChartResponse "Chart, empty chart, or classified error"
// @Failure      400 {object} model.Response "Invalid request body"
// @Failure      404 {object} model.Response "Dataset not found or expired"
// @Failure      500 {object} model.Response "Internal server error"
// @Router       /api/v1/charts/query [post]
func (c *ChartController) HandleChartQuery(ctx *gin.Context) {
	var req dto.ChartQueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid chart query request body")
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	resp, err := c.chartService.ProcessQuery(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err, req.DatasetID)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// HandleRenderSpec godoc
// @Summary      Render a chart spec
// @Description  Parses spec text in the same lenient way as an LLM reply and renders it against the dataset. Useful for replaying or hand-editing a spec.
// @Tags         charts
// @Accept       json
// @Produce      json
// @Param        request body dto.ChartRenderRequest true "Dataset ID and chart spec text"
// @Success      200 {object} dto.ChartResponse "Chart, empty chart, or classified error"
// @Failure      400 {object} model.Response "Invalid request body"
// @Failure      404 {object} model.Response "Dataset not found or expired"
// @Failure      500 {object} model.Response "Internal server error"
// @Router       /api/v1/charts/render [post]
func (c *ChartController) HandleRenderSpec(ctx *gin.Context) {
	var req dto.ChartRenderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid chart render request body")
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	resp, err := c.chartService.RenderSpec(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err, req.DatasetID)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetChartTypes godoc
// @Summary      List supported chart types
// @Tags         charts
// @Produce      json
// @Success      200 {object} dto.ChartTypesResponse
// @Router       /api/v1/charts/types [get]
func (c *ChartController) GetChartTypes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ChartTypesResponse{Types: c.chartService.SupportedChartTypes()})
}

func respondServiceError(ctx *gin.Context, err error, datasetID string) {
	if errors.Is(err, store.ErrDatasetNotFound) {
		ctx.JSON(http.StatusNotFound, model.NewResponse("Dataset not found: "+datasetID, nil))
		return
	}
	log.Error().Err(err).Str("dataset_id", datasetID).Msg("Internal error processing chart request")
	ctx.JSON(http.StatusInternalServerError, model.NewResponse("Internal server error", nil))
}
