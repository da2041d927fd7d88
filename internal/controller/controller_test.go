package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/dto"
	"inventory-chart-backend/internal/service"
	"inventory-chart-backend/internal/store"
)

type stubChartService struct {
	resp *dto.ChartResponse
	err  error
	got  dto.ChartQueryRequest
}

func (s *stubChartService) ProcessQuery(_ context.Context, req dto.ChartQueryRequest) (*dto.ChartResponse, error) {
	s.got = req
	return s.resp, s.err
}

func (s *stubChartService) RenderSpec(_ context.Context, req dto.ChartRenderRequest) (*dto.ChartResponse, error) {
	return s.resp, s.err
}

func (s *stubChartService) SupportedChartTypes() []string { return []string{"bar", "pie"} }

func newTestRouter(t *testing.T, chartSvc service.ChartService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Dataset: config.DatasetConfig{MaxEntries: 4, TTL: time.Hour, SampleRows: 2, MaxUploadBytes: 1 << 20}}
	datasets, err := store.NewInMemoryDatasetStore(cfg)
	require.NoError(t, err)

	router := gin.New()
	RegisterDatasetRoutes(router, NewDatasetController(cfg, service.NewDatasetService(cfg, datasets)))
	RegisterChartRoutes(router, NewChartController(chartSvc))
	return router
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

type datasetEnvelope struct {
	Message string              `json:"message"`
	Data    dto.DatasetResponse `json:"data"`
}

func TestDatasetRoutes_Lifecycle(t *testing.T) {
	router := newTestRouter(t, &stubChartService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "stock.csv", "SKU,Unit Price,Received\nA-1,2.50,2024-01-05\nA-2,3.00,2024-02-05\n"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var uploaded datasetEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Equal(t, 2, uploaded.Data.RowCount)
	assert.Equal(t, []dto.DatasetColumn{
		{Name: "SKU", Kind: "categorical"},
		{Name: "Unit_Price", Kind: "numeric"},
		{Name: "Received", Kind: "datetime"},
	}, uploaded.Data.Columns)
	require.NotEmpty(t, uploaded.Data.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/"+uploaded.Data.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/datasets/"+uploaded.Data.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/datasets/"+uploaded.Data.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadDataset_Rejections(t *testing.T) {
	router := newTestRouter(t, &stubChartService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "stock.json", `{"sku": "A-1"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "stock.csv", "\n\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/datasets", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChartQuery(t *testing.T) {
	chartSvc := &stubChartService{resp: &dto.ChartResponse{DatasetID: "ds-1", ResultType: "chart"}}
	router := newTestRouter(t, chartSvc)

	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"datasetId": "ds-1", "query": "stock by warehouse"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/charts/query", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stock by warehouse", chartSvc.got.Query)
	var resp dto.ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chart", resp.ResultType)
}

func TestHandleChartQuery_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "Missing Query", body: `{"datasetId": "ds-1"}`, wantCode: http.StatusBadRequest},
		{name: "Unknown Dataset", body: `{"datasetId": "ds-1", "query": "q"}`, err: store.ErrDatasetNotFound, wantCode: http.StatusNotFound},
		{name: "Internal Failure", body: `{"datasetId": "ds-1", "query": "q"}`, err: errors.New("draw failed"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &stubChartService{err: tt.err})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/charts/query", bytes.NewBufferString(tt.body)))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandleRenderSpec_BadBody(t *testing.T) {
	router := newTestRouter(t, &stubChartService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/charts/render", bytes.NewBufferString(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChartTypes(t *testing.T) {
	router := newTestRouter(t, &stubChartService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/types", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"types": ["bar", "pie"]}`, rec.Body.String())
}
