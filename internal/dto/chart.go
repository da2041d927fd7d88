package dto

import "inventory-chart-backend/internal/model"

type ChartQueryRequest struct {
	DatasetID string `json:"datasetId" binding:"required"`
	Query     string `json:"query" binding:"required"`
}

// ChartRenderRequest carries interpreter-style spec text, e.g. a reply captured earlier.
type ChartRenderRequest struct {
	DatasetID string `json:"datasetId" binding:"required"`
	Spec      string `json:"spec" binding:"required"`
}

type ChartResponse struct {
	DatasetID        string           `json:"datasetId"`
	OriginalQuery    string           `json:"originalQuery,omitempty"`
	ResultType       string           `json:"resultType"` // "chart", "no_data", "error"
	Spec             *model.ChartSpec `json:"spec,omitempty"`
	Figure           *model.Figure    `json:"figure,omitempty"`
	Image            string           `json:"image,omitempty"` // base64 PNG
	ImageMIMEType    string           `json:"imageMimeType,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Insight          string           `json:"insight,omitempty"`
	ArtifactLocation string           `json:"artifactLocation,omitempty"`
	ErrorKind        string           `json:"errorKind,omitempty"`
	ErrorMessage     *string          `json:"errorMessage,omitempty"`
	RawResponse      string           `json:"rawResponse,omitempty"`
}

type ChartTypesResponse struct {
	Types []string `json:"types"`
}
