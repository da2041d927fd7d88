package dto

import "time"

type DatasetColumn struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "numeric", "categorical", "datetime"
}

type DatasetResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	RowCount   int             `json:"rowCount"`
	Columns    []DatasetColumn `json:"columns"`
	SampleRows [][]string      `json:"sampleRows"`
	UploadedAt time.Time       `json:"uploadedAt"`
}
