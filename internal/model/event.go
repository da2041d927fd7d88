package model

import "time"

// ChartEvent records the outcome of one chart request for downstream analytics.
type ChartEvent struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	DatasetID  string    `json:"dataset_id"`
	Query      string    `json:"query,omitempty"`
	ChartType  ChartType `json:"chart_type,omitempty"`
	ResultType string    `json:"result_type"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
