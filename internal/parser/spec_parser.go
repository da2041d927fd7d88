package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"inventory-chart-backend/internal/charterr"
	"inventory-chart-backend/internal/model"
)

type SpecParser interface {
	Parse(raw string) (*model.ChartSpec, error)
}

type specParser struct{}

func NewSpecParser() SpecParser {
	return &specParser{}
}

// Parse turns an interpreter reply into a ChartSpec. The reply is only ever decoded as
// JSON; quote repair and object extraction are attempted when a strict decode fails.
func (p *specParser) Parse(raw string) (*model.ChartSpec, error) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, &charterr.ParseError{Raw: raw, Reason: "empty response"}
	}

	obj, err := decodeLenient(text)
	if err != nil {
		// Prose around an object: retry on the outermost braces.
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start && (start > 0 || end < len(text)-1) {
			if extracted, exErr := decodeLenient(text[start : end+1]); exErr == nil {
				obj, err = extracted, nil
			}
		}
	}
	if err != nil {
		return nil, &charterr.ParseError{Raw: raw, Reason: "response is not a JSON object", Err: err}
	}

	spec, err := specFromObject(obj)
	if err != nil {
		var pe *charterr.ParseError
		if errors.As(err, &pe) {
			pe.Raw = raw
		}
		return nil, err
	}
	return spec, nil
}

func decodeLenient(text string) (map[string]any, error) {
	obj, err := decodeObject(text)
	if err == nil {
		return obj, nil
	}
	normalized := normalizeQuotes(text)
	if normalized == text {
		return nil, err
	}
	if obj, nErr := decodeObject(normalized); nErr == nil {
		return obj, nil
	}
	return nil, err
}

func decodeObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("top-level value is not an object")
	}
	return obj, nil
}

func specFromObject(obj map[string]any) (*model.ChartSpec, error) {
	rawType, hasType := obj["chart_type"]
	if msg, declined := obj["error"]; declined && (!hasType || rawType == nil) {
		return nil, &charterr.InterpreterDeclinedError{Message: declineMessage(msg)}
	}

	chartType, err := chartTypeOf(rawType)
	if err != nil {
		return nil, err
	}
	spec := &model.ChartSpec{ChartType: chartType}

	if spec.XCol, err = columnRef(obj, "x_col"); err != nil {
		return nil, err
	}
	if spec.YCol, err = columnRef(obj, "y_col"); err != nil {
		return nil, err
	}
	if spec.GroupBy, err = columnRef(obj, "group_by"); err != nil {
		return nil, err
	}

	if agg, ok := obj["aggregation"].(string); ok {
		switch model.Aggregation(strings.ToLower(strings.TrimSpace(agg))) {
		case model.AggregationSum:
			spec.Aggregation = model.AggregationSum
		case model.AggregationCount:
			spec.Aggregation = model.AggregationCount
		}
	}
	if bins, ok := obj["bins"].(float64); ok && bins >= 1 && bins <= model.MaxHistogramBins && bins == math.Trunc(bins) {
		spec.Bins = int(bins)
	}
	if notes, ok := obj["additional_notes"].(string); ok {
		spec.AdditionalNotes = notes
	}
	if insight, ok := obj["insight"].(string); ok {
		spec.Insight = insight
	}
	return spec, nil
}

func chartTypeOf(v any) (model.ChartType, error) {
	unsupported := func(value string) error {
		return &charterr.UnsupportedChartTypeError{Value: value, Supported: model.SupportedChartTypeNames()}
	}
	switch t := v.(type) {
	case nil:
		return "", unsupported("")
	case string:
		normalized := strings.ToLower(strings.TrimSpace(t))
		normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
		ct := model.ChartType(normalized)
		if !ct.Valid() {
			return "", unsupported(t)
		}
		return ct, nil
	default:
		b, _ := json.Marshal(t)
		return "", unsupported(string(b))
	}
}

func columnRef(obj map[string]any, field string) (*string, error) {
	switch v := obj[field].(type) {
	case nil:
		return nil, nil
	case string:
		name := strings.TrimSpace(v)
		if name == "" {
			return nil, nil
		}
		return &name, nil
	case float64:
		name := strconv.FormatFloat(v, 'f', -1, 64)
		return &name, nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		if len(v) == 1 {
			return columnRef(map[string]any{field: v[0]}, field)
		}
		return nil, &charterr.ParseError{Reason: fmt.Sprintf("field %q lists %d columns, expected one", field, len(v))}
	default:
		return nil, &charterr.ParseError{Reason: fmt.Sprintf("field %q must be a column name", field)}
	}
}

func declineMessage(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case nil:
		return "the interpreter could not resolve the query"
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Sprint(m)
		}
		return string(b)
	}
}
