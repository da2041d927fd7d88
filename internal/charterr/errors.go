package charterr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindParse                      Kind = "parse_error"
	KindInterpreterDeclined        Kind = "interpreter_declined"
	KindUnsupportedChartType       Kind = "unsupported_chart_type"
	KindUnknownColumn              Kind = "unknown_column"
	KindMissingGrouping            Kind = "missing_grouping"
	KindMissingField               Kind = "missing_field"
	KindIncompatibleColumnType     Kind = "incompatible_column_type"
	KindInsufficientNumericColumns Kind = "insufficient_numeric_columns"
)

// Classified is implemented by every error of the chart pipeline taxonomy.
type Classified interface {
	error
	Kind() Kind
}

// KindOf reports the taxonomy kind of err, looking through wrapping.
func KindOf(err error) (Kind, bool) {
	var c Classified
	if errors.As(err, &c) {
		return c.Kind(), true
	}
	return "", false
}

// ParseError means the interpreter reply could not be read as structured data.
type ParseError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse interpreter response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("could not parse interpreter response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Kind() Kind    { return KindParse }

type InterpreterDeclinedError struct {
	Message string
}

func (e *InterpreterDeclinedError) Error() string { return e.Message }
func (e *InterpreterDeclinedError) Kind() Kind    { return KindInterpreterDeclined }

type UnsupportedChartTypeError struct {
	Value     string
	Supported []string
}

func (e *UnsupportedChartTypeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("chart type is missing; supported types: %s", strings.Join(e.Supported, ", "))
	}
	return fmt.Sprintf("unsupported chart type %q; supported types: %s", e.Value, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedChartTypeError) Kind() Kind { return KindUnsupportedChartType }

// UnknownColumnError lists every referenced column that the dataset lacks.
type UnknownColumnError struct {
	Columns   []string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	noun := "column"
	if len(e.Columns) > 1 {
		noun = "columns"
	}
	msg := fmt.Sprintf("unknown %s %s", noun, strings.Join(quoted, ", "))
	if len(e.Available) > 0 {
		msg += "; available columns: " + strings.Join(e.Available, ", ")
	}
	return msg
}

func (e *UnknownColumnError) Kind() Kind { return KindUnknownColumn }

// MissingGroupingError means a chart type needs a category dimension and Field is unset.
type MissingGroupingError struct {
	ChartType string
	Field     string
}

func (e *MissingGroupingError) Error() string {
	return fmt.Sprintf("%s chart requires a %q column to group by", e.ChartType, e.Field)
}

func (e *MissingGroupingError) Kind() Kind { return KindMissingGrouping }

// MissingFieldError means a required non-grouping column reference is unset.
type MissingFieldError struct {
	ChartType string
	Field     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s chart requires %s", e.ChartType, e.Field)
}

func (e *MissingFieldError) Kind() Kind { return KindMissingField }

type IncompatibleColumnTypeError struct {
	Column   string
	Expected string
	Actual   string
}

func (e *IncompatibleColumnTypeError) Error() string {
	return fmt.Sprintf("column %q is %s, expected %s", e.Column, e.Actual, e.Expected)
}

func (e *IncompatibleColumnTypeError) Kind() Kind { return KindIncompatibleColumnType }

type InsufficientNumericColumnsError struct {
	Found    int
	Required int
}

func (e *InsufficientNumericColumnsError) Error() string {
	return fmt.Sprintf("heatmap needs at least %d numeric columns, dataset has %d", e.Required, e.Found)
}

func (e *InsufficientNumericColumnsError) Kind() Kind { return KindInsufficientNumericColumns }
