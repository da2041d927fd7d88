package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"inventory-chart-backend/internal/model"
	"inventory-chart-backend/internal/util"
)

var thousandsPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// inferColumn decides the kind of a column from its non-empty cells: numeric when every
// cell is a finite number, datetime when every cell is a date, categorical otherwise.
// A column without any value is categorical.
func inferColumn(name string, cells []string) model.Column {
	col := model.Column{Name: name, Kind: model.KindCategorical, Raw: cells}

	nonEmpty := 0
	for _, c := range cells {
		if c != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return col
	}

	if numbers, ok := parseNumbers(cells); ok {
		col.Kind = model.KindNumeric
		col.Numbers = numbers
		return col
	}
	if times, ok := parseTimes(cells); ok {
		col.Kind = model.KindDatetime
		col.Times = times
	}
	return col
}

func parseNumbers(cells []string) ([]float64, bool) {
	numbers := make([]float64, len(cells))
	for i, c := range cells {
		if c == "" {
			numbers[i] = math.NaN()
			continue
		}
		v, ok := ParseNumber(c)
		if !ok {
			return nil, false
		}
		numbers[i] = v
	}
	return numbers, true
}

func parseTimes(cells []string) ([]time.Time, bool) {
	times := make([]time.Time, len(cells))
	for i, c := range cells {
		if c == "" {
			continue
		}
		t, err := util.ParseDateCell(c)
		if err != nil {
			return nil, false
		}
		times[i] = t
	}
	return times, true
}

// ParseNumber accepts plain decimal numbers and numbers with comma thousands separators
// such as 1,250.50. NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
