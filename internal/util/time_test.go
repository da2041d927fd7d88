package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-chart-backend/internal/util"
)

func TestParseDateCell(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"ISO Date", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"ISO Timestamp", "2024-01-15T08:30:00Z", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), false},
		{"Slash Date", "2024/02/03", time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), false},
		{"Bare Number", "2024", time.Time{}, true},
		{"Decimal", "12.5", time.Time{}, true},
		{"Text", "Warehouse A", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := util.ParseDateCell(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestDateLabel(t *testing.T) {
	assert.Equal(t, "2024-01-15", util.DateLabel(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-15T08:30:00Z", util.DateLabel(time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)))
}
