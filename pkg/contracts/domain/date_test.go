package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetDate(t *testing.T) {
	now := time.Date(2025, 10, 17, 15, 42, 7, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "today token", input: "TODAY", expected: "2025-10-17"},
		{name: "lowercase today", input: "today", expected: "2025-10-17"},
		{name: "iso date", input: "2025-01-02", expected: "2025-01-02"},
		{name: "padded iso date", input: " 2025-01-02 ", expected: "2025-01-02"},
		{name: "archive format rejected", input: "02012025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTargetDate(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, FormatISODate(got))
			assert.Zero(t, got.Hour())
		})
	}
}

func TestPreviousCalendarDay(t *testing.T) {
	monday := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-19", FormatISODate(PreviousCalendarDay(monday)))

	newYear := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31", FormatISODate(PreviousCalendarDay(newYear)))
}

func TestDeliveryTable_FilterSeries(t *testing.T) {
	table := &DeliveryTable{Records: []DeliveryRecord{
		{Symbol: "A", Series: "EQ"},
		{Symbol: "B", Series: "BE"},
		{Symbol: "C", Series: "EQ"},
	}}

	eq := table.FilterSeries(EquitySeries)
	require.Len(t, eq, 2)
	assert.Equal(t, "A", eq[0].Symbol)
	assert.Equal(t, "C", eq[1].Symbol)

	var empty *DeliveryTable
	assert.Nil(t, empty.FilterSeries(EquitySeries))
	assert.Equal(t, 0, empty.Len())
}
