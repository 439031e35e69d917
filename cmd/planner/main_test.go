package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRange_Empty(t *testing.T) {
	start, end, err := scheduleRange(nil)
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestScheduleRange_BothDates(t *testing.T) {
	start, end, err := scheduleRange([]string{"01.04.2024", "30.04.2024"})
	require.NoError(t, err)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), *end)
}

func TestScheduleRange_LoneDateRejected(t *testing.T) {
	_, _, err := scheduleRange([]string{"01.04.2024"})
	assert.Error(t, err)
}

func TestScheduleRange_BadDate(t *testing.T) {
	_, _, err := scheduleRange([]string{"2024-04-01", "30.04.2024"})
	assert.Error(t, err)
}
