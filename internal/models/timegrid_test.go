package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysOfWeekExcludesSunday(t *testing.T) {
	days := DaysOfWeek()
	require.Len(t, days, 6)
	assert.Equal(t, 1, days[0].ID)
	assert.Equal(t, "Monday", days[0].Name)
	assert.Equal(t, 6, days[5].ID)
	assert.Equal(t, "Saturday", days[5].Name)
}

func TestPeriods(t *testing.T) {
	periods := Periods()
	require.Len(t, periods, 12)
	assert.Equal(t, 1, periods[0])
	assert.Equal(t, 12, periods[11])
}

func TestWeeksInRange(t *testing.T) {
	assert.Equal(t, []int{35, 36, 37}, WeeksInRange(35, 37))
	assert.Equal(t, []int{40}, WeeksInRange(40, 40))
	assert.Empty(t, WeeksInRange(40, 35))
}

func TestParseHelpers(t *testing.T) {
	_, err := ParseDay(7)
	assert.Error(t, err, "sunday is not schedulable")
	_, err = ParseDay(0)
	assert.Error(t, err)
	day, err := ParseDay(6)
	require.NoError(t, err)
	assert.Equal(t, 6, day)

	_, err = ParsePeriod(13)
	assert.Error(t, err)
	period, err := ParsePeriod(12)
	require.NoError(t, err)
	assert.Equal(t, 12, period)

	_, err = ParseWeek(34, 35, 40)
	assert.Error(t, err)
	week, err := ParseWeek(36, 35, 40)
	require.NoError(t, err)
	assert.Equal(t, 36, week)
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Tuesday", DayName(2))
	assert.Equal(t, "", DayName(7))
}
