package aggregate

import (
	"testing"
	"time"

	"github.com/claude/amped/internal/health"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestWindowBounds(t *testing.T) {
	cases := []struct {
		period    health.Period
		wantStart time.Time
	}{
		{health.PeriodDay, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)},
		{health.PeriodMonth, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)},
		{health.PeriodYear, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			start, end := windowBounds(tc.period, testDay)
			require.Equal(t, tc.wantStart, start)
			require.Equal(t, testDay, end, "windows are rolling, ending now")
			require.Equal(t, tc.period.Days()-1, int(startOfDay(end).Sub(start).Hours())/24)
		})
	}
}

func TestStartOfDayKeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	at := time.Date(2026, 8, 30, 23, 59, 0, 0, loc)
	got := startOfDay(at)
	require.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc), got)
	require.Equal(t, loc, got.Location())
}
