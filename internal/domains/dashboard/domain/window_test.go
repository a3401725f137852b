package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 15, 30, 0, 0, time.UTC)

func TestResolveWindow_FifteenDays(t *testing.T) {
	w, err := ResolveWindow("15 days", 0, 0, now, nil)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC), *w.From)
	require.Equal(t, now, *w.To)
	require.True(t, w.ByDay)
	require.True(t, w.ByMonth)
	require.True(t, w.IncludesRows())
}

func TestResolveWindow_MonthlyExplicit(t *testing.T) {
	w, err := ResolveWindow("monthly", 2023, 12, now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), *w.From)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *w.To)
	require.True(t, w.IncludesRows())
}

func TestResolveWindow_MonthlyDefaultsToCurrentMonth(t *testing.T) {
	for _, tc := range []struct{ year, month int }{{0, 0}, {2022, 0}, {0, 7}} {
		w, err := ResolveWindow("monthly", tc.year, tc.month, now, time.UTC)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *w.From)
		require.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *w.To)
	}
}

func TestResolveWindow_MonthlyRejectsBadMonth(t *testing.T) {
	_, err := ResolveWindow("monthly", 2024, 13, now, time.UTC)
	require.ErrorIs(t, err, ErrInvalidFilter)
	require.ErrorIs(t, err, ErrInvalidMonth)
}

func TestResolveWindow_Year(t *testing.T) {
	w, err := ResolveWindow("year", 2022, 0, now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), *w.From)
	require.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *w.To)
	require.False(t, w.ByDay)
	require.True(t, w.ByMonth)
	require.False(t, w.IncludesRows())

	current, err := ResolveWindow("year", 0, 0, now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *current.From)
	require.Equal(t, now, *current.To)
}

func TestResolveWindow_AllYears(t *testing.T) {
	w, err := ResolveWindow("all years", 0, 0, now, time.UTC)
	require.NoError(t, err)
	require.Nil(t, w.From)
	require.Nil(t, w.To)
	require.False(t, w.ByDay)
	require.False(t, w.ByMonth)
}

func TestResolveWindow_UsesLocationForBoundaries(t *testing.T) {
	santiago := time.FixedZone("CLT", -3*60*60)
	early := time.Date(2024, 4, 1, 1, 0, 0, 0, time.UTC) // still March 31 in CLT
	w, err := ResolveWindow("monthly", 0, 0, early, santiago)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, santiago), *w.From)
}

func TestResolveWindow_Unknown(t *testing.T) {
	_, err := ResolveWindow("weekly", 0, 0, now, time.UTC)
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestMonthLabel(t *testing.T) {
	require.Equal(t, "Ene", MonthLabel(1))
	require.Equal(t, "Ago", MonthLabel(8))
	require.Equal(t, "Dic", MonthLabel(12))
	require.Equal(t, "", MonthLabel(0))
}
