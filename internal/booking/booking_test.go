package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labreserva-backend/internal/model"
)

func mustStamp(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(model.TimeLayout, s)
	require.NoError(t, err)
	return parsed
}

func interval(t *testing.T, inicio, fim string) Interval {
	t.Helper()
	return Interval{Inicio: mustStamp(t, inicio), Fim: mustStamp(t, fim)}
}

func TestParseInterval(t *testing.T) {
	testCases := []struct {
		name    string
		inicio  string
		fim     string
		wantErr error
	}{
		{name: "valid", inicio: "2024-01-01T10:00", fim: "2024-01-01T12:00"},
		{name: "end equals start", inicio: "2024-01-01T10:00", fim: "2024-01-01T10:00", wantErr: ErrInvalidInterval},
		{name: "end before start", inicio: "2024-01-01T12:00", fim: "2024-01-01T10:00", wantErr: ErrInvalidInterval},
		{name: "malformed start", inicio: "01/01/2024 10:00", fim: "2024-01-01T12:00", wantErr: ErrBadTimeFormat},
		{name: "malformed end", inicio: "2024-01-01T10:00", fim: "2024-01-01", wantErr: ErrBadTimeFormat},
		{name: "seconds not allowed", inicio: "2024-01-01T10:00:00", fim: "2024-01-01T12:00", wantErr: ErrBadTimeFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseInterval(tc.inicio, tc.fim)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := interval(t, "2024-01-01T10:00", "2024-01-01T12:00")

	testCases := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{"same interval", interval(t, "2024-01-01T10:00", "2024-01-01T12:00"), true},
		{"partial overlap right", interval(t, "2024-01-01T11:00", "2024-01-01T13:00"), true},
		{"partial overlap left", interval(t, "2024-01-01T09:00", "2024-01-01T11:00"), true},
		{"contained", interval(t, "2024-01-01T10:30", "2024-01-01T11:30"), true},
		{"containing", interval(t, "2024-01-01T09:00", "2024-01-01T13:00"), true},
		{"touching end boundary", interval(t, "2024-01-01T12:00", "2024-01-01T13:00"), false},
		{"touching start boundary", interval(t, "2024-01-01T09:00", "2024-01-01T10:00"), false},
		{"one minute past boundary", interval(t, "2024-01-01T11:59", "2024-01-01T13:00"), true},
		{"disjoint after", interval(t, "2024-01-01T13:00", "2024-01-01T14:00"), false},
		{"disjoint before", interval(t, "2024-01-01T08:00", "2024-01-01T09:00"), false},
		{"other day", interval(t, "2024-01-02T10:00", "2024-01-02T12:00"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(base, tc.candidate))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.candidate, base))
		})
	}
}

func TestFirstConflict(t *testing.T) {
	existing := []model.Reservation{
		{ID: 1, DataInicio: "2024-01-01T10:00", DataFim: "2024-01-01T12:00"},
		{ID: 2, DataInicio: "2024-01-03T14:00", DataFim: "2024-01-03T16:00"},
	}

	hit, found := FirstConflict(existing, interval(t, "2024-01-03T15:00", "2024-01-03T17:00"))
	require.True(t, found)
	assert.Equal(t, int64(2), hit.ID)

	_, found = FirstConflict(existing, interval(t, "2024-01-01T12:00", "2024-01-01T13:00"))
	assert.False(t, found)
}

func TestFirstConflictSkipsUnparseableRows(t *testing.T) {
	existing := []model.Reservation{
		{ID: 1, DataInicio: "garbage", DataFim: "2024-01-01T12:00"},
	}
	_, found := FirstConflict(existing, interval(t, "2024-01-01T10:00", "2024-01-01T11:00"))
	assert.False(t, found)
}

func TestNextWeeklyDates(t *testing.T) {
	start := mustStamp(t, "2024-01-01T10:00")
	dates := NextWeeklyDates(start, 3)

	require.Len(t, dates, 3)
	assert.Equal(t, "2024-01-08T10:00", dates[0].Format(model.TimeLayout))
	assert.Equal(t, "2024-01-15T10:00", dates[1].Format(model.TimeLayout))
	assert.Equal(t, "2024-01-22T10:00", dates[2].Format(model.TimeLayout))

	for i := 1; i < len(dates); i++ {
		assert.Equal(t, 7*24*time.Hour, dates[i].Sub(dates[i-1]))
	}
}

func TestProjectAvailability(t *testing.T) {
	t.Run("all free when laboratory is empty", func(t *testing.T) {
		avail, err := ProjectAvailability(nil, "2024-01-01T10:00", "2024-01-01T11:00", 3)
		require.NoError(t, err)
		assert.Empty(t, avail.Ocupadas)
		assert.Equal(t, []string{"2024-01-08T10:00", "2024-01-15T10:00", "2024-01-22T10:00"}, avail.Livres)
	})

	t.Run("occupied weeks land in the occupied bucket in order", func(t *testing.T) {
		existing := []model.Reservation{
			{DataInicio: "2024-01-15T10:30", DataFim: "2024-01-15T11:30"},
		}
		avail, err := ProjectAvailability(existing, "2024-01-01T10:00", "2024-01-01T11:00", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-15T10:00"}, avail.Ocupadas)
		assert.Equal(t, []string{"2024-01-08T10:00", "2024-01-22T10:00"}, avail.Livres)
	})

	t.Run("end time of day comes from the request", func(t *testing.T) {
		// Existing booking sits between the projected start and the
		// requested end time; a derived one-hour window would miss it.
		existing := []model.Reservation{
			{DataInicio: "2024-01-08T12:30", DataFim: "2024-01-08T13:30"},
		}
		avail, err := ProjectAvailability(existing, "2024-01-01T10:00", "2024-01-01T13:00", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-08T10:00"}, avail.Ocupadas)
	})

	t.Run("boundary touch stays free", func(t *testing.T) {
		existing := []model.Reservation{
			{DataInicio: "2024-01-08T11:00", DataFim: "2024-01-08T12:00"},
		}
		avail, err := ProjectAvailability(existing, "2024-01-01T10:00", "2024-01-01T11:00", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-08T10:00"}, avail.Livres)
	})

	t.Run("malformed start fails before any computation", func(t *testing.T) {
		_, err := ProjectAvailability(nil, "2024-13-99T10:00", "2024-01-01T11:00", 3)
		assert.ErrorIs(t, err, ErrBadTimeFormat)
	})

	t.Run("oversized horizon is clamped", func(t *testing.T) {
		avail, err := ProjectAvailability(nil, "2024-01-01T10:00", "2024-01-01T11:00", 500000)
		require.NoError(t, err)
		assert.Len(t, avail.Livres, MaxHorizon)
	})

	t.Run("zero horizon falls back to the default", func(t *testing.T) {
		avail, err := ProjectAvailability(nil, "2024-01-01T10:00", "2024-01-01T11:00", 0)
		require.NoError(t, err)
		assert.Len(t, avail.Livres, DefaultHorizon)
	})
}

func TestRecurrenceIntervals(t *testing.T) {
	primary := interval(t, "2024-01-01T10:00", "2024-01-01T11:30")

	intervals, err := RecurrenceIntervals(primary, []string{"2024-01-08T10:00", "2024-01-15T10:00"})
	require.NoError(t, err)
	require.Len(t, intervals, 2)

	// Each instance carries the primary interval's duration.
	assert.Equal(t, "2024-01-08T11:30", intervals[0].Fim.Format(model.TimeLayout))
	assert.Equal(t, "2024-01-15T11:30", intervals[1].Fim.Format(model.TimeLayout))

	_, err = RecurrenceIntervals(primary, []string{"not-a-date"})
	assert.ErrorIs(t, err, ErrBadTimeFormat)
}

func TestCoversDate(t *testing.T) {
	r := model.Reservation{DataInicio: "2024-01-10T22:00", DataFim: "2024-01-12T02:00"}

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	assert.True(t, CoversDate(r, day("2024-01-10")))
	assert.True(t, CoversDate(r, day("2024-01-11")))
	assert.True(t, CoversDate(r, day("2024-01-12"))) // inclusive end date
	assert.False(t, CoversDate(r, day("2024-01-09")))
	assert.False(t, CoversDate(r, day("2024-01-13")))
}

func TestSortByInicio(t *testing.T) {
	reservas := []model.Reservation{
		{ID: 1, DataInicio: "2024-03-01T10:00"},
		{ID: 2, DataInicio: "2024-01-01T10:00"},
		{ID: 3, DataInicio: "2024-02-01T10:00"},
	}

	SortByInicio(reservas)

	assert.Equal(t, int64(2), reservas[0].ID)
	assert.Equal(t, int64(3), reservas[1].ID)
	assert.Equal(t, int64(1), reservas[2].ID)
}
