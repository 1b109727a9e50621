// Package booking holds the reservation core: half-open interval conflict
// detection and weekly availability projection. Everything here is pure;
// persistence lives in the store.
package booking

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"labreserva-backend/internal/model"
)

var (
	// ErrBadTimeFormat is returned when a timestamp does not parse under
	// model.TimeLayout.
	ErrBadTimeFormat = errors.New("data em formato inválido, use YYYY-MM-DDTHH:MM")
	// ErrInvalidInterval is returned when an interval does not end strictly
	// after it starts.
	ErrInvalidInterval = errors.New("a data de fim não pode ser anterior à data de início")
)

// Interval is a parsed half-open reservation window [Inicio, Fim).
type Interval struct {
	Inicio time.Time
	Fim    time.Time
}

// ParseStamp parses a wire-format timestamp.
func ParseStamp(s string) (time.Time, error) {
	t, err := time.Parse(model.TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimeFormat, s)
	}
	return t, nil
}

// ParseInterval parses and validates a start/end pair.
func ParseInterval(inicio, fim string) (Interval, error) {
	start, err := ParseStamp(inicio)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseStamp(fim)
	if err != nil {
		return Interval{}, err
	}
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Inicio: start, Fim: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. A reservation
// ending exactly when another begins does not conflict.
func Overlaps(a, b Interval) bool {
	return a.Inicio.Before(b.Fim) && a.Fim.After(b.Inicio)
}

// FirstConflict scans a laboratory's stored reservations for one that
// overlaps the candidate interval. Reservations whose stamps no longer parse
// are skipped rather than treated as occupied. The second return is false
// when nothing conflicts.
func FirstConflict(existing []model.Reservation, candidate Interval) (model.Reservation, bool) {
	for _, r := range existing {
		inicio, err := time.Parse(model.TimeLayout, r.DataInicio)
		if err != nil {
			continue
		}
		fim, err := time.Parse(model.TimeLayout, r.DataFim)
		if err != nil {
			continue
		}
		if Overlaps(Interval{Inicio: inicio, Fim: fim}, candidate) {
			return r, true
		}
	}
	return model.Reservation{}, false
}

// HasConflict reports whether the candidate interval overlaps any of the
// laboratory's stored reservations.
func HasConflict(existing []model.Reservation, candidate Interval) bool {
	_, found := FirstConflict(existing, candidate)
	return found
}

// NextWeeklyDates returns count instances of start advanced by 7*i days
// (i = 1..count), preserving the time of day. Chronological order,
// nearest week first.
func NextWeeklyDates(start time.Time, count int) []time.Time {
	dates := make([]time.Time, 0, count)
	for i := 1; i <= count; i++ {
		dates = append(dates, start.AddDate(0, 0, 7*i))
	}
	return dates
}

// Availability is the result of projecting a time slot over future weeks.
type Availability struct {
	Ocupadas []string `json:"datas_ocupadas"`
	Livres   []string `json:"datas_livres"`
}

const (
	// DefaultHorizon is how many weekly instances ProjectAvailability
	// generates when the caller does not say otherwise.
	DefaultHorizon = 3
	// MaxHorizon caps the projection at one year of weekly instances. The
	// horizon comes straight from the request body, so without a ceiling a
	// single call could allocate an arbitrarily large slice.
	MaxHorizon = 52
)

// ProjectAvailability generates the next horizon weekly instances of the
// [inicio, fim) slot and classifies each against the laboratory's stored
// reservations. The same clock-time window is repeated on each future date;
// the end time of day comes from the request, not from the start plus a
// derived duration. Both buckets keep generation order. Horizons outside
// [1, MaxHorizon] are clamped.
func ProjectAvailability(existing []model.Reservation, inicio, fim string, horizon int) (Availability, error) {
	slot, err := ParseInterval(inicio, fim)
	if err != nil {
		return Availability{}, err
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if horizon > MaxHorizon {
		horizon = MaxHorizon
	}

	avail := Availability{Ocupadas: []string{}, Livres: []string{}}
	for _, date := range NextWeeklyDates(slot.Inicio, horizon) {
		candidate := Interval{
			Inicio: date,
			Fim: time.Date(date.Year(), date.Month(), date.Day(),
				slot.Fim.Hour(), slot.Fim.Minute(), 0, 0, date.Location()),
		}
		stamp := date.Format(model.TimeLayout)
		if HasConflict(existing, candidate) {
			avail.Ocupadas = append(avail.Ocupadas, stamp)
		} else {
			avail.Livres = append(avail.Livres, stamp)
		}
	}
	return avail, nil
}

// RecurrenceIntervals maps each recurrence date onto an interval with the
// primary interval's duration. Dates must parse under the wire layout.
func RecurrenceIntervals(primary Interval, dates []string) ([]Interval, error) {
	duration := primary.Fim.Sub(primary.Inicio)
	intervals := make([]Interval, 0, len(dates))
	for _, d := range dates {
		start, err := ParseStamp(d)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, Interval{Inicio: start, Fim: start.Add(duration)})
	}
	return intervals, nil
}

// CoversDate reports whether a reservation's calendar span includes the
// given day, inclusive on both ends.
func CoversDate(r model.Reservation, day time.Time) bool {
	inicio, err := time.Parse(model.TimeLayout, r.DataInicio)
	if err != nil {
		return false
	}
	fim, err := time.Parse(model.TimeLayout, r.DataFim)
	if err != nil {
		return false
	}
	d := truncateToDay(day)
	return !d.Before(truncateToDay(inicio)) && !d.After(truncateToDay(fim))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SortByInicio orders reservations ascending by parsed start time, in place.
// Unparseable stamps sort last.
func SortByInicio(reservas []model.Reservation) {
	sort.SliceStable(reservas, func(i, j int) bool {
		a, aerr := time.Parse(model.TimeLayout, reservas[i].DataInicio)
		b, berr := time.Parse(model.TimeLayout, reservas[j].DataInicio)
		if aerr != nil {
			return false
		}
		if berr != nil {
			return true
		}
		return a.Before(b)
	})
}
