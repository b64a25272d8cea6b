package ledger

import (
	"sort"
	"time"

	"github.com/finanzaspro/finanzas/internal/model"
)

// DueStatus classifies an obligation relative to a reference day.
type DueStatus string

const (
	// DueStatusPaid means the obligation has been settled.
	DueStatusPaid DueStatus = "paid"
	// DueStatusOverdue means the due date has passed unpaid.
	DueStatusOverdue DueStatus = "overdue"
	// DueStatusDueToday means the obligation is due on the reference day.
	DueStatusDueToday DueStatus = "due_today"
	// DueStatusUpcoming means the obligation is due within the window.
	DueStatusUpcoming DueStatus = "upcoming"
	// DueStatusScheduled means the obligation is due beyond the window.
	DueStatusScheduled DueStatus = "scheduled"
)

// ClassifyDue is a pure classification of an obligation against a
// reference day using a look-ahead window in days. It never mutates.
func ClassifyDue(ob model.Obligation, today time.Time, windowDays int) DueStatus {
	if ob.IsPaid {
		return DueStatusPaid
	}

	ref := truncateDay(today)
	due := truncateDay(ob.DueDate)
	switch {
	case due.Before(ref):
		return DueStatusOverdue
	case due.Equal(ref):
		return DueStatusDueToday
	case !due.After(ref.AddDate(0, 0, windowDays)):
		return DueStatusUpcoming
	default:
		return DueStatusScheduled
	}
}

// UpcomingObligations returns the unpaid obligations due within the
// window, including ones due on the reference day, sorted soonest first.
func UpcomingObligations(obligations []model.Obligation, today time.Time, windowDays int) []model.Obligation {
	var upcoming []model.Obligation
	for _, ob := range obligations {
		switch ClassifyDue(ob, today, windowDays) {
		case DueStatusDueToday, DueStatusUpcoming:
			upcoming = append(upcoming, ob)
		}
	}
	return SortByDueDate(upcoming)
}

// OverdueObligations returns the unpaid obligations whose due date has
// passed, sorted soonest first.
func OverdueObligations(obligations []model.Obligation, today time.Time) []model.Obligation {
	var overdue []model.Obligation
	for _, ob := range obligations {
		if ClassifyDue(ob, today, 0) == DueStatusOverdue {
			overdue = append(overdue, ob)
		}
	}
	return SortByDueDate(overdue)
}

// SortByDueDate returns a copy of the obligations ordered by due date,
// soonest first.
func SortByDueDate(obligations []model.Obligation) []model.Obligation {
	sorted := append([]model.Obligation(nil), obligations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})
	return sorted
}

// AddOneMonth advances a date by exactly one calendar month, clamping to
// the last day of the target month when the source day does not exist
// there (Jan 31 -> Feb 28/29).
func AddOneMonth(d time.Time) time.Time {
	year, month, day := d.Date()
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, d.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, d.Location())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
