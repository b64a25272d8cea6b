package ledger

import (
	"testing"
	"time"

	"github.com/finanzaspro/finanzas/internal/model"
)

func TestAddOneMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "mid month", in: day(2025, 1, 15), want: day(2025, 2, 15)},
		{name: "jan 31 clamps to feb 28", in: day(2025, 1, 31), want: day(2025, 2, 28)},
		{name: "jan 31 leap year clamps to feb 29", in: day(2024, 1, 31), want: day(2024, 2, 29)},
		{name: "mar 31 clamps to apr 30", in: day(2025, 3, 31), want: day(2025, 4, 30)},
		{name: "dec rolls into next year", in: day(2025, 12, 15), want: day(2026, 1, 15)},
		{name: "first of month", in: day(2025, 8, 1), want: day(2025, 9, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddOneMonth(tt.in); !got.Equal(tt.want) {
				t.Errorf("AddOneMonth(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyDue(t *testing.T) {
	today := day(2025, 6, 10)
	ob := func(due time.Time, paid bool) model.Obligation {
		return model.Obligation{DueDate: due, IsPaid: paid}
	}

	tests := []struct {
		name   string
		ob     model.Obligation
		window int
		want   DueStatus
	}{
		{name: "paid wins over overdue", ob: ob(day(2025, 6, 1), true), window: 3, want: DueStatusPaid},
		{name: "past due date", ob: ob(day(2025, 6, 9), false), window: 3, want: DueStatusOverdue},
		{name: "due today", ob: ob(day(2025, 6, 10), false), window: 3, want: DueStatusDueToday},
		{name: "inside window", ob: ob(day(2025, 6, 13), false), window: 3, want: DueStatusUpcoming},
		{name: "window edge is inclusive", ob: ob(day(2025, 6, 13), false), window: 3, want: DueStatusUpcoming},
		{name: "beyond window", ob: ob(day(2025, 6, 14), false), window: 3, want: DueStatusScheduled},
		{name: "time of day is ignored", ob: ob(day(2025, 6, 10).Add(23*time.Hour), false), window: 3, want: DueStatusDueToday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDue(tt.ob, today, tt.window); got != tt.want {
				t.Errorf("ClassifyDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpcomingObligations_SortedSoonestFirst(t *testing.T) {
	today := day(2025, 6, 10)
	obs := []model.Obligation{
		{ID: "c", Description: "c", DueDate: day(2025, 6, 13)},
		{ID: "a", Description: "a", DueDate: day(2025, 6, 10)},
		{ID: "paid", DueDate: day(2025, 6, 11), IsPaid: true},
		{ID: "b", Description: "b", DueDate: day(2025, 6, 11)},
		{ID: "far", DueDate: day(2025, 7, 1)},
	}

	got := UpcomingObligations(obs, today, 3)
	wantIDs := []string{"a", "b", "c"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Expected %d obligations, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestOverdueObligations(t *testing.T) {
	today := day(2025, 6, 10)
	obs := []model.Obligation{
		{ID: "old", DueDate: day(2025, 5, 1)},
		{ID: "older", DueDate: day(2025, 4, 1)},
		{ID: "paid-old", DueDate: day(2025, 3, 1), IsPaid: true},
		{ID: "today", DueDate: day(2025, 6, 10)},
	}

	got := OverdueObligations(obs, today)
	wantIDs := []string{"older", "old"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Expected %d overdue, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}
