package services

import (
	"errors"
	"testing"
	"time"

	"github.com/wnddl111/organoid/internal/models"
)

func TestGenerateVisits_OrganoidTemplate(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	visits, err := GenerateVisits(start, models.DefaultOrganoidTemplate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 7 + 9 + 5 + 9 + 27 across the five periods.
	if len(visits) != 57 {
		t.Fatalf("expected 57 visits, got %d", len(visits))
	}

	maxDay := 0
	for _, visit := range visits {
		if visit.Day > maxDay {
			maxDay = visit.Day
		}
	}
	if maxDay != 148 {
		t.Errorf("expected last visit on day 148, got %d", maxDay)
	}

	if visits[0].Day != 0 || !visits[0].Date.Equal(start) {
		t.Errorf("expected first visit on day 0 at %v, got day %d at %v", start, visits[0].Day, visits[0].Date)
	}
}

func TestGenerateVisits_DayOffsets(t *testing.T) {
	tests := []struct {
		name     string
		period   models.Period
		expected []int
	}{
		{
			name:     "daily",
			period:   models.Period{StartDay: 0, EndDay: 6, Interval: 1},
			expected: []int{0, 1, 2, 3, 4, 5, 6},
		},
		{
			name:     "every 2 days",
			period:   models.Period{StartDay: 16, EndDay: 24, Interval: 2},
			expected: []int{16, 18, 20, 22, 24},
		},
		{
			name:     "interval overshoots end day",
			period:   models.Period{StartDay: 10, EndDay: 13, Interval: 3},
			expected: []int{10, 13},
		},
		{
			name:     "single day",
			period:   models.Period{StartDay: 5, EndDay: 5, Interval: 1},
			expected: []int{5},
		},
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			template := models.Template{Name: "t", Periods: []models.Period{test.period}}
			visits, err := GenerateVisits(start, template)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(visits) != len(test.expected) {
				t.Fatalf("expected %d visits, got %d", len(test.expected), len(visits))
			}
			for i, day := range test.expected {
				if visits[i].Day != day {
					t.Errorf("visit %d: expected day %d, got %d", i, day, visits[i].Day)
				}
				if want := start.AddDate(0, 0, day); !visits[i].Date.Equal(want) {
					t.Errorf("visit %d: expected date %v, got %v", i, want, visits[i].Date)
				}
			}
		})
	}
}

func TestGenerateVisits_WeekendFlag(t *testing.T) {
	// 2025-01-06 is a Monday; a daily week covers every weekday once.
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	template := models.Template{
		Name:    "week",
		Periods: []models.Period{{StartDay: 0, EndDay: 6, Interval: 1}},
	}

	visits, err := GenerateVisits(start, template)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, visit := range visits {
		weekday := visit.Date.Weekday()
		expected := weekday == time.Saturday || weekday == time.Sunday
		if visit.IsWeekend != expected {
			t.Errorf("day %d (%v): expected is_weekend=%v, got %v", visit.Day, weekday, expected, visit.IsWeekend)
		}
	}

	if got := CountWeekendVisits(visits); got != 2 {
		t.Errorf("expected 2 weekend visits in a full week, got %d", got)
	}
}

func TestGenerateVisits_OverlappingPeriodsEmitDuplicates(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	template := models.Template{
		Name: "overlapping",
		Periods: []models.Period{
			{StartDay: 0, EndDay: 4, Interval: 2},
			{StartDay: 2, EndDay: 6, Interval: 2},
		},
	}

	visits, err := GenerateVisits(start, template)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Days 2 and 4 are covered by both periods and must appear twice;
	// cached weekend counts on stored lines depend on this.
	days := []int{}
	for _, visit := range visits {
		days = append(days, visit.Day)
	}
	expected := []int{0, 2, 4, 2, 4, 6}
	if len(days) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, days)
	}
	for i := range expected {
		if days[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, days)
		}
	}
}

func TestGenerateVisits_Deterministic(t *testing.T) {
	start := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	template := models.DefaultOrganoidTemplate()

	first, err := GenerateVisits(start, template)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateVisits(start, template)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected identical lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Day != second[i].Day ||
			!first[i].Date.Equal(second[i].Date) ||
			first[i].IsWeekend != second[i].IsWeekend {
			t.Errorf("visit %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateVisits_InvalidTemplates(t *testing.T) {
	tests := []struct {
		name    string
		periods []models.Period
	}{
		{
			name:    "zero interval",
			periods: []models.Period{{StartDay: 0, EndDay: 10, Interval: 0}},
		},
		{
			name:    "negative interval",
			periods: []models.Period{{StartDay: 0, EndDay: 10, Interval: -1}},
		},
		{
			name:    "end before start",
			periods: []models.Period{{StartDay: 10, EndDay: 4, Interval: 1}},
		},
		{
			name:    "negative start day",
			periods: []models.Period{{StartDay: -3, EndDay: 4, Interval: 1}},
		},
		{
			name:    "no periods",
			periods: nil,
		},
		{
			name: "bad period after good one",
			periods: []models.Period{
				{StartDay: 0, EndDay: 6, Interval: 1},
				{StartDay: 7, EndDay: 15, Interval: 0},
			},
		},
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			template := models.Template{Name: "bad", Periods: test.periods}
			visits, err := GenerateVisits(start, template)
			if !errors.Is(err, ErrInvalidTemplate) {
				t.Fatalf("expected ErrInvalidTemplate, got %v", err)
			}
			if visits != nil {
				t.Errorf("expected no partial visit list, got %d visits", len(visits))
			}
		})
	}
}
