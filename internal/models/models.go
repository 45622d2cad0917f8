package models

import "time"

type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

// Period is one contiguous day-range within a template, revisited every
// Interval days. Day offsets are relative to the schedule start date.
type Period struct {
	StartDay int `json:"start_day"`
	EndDay   int `json:"end_day"`
	Interval int `json:"interval"`
}

// Template is a reusable visit cadence. Periods are consulted in stored
// order; ranges may overlap, in which case a calendar day is emitted once
// per period that covers it.
type Template struct {
	Name      string    `json:"name"`
	Periods   []Period  `json:"periods"`
	CreatedAt time.Time `json:"created_at"`
}

// Visit is one concrete calendar-dated occurrence generated from a
// template period. AssignedPeople and ProtocolDay are weak references:
// they are looked up by key at render time and may go stale after the
// referenced person or protocol is deleted.
type Visit struct {
	ID             string    `json:"id"`
	Day            int       `json:"day"`
	Date           time.Time `json:"date"`
	IsWeekend      bool      `json:"is_weekend"`
	AssignedPeople []string  `json:"assigned_people,omitempty"`
	Memo           string    `json:"memo,omitempty"`
	ProtocolDay    *int      `json:"protocol_day,omitempty"`
}

// Schedule is one tracked line's full visit plan. WeekendCount is computed
// once when the schedule is created and cached; later visit edits do not
// refresh it.
type Schedule struct {
	Name         string         `json:"name"`
	TemplateName string         `json:"template_name"`
	StartDate    time.Time      `json:"start_date"`
	Status       ScheduleStatus `json:"status"`
	WeekendCount int            `json:"weekend_count"`
	Visits       []Visit        `json:"visits"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Candidate is one ranked start-date option produced by the recommender.
// Overlaps maps conflicting schedule names to counts of shared calendar
// dates; it is computed fresh and never persisted.
type Candidate struct {
	Date         time.Time      `json:"date"`
	WeekendCount int            `json:"weekend_count"`
	OverlapTotal int            `json:"overlap_total"`
	Overlaps     map[string]int `json:"overlaps,omitempty"`
	Visits       []Visit        `json:"visits"`
}

// Protocol holds procedural instructions for a specific day offset within
// a template, independent of any schedule instance.
type Protocol struct {
	TemplateName string `json:"template_name"`
	Day          int    `json:"day"`
	Title        string `json:"title"`
	Body         string `json:"body"`
}

type Person struct {
	Name      string    `json:"name"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultTemplateName is seeded at startup and cannot be deleted.
const DefaultTemplateName = "Organoid"

// DefaultOrganoidTemplate is the reference organoid culture cadence:
// daily through day 15, every 2 days through day 42, then every 4 days.
func DefaultOrganoidTemplate() Template {
	return Template{
		Name: DefaultTemplateName,
		Periods: []Period{
			{StartDay: 0, EndDay: 6, Interval: 1},
			{StartDay: 7, EndDay: 15, Interval: 1},
			{StartDay: 16, EndDay: 24, Interval: 2},
			{StartDay: 25, EndDay: 42, Interval: 2},
			{StartDay: 43, EndDay: 150, Interval: 4},
		},
	}
}
