package exam

import "time"

// Counts is the aggregation returned by /api/exam/count.
type Counts struct {
	Total   int `json:"totalExams"`
	ByDay   int `json:"examsByDay"`
	ByWeek  int `json:"examsByWeek"`
	ByMonth int `json:"examsByMonth"`
}

// CountWindows buckets record dates against the UTC day, week and month
// windows around ref. period, when non-nil, replaces the day window with
// that calendar day; week and month stay anchored on ref.
//
// Window arithmetic mirrors the production behavior exactly: the day
// window closes at 23:59:59 (compared exclusively), the week runs from
// Sunday 00:00 to Sunday+6d (exclusive), the month from the 1st to the
// last calendar day at 00:00 (exclusive). Dates that do not parse are
// counted nowhere, including Total.
func CountWindows(dates []string, ref time.Time, period *time.Time) Counts {
	ref = ref.UTC()

	dayStart := startOfDayUTC(ref)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	if period != nil {
		dayStart = startOfDayUTC(period.UTC())
		dayEnd = dayStart.Add(24*time.Hour - time.Second)
	}

	weekStart := startOfDayUTC(ref).AddDate(0, 0, -int(ref.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var c Counts
	for _, d := range dates {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			continue
		}
		c.Total++
		if inWindow(t, dayStart, dayEnd) {
			c.ByDay++
		}
		if inWindow(t, weekStart, weekEnd) {
			c.ByWeek++
		}
		if inWindow(t, monthStart, monthEnd) {
			c.ByMonth++
		}
	}
	return c
}

func startOfDayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
