package normalize

import (
	"slices"
	"strconv"
)

// ActivitySummary is the headline numbers shown above a contact's dashboard.
type ActivitySummary struct {
	TotalMessages  int     `json:"totalMessages"`
	ActiveDays     int     `json:"activeDays"`
	FirstDay       string  `json:"firstDay,omitempty"`
	LastDay        string  `json:"lastDay,omitempty"`
	BusiestDay     string  `json:"busiestDay,omitempty"`
	BusiestHour    int     `json:"busiestHour"`
	BusiestWeekday string  `json:"busiestWeekday,omitempty"`
	PerActiveDay   float64 `json:"perActiveDay"`
}

// Summarize derives an ActivitySummary from the basic statistics of a
// payload. It needs type_counts, hourly_counts, weekday_counts and
// daily_counts.
func Summarize(p *Payload) (ActivitySummary, error) {
	var s ActivitySummary

	types, err := MessageTypes(p)
	if err != nil {
		return s, err
	}
	s.TotalMessages = int(types.Total())

	hourly, err := HourlyActivity(p)
	if err != nil {
		return s, err
	}
	s.BusiestHour = argMax(hourly)

	weekdays, err := WeekdayActivity(p)
	if err != nil {
		return s, err
	}
	if weekdays.Total() > 0 {
		s.BusiestWeekday = weekdays[argMax(weekdays.Values())].Label
	}

	daily, err := p.Counts("daily_counts")
	if err != nil {
		return s, err
	}
	days := daily.Keys()
	slices.Sort(days)
	var busiest float64
	for _, day := range days {
		n, _ := daily.Get(day)
		if n <= 0 {
			continue
		}
		s.ActiveDays++
		if s.FirstDay == "" {
			s.FirstDay = day
		}
		s.LastDay = day
		if n > busiest {
			busiest = n
			s.BusiestDay = day
		}
	}
	if s.ActiveDays > 0 {
		avg := float64(s.TotalMessages) / float64(s.ActiveDays)
		s.PerActiveDay, _ = strconv.ParseFloat(strconv.FormatFloat(avg, 'f', 1, 64), 64)
	}
	return s, nil
}

// argMax returns the first index holding the largest value, or 0.
func argMax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
