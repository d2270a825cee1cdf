package normalize

import (
	"strconv"
)

// IndexedSeries is a dense sequence with one value per domain label.
type IndexedSeries []float64

// Category is one labelled value of a pie or bar series.
type Category struct {
	Label string
	Value float64
}

// CategorySeries is an ordered list of categories with unique labels.
type CategorySeries []Category

func (s CategorySeries) Labels() []string {
	labels := make([]string, len(s))
	for i, c := range s {
		labels[i] = c.Label
	}
	return labels
}

func (s CategorySeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, c := range s {
		values[i] = c.Value
	}
	return values
}

func (s CategorySeries) Total() float64 {
	var total float64
	for _, c := range s {
		total += c.Value
	}
	return total
}

// HourDomain is "0" through "23", the keys of hourly_counts.
var HourDomain = func() []string {
	hours := make([]string, 24)
	for i := range hours {
		hours[i] = strconv.Itoa(i)
	}
	return hours
}()

var WeekdayDomain = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ConversationGapBuckets is the canonical order of the conversation gap
// distribution, as labelled by the upstream analyzer.
var ConversationGapBuckets = []string{
	"1小时内", "1-2小时", "2-3小时", "3-4小时", "4-5小时",
	"5-6小时", "6-12小时", "12-24小时", "24小时以上",
}

// Fill expands a sparse mapping into one value per domain label, using 0 for
// labels the mapping does not have. A nil mapping, typed or not, yields all
// zeros.
func Fill(domain []string, sparse any) (IndexedSeries, error) {
	if len(domain) == 0 {
		return nil, newError(InvalidDomain, "domain is empty")
	}
	var counts *Counts
	switch m := sparse.(type) {
	case nil:
	case *Counts:
		counts = m
	case *Object:
		if m != nil {
			var err error
			if counts, err = CountsFrom(m); err != nil {
				return nil, err
			}
		}
	default:
		var err error
		if counts, err = CountsFrom(sparse); err != nil {
			return nil, err
		}
	}
	out := make(IndexedSeries, len(domain))
	for i, label := range domain {
		out[i], _ = counts.Get(label)
	}
	return out, nil
}

// Flatten turns a label→number mapping into a category series. With order,
// the output follows order exactly and labels missing from the mapping get 0;
// mapping labels not named in order are dropped. Without order the mapping's
// own order is kept.
func Flatten(mapping any, order ...string) (CategorySeries, error) {
	counts, err := CountsFrom(mapping)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		out := make(CategorySeries, 0, counts.Len())
		for label, v := range counts.All() {
			out = append(out, Category{Label: label, Value: v})
		}
		return out, nil
	}
	out := make(CategorySeries, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, label := range order {
		if seen[label] {
			continue
		}
		seen[label] = true
		v, _ := counts.Get(label)
		out = append(out, Category{Label: label, Value: v})
	}
	return out, nil
}
