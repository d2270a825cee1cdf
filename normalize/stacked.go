package normalize

import (
	"slices"
)

// StackedSeries holds one row per category, every row aligned to DateKeys.
type StackedSeries struct {
	Categories []string
	DateKeys   []string
	Values     [][]float64
}

// Row returns the values of category, or nil if it is not part of the series.
func (s StackedSeries) Row(category string) []float64 {
	i := slices.Index(s.Categories, category)
	if i < 0 {
		return nil
	}
	return s.Values[i]
}

// UnionDateKeys returns every date key found in daily, sorted ascending.
// Keys are ISO dates, so lexical order is chronological.
func UnionDateKeys(daily map[string]*Counts) []string {
	seen := make(map[string]struct{})
	for _, counts := range daily {
		for _, k := range counts.Keys() {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// StackDaily builds a |categories| × |dateKeys| grid, using 0 for cells that
// daily does not have. Missing and explicitly zero cells are not
// distinguished.
func StackDaily(categories, dateKeys []string, daily map[string]*Counts) StackedSeries {
	values := make([][]float64, len(categories))
	for i, category := range categories {
		row := make([]float64, len(dateKeys))
		counts := daily[category]
		for j, date := range dateKeys {
			row[j], _ = counts.Get(date)
		}
		values[i] = row
	}
	return StackedSeries{
		Categories: slices.Clone(categories),
		DateKeys:   slices.Clone(dateKeys),
		Values:     values,
	}
}

// BuildStacked is StackDaily over the sorted union of all dates in daily.
func BuildStacked(categories []string, daily map[string]*Counts) StackedSeries {
	return StackDaily(categories, UnionDateKeys(daily), daily)
}
