package normalize

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// HeatmapCell is the message count of one calendar day.
type HeatmapCell struct {
	Date  string
	Count int
}

func (c HeatmapCell) year() string {
	return c.Date[:4]
}

// YearPartition is the heatmap scoped to one calendar year. It is a value:
// SelectYear returns a new partition and never changes the receiver, and the
// full cell list is shared read-only between partitions.
type YearPartition struct {
	AvailableYears []string
	SelectedYear   string
	Cells          []HeatmapCell

	all []HeatmapCell
}

// NewYearPartition lists the years present in cells and selects the latest.
// An empty cell list gives a partition with no years and nothing selected.
func NewYearPartition(cells []HeatmapCell) (YearPartition, error) {
	for _, c := range cells {
		if len(c.Date) < 4 {
			return YearPartition{}, newError(InvalidInput, "heatmap date %q has no year", c.Date)
		}
	}
	years := lo.Uniq(lo.Map(cells, func(c HeatmapCell, _ int) string { return c.year() }))
	slices.Sort(years)

	p := YearPartition{AvailableYears: years, all: cells}
	if len(years) == 0 {
		return p, nil
	}
	return p.with(years[len(years)-1]), nil
}

// SelectYear returns p scoped to year. Selecting the same year twice gives
// equal partitions.
func SelectYear(p YearPartition, year string) (YearPartition, error) {
	if !slices.Contains(p.AvailableYears, year) {
		return p, newError(UnknownYear, "%q is not one of %v", year, p.AvailableYears)
	}
	return p.with(year), nil
}

// Select is SelectYear with p as receiver.
func (p YearPartition) Select(year string) (YearPartition, error) {
	return SelectYear(p, year)
}

func (p YearPartition) with(year string) YearPartition {
	p.SelectedYear = year
	p.Cells = lo.Filter(p.all, func(c HeatmapCell, _ int) bool {
		return strings.HasPrefix(c.Date, year)
	})
	return p
}

// MaxCount returns the largest count among the selected cells.
func (p YearPartition) MaxCount() int {
	return lo.MaxBy(p.Cells, func(a, b HeatmapCell) bool { return a.Count > b.Count }).Count
}
