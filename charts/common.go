package charts

import (
	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/normalize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Chart is a go-echarts chart that can be added to a page and exported as
// an option object.
type Chart interface {
	components.Charter
	JSON() map[string]interface{}
}

// initOpts sets the chart size and background
func initOpts(height string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:           consts.ChartWidth,
		Height:          height,
		BackgroundColor: consts.ChartBackgroundColor,
	})
}

func titleOpts(title string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:      title,
		Left:       "center",
		TitleStyle: &opts.TextStyle{Color: consts.ChartTextColor},
	})
}

func itemTooltip(formatter string) charts.GlobalOpts {
	return charts.WithTooltipOpts(opts.Tooltip{
		Show:      opts.Bool(true),
		Trigger:   "item",
		Formatter: types.FuncStr(formatter),
	})
}

// axisTooltip shows all series of the hovered category
func axisTooltip() charts.GlobalOpts {
	return charts.WithTooltipOpts(opts.Tooltip{
		Show:        opts.Bool(true),
		Trigger:     "axis",
		AxisPointer: &opts.AxisPointer{Type: "shadow"},
	})
}

// valueYAxis creates a named value axis. formatter may be empty.
func valueYAxis(name, formatter string) charts.GlobalOpts {
	return charts.WithYAxisOpts(opts.YAxis{
		Type: "value",
		Name: name,
		AxisLabel: &opts.AxisLabel{
			Color:     consts.ChartTextColor,
			Formatter: types.FuncStr(formatter),
		},
	})
}

// categoryXAxis rotates the labels by rotate degrees
func categoryXAxis(rotate float64) charts.GlobalOpts {
	return charts.WithXAxisOpts(opts.XAxis{
		Type: "category",
		AxisLabel: &opts.AxisLabel{
			Color:    consts.ChartTextColor,
			Interval: "0",
			Rotate:   rotate,
		},
	})
}

// pieData turns a category series into pie slices. Colors are applied in
// order when given.
func pieData(series normalize.CategorySeries, colors []string, names map[string]string) []opts.PieData {
	data := make([]opts.PieData, len(series))
	for i, c := range series {
		name := c.Label
		if n, ok := names[c.Label]; ok {
			name = n
		}
		data[i] = opts.PieData{Name: name, Value: c.Value}
		if i < len(colors) {
			data[i].ItemStyle = &opts.ItemStyle{Color: colors[i]}
		}
	}
	return data
}

// barData converts values to bar items, coloring each one when colors are given
func barData(values []float64, colors []string) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
		if i < len(colors) {
			data[i].ItemStyle = &opts.ItemStyle{Color: colors[i]}
		}
	}
	return data
}
