package charts

import (
	"fmt"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/normalize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// buildMessageTypesChart creates a pie chart with the share of each message type
func buildMessageTypesChart(p *normalize.Payload) (Chart, error) {
	messageTypes, err := normalize.MessageTypes(p)
	if err != nil {
		return nil, err
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("消息类型分布"),
		itemTooltip("{b}: {c} ({d}%)"),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "vertical",
			Left:   "left",
			Type:   "scroll",
		}),
	)
	pie.AddSeries("消息类型", pieData(messageTypes, nil, nil)).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: "50%"}),
			charts.WithEmphasisOpts(opts.Emphasis{
				ItemStyle: &opts.ItemStyle{ShadowBlur: 10, ShadowColor: "rgba(0, 0, 0, 0.5)"},
			}),
		)
	return pie, nil
}

// buildHourlyChart creates a bar chart with the messages sent in each hour of the day
func buildHourlyChart(p *normalize.Payload) (Chart, error) {
	hourly, err := normalize.HourlyActivity(p)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(normalize.HourDomain))
	for i, h := range normalize.HourDomain {
		labels[i] = h + "时"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("每小时消息分布"),
		axisTooltip(),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		categoryXAxis(0),
		valueYAxis("消息数量", ""),
		charts.WithGridOpts(opts.Grid{Left: "3%", Right: "4%", Bottom: "3%", ContainLabel: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("消息数量", barData(hourly, nil), charts.WithItemStyleOpts(opts.ItemStyle{Color: consts.SenderColor}))
	return bar, nil
}

// buildDailyChart creates a stacked area chart of message types per day.
// Days missing for a type are drawn as 0.
func buildDailyChart(p *normalize.Payload) (Chart, error) {
	stacked, err := normalize.DailyMessageTypes(p)
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("每日消息统计"),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:        opts.Bool(true),
			Trigger:     "axis",
			AxisPointer: &opts.AxisPointer{Type: "cross"},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "30",
			Type: "scroll",
			Data: stacked.Categories,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: consts.ChartTextColor},
		}),
		valueYAxis("消息数量", ""),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 0, End: 100}, opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithGridOpts(opts.Grid{Left: "3%", Right: "4%", Top: "80", Bottom: "60", ContainLabel: opts.Bool(true)}),
	)
	line.SetXAxis(stacked.DateKeys)
	for i, category := range stacked.Categories {
		data := make([]opts.LineData, len(stacked.DateKeys))
		for j, v := range stacked.Values[i] {
			data[j] = opts.LineData{Value: v}
		}
		line.AddSeries(category, data)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Stack: "Total", Smooth: opts.Bool(true)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.3)}),
		charts.WithEmphasisOpts(opts.Emphasis{Focus: "series"}),
	)
	return line, nil
}

// buildWeekdayChart creates a ring chart of messages per weekday, Monday first
func buildWeekdayChart(p *normalize.Payload) (Chart, error) {
	weekdays, err := normalize.WeekdayActivity(p)
	if err != nil {
		return nil, err
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("星期分布"),
		itemTooltip("{b}: {c} ({d}%)"),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "vertical",
			Left:   "5%",
			Top:    "middle",
		}),
	)
	pie.AddSeries("星期分布", pieData(weekdays, consts.WeekdayColors, consts.WeekdayNames)).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"40%", "70%"},
				Center: []string{"60%", "50%"},
			}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}\n{d}%"}),
		)
	return pie, nil
}

// buildMessageLengthChart draws three concentric rings: text length on the
// outside, voice length in the middle and the average call in the center.
func buildMessageLengthChart(p *normalize.Payload) (Chart, error) {
	m, err := normalize.MessageLengths(p)
	if err != nil {
		return nil, err
	}

	ring := func(name, radiusIn, radiusOut string, data []opts.PieData, label opts.Label) func(*charts.Pie) {
		return func(pie *charts.Pie) {
			pie.AddSeries(name, data,
				charts.WithPieChartOpts(opts.PieChart{
					Radius: []string{radiusIn, radiusOut},
					Center: []string{"60%", "50%"},
				}),
				charts.WithLabelOpts(label),
			)
		}
	}
	slice := func(name string, value float64, color string) opts.PieData {
		return opts.PieData{Name: name, Value: value, ItemStyle: &opts.ItemStyle{Color: color}}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("消息长度分析"),
		itemTooltip("{a}<br/>{b}: {c}"),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "vertical",
			Left:   "5%",
			Top:    "middle",
		}),
	)
	ring("文字消息", "65%", "80%", []opts.PieData{
		slice("我的文字", m.Text.SenderAverage, "#4154f1"),
		slice("对方文字", m.Text.ReceiverAverage, "#2eca6a"),
	}, opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}字"})(pie)
	ring("语音消息", "40%", "55%", []opts.PieData{
		slice("我的语音", m.Voice.SenderAverage, "#ff771d"),
		slice("对方语音", m.Voice.ReceiverAverage, "#dc3545"),
	}, opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}秒"})(pie)
	ring("通话时长", "15%", "30%", []opts.PieData{
		slice("平均通话", 1, "#6f42c1"),
	}, opts.Label{
		Show:      opts.Bool(true),
		Position:  "inside",
		Formatter: types.FuncStr(fmt.Sprintf("%.1f分", m.CallAverageMinutes())),
	})(pie)
	return pie, nil
}
