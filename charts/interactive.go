package charts

import (
	"encoding/json"
	"fmt"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/normalize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// buildConversationGapsChart creates a bar chart of the time between
// conversations, using the fixed bucket order
func buildConversationGapsChart(p *normalize.Payload) (Chart, error) {
	gaps, err := normalize.ConversationGaps(p)
	if err != nil {
		return nil, err
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("对话间隔分布"),
		axisTooltip(),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		categoryXAxis(30),
		valueYAxis("对话数量", ""),
		charts.WithGridOpts(opts.Grid{Left: "3%", Right: "4%", Bottom: "10%", ContainLabel: opts.Bool(true)}),
	)
	bar.SetXAxis(gaps.Labels()).
		AddSeries("对话数量", barData(gaps.Values(), consts.ConversationGapColors),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{c}条"}),
		)
	return bar, nil
}

// buildResponseTimeChart creates a ring chart of reply delays
func buildResponseTimeChart(p *normalize.Payload) (Chart, error) {
	responses, err := normalize.ResponseTimes(p)
	if err != nil {
		return nil, err
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("回复时间分布"),
		itemTooltip("{a} <br/>{b}: {c} ({d}%)"),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "vertical",
			Left:   "left",
			Type:   "scroll",
		}),
	)
	pie.AddSeries("回复时间", pieData(responses, nil, nil)).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		)
	return pie, nil
}

// buildInteractionChart compares who starts and who ends conversations, in percent
func buildInteractionChart(p *normalize.Payload) (Chart, error) {
	in, err := normalize.Interactions(p)
	if err != nil {
		return nil, err
	}

	label := charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{c}%"})
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("对话发起与结束"),
		axisTooltip(),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		categoryXAxis(0),
		valueYAxis("占比", "{value}%"),
	)
	bar.SetXAxis([]string{"发起对话", "结束对话"}).
		AddSeries("我", barData([]float64{in.Initiator.Sender, in.Ender.Sender}, nil),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: consts.SenderColor}), label).
		AddSeries("对方", barData([]float64{in.Initiator.Receiver, in.Ender.Receiver}, nil),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: consts.ReceiverColor}), label)
	return bar, nil
}

// YearSelected asks a heatmap view to show another year.
type YearSelected struct {
	Year string
}

// HeatmapView is the calendar heatmap together with its year selection.
// Views are values: Update returns a new view and leaves the old one usable.
type HeatmapView struct {
	Partition normalize.YearPartition
	Pieces    []normalize.HeatmapPiece
}

// NewHeatmapView selects the latest year of h. A heatmap without cells has
// nothing to show and is reported as invalid input.
func NewHeatmapView(h normalize.Heatmap) (HeatmapView, error) {
	partition, err := normalize.NewYearPartition(h.Cells)
	if err != nil {
		return HeatmapView{}, err
	}
	if len(partition.AvailableYears) == 0 {
		return HeatmapView{}, &normalize.Error{Kind: normalize.InvalidInput, Detail: "heatmap has no data"}
	}
	return HeatmapView{Partition: partition, Pieces: h.Pieces}, nil
}

// HeatmapViewOf builds the view for the heatmap field of p.
func HeatmapViewOf(p *normalize.Payload) (HeatmapView, error) {
	h, err := normalize.HeatmapData(p)
	if err != nil {
		return HeatmapView{}, err
	}
	return NewHeatmapView(h)
}

// Update applies a year selection. An unknown year leaves v unchanged and
// returns an UnknownYear error.
func (v HeatmapView) Update(msg YearSelected) (HeatmapView, error) {
	partition, err := v.Partition.Select(msg.Year)
	if err != nil {
		return v, err
	}
	v.Partition = partition
	return v, nil
}

// Chart renders the selected year as a calendar heatmap.
func (v HeatmapView) Chart() *charts.HeatMap {
	year := v.Partition.SelectedYear
	data := make([]opts.HeatMapData, len(v.Partition.Cells))
	for i, c := range v.Partition.Cells {
		data[i] = opts.HeatMapData{Value: []any{c.Date, c.Count}}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		initOpts(consts.HeatmapHeight),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("聊天记录热力图 (%s年)", year),
			Left:       "center",
			TitleStyle: &opts.TextStyle{Color: consts.ChartTextColor},
		}),
		itemTooltip("{c}"),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithVisualMapOpts(v.visualMap()),
	)
	hm.AddCalendar(&opts.Calendar{
		Top:        "80",
		Left:       "5%",
		Right:      "5%",
		CellSize:   "auto",
		Range:      []string{year},
		DayLabel:   &opts.CalendarLabel{Show: opts.Bool(true), FirstDay: 1},
		MonthLabel: &opts.CalendarLabel{Show: opts.Bool(true)},
		YearLabel:  &opts.CalendarLabel{Show: opts.Bool(false)},
	})
	hm.AddSeries("消息数量", data, charts.WithCoordinateSystem("calendar"))
	if len(v.Pieces) > 0 {
		hm.Accept(rawPiecesVisitor{pieces: v.Pieces})
	}
	return hm
}

// visualMap uses the payload pieces when there are any, and a continuous
// scale up to the busiest day of the selected year otherwise.
func (v HeatmapView) visualMap() opts.VisualMap {
	if len(v.Pieces) > 0 {
		return opts.VisualMap{
			Type:   "piecewise",
			Orient: "horizontal",
			Right:  "120",
			Top:    "2",
		}
	}
	return opts.VisualMap{
		Type:       "continuous",
		Calculable: opts.Bool(true),
		Orient:     "horizontal",
		Right:      "120",
		Top:        "2",
		Min:        0,
		Max:        float32(max(v.Partition.MaxCount(), 1)),
		InRange:    &opts.VisualMapInRange{Color: []string{"#ebedf0", "#216e39"}},
	}
}

// rawPiecesVisitor writes the legend pieces as given. opts.Piece drops zero
// bounds, which would turn a "max: 0" band into an unbounded one.
type rawPiecesVisitor struct {
	charts.BaseConfigurationVisitor
	pieces []normalize.HeatmapPiece
}

func (r rawPiecesVisitor) VisitVisualMaps(visualMaps []opts.VisualMap) interface{} {
	pieces := make([]map[string]any, len(r.pieces))
	for i, p := range r.pieces {
		piece := map[string]any{}
		if p.Min != nil {
			piece["min"] = *p.Min
		}
		if p.Max != nil {
			piece["max"] = *p.Max
		}
		if p.Label != "" {
			piece["label"] = p.Label
		}
		if p.Color != "" {
			piece["color"] = p.Color
		}
		pieces[i] = piece
	}

	out := make([]map[string]any, 0, len(visualMaps))
	for _, vm := range visualMaps {
		raw, err := json.Marshal(vm)
		if err != nil {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		m["pieces"] = pieces
		out = append(out, m)
	}
	return out
}
