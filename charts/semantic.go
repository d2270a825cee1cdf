package charts

import (
	"fmt"
	"strings"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/normalize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"
)

// buildKeywordCloudChart creates a word cloud sized by tf-idf weight
func buildKeywordCloudChart(p *normalize.Payload) (Chart, error) {
	words, err := normalize.Keywords(p)
	if err != nil {
		return nil, err
	}
	data := lo.Map(words, func(w normalize.WeightedWord, _ int) opts.WordCloudData {
		return opts.WordCloudData{Name: w.Word, Value: w.Weight * consts.KeywordWeightBase}
	})

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("关键词云"),
		itemTooltip("{b}"),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	wc.AddSeries("关键词", data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
		Shape:         "circle",
		SizeRange:     []float32{12, 60},
		RotationRange: []float32{-90, 90},
	}))
	return wc, nil
}

// buildTopicsChart creates a bar chart of the most frequent topics
func buildTopicsChart(p *normalize.Payload) (Chart, error) {
	topics, err := normalize.Topics(p)
	if err != nil {
		return nil, err
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("热门话题"),
		axisTooltip(),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		categoryXAxis(30),
		valueYAxis("出现频率", ""),
	)
	bar.SetXAxis(topics.Labels()).
		AddSeries("出现频率", barData(topics.Values(), nil), charts.WithItemStyleOpts(opts.ItemStyle{Color: consts.SenderColor}))
	return bar, nil
}

// buildSentimentChart creates a ring chart of message sentiment
func buildSentimentChart(p *normalize.Payload) (Chart, error) {
	sentiment, err := normalize.Sentiment(p)
	if err != nil {
		return nil, err
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("情感分析"),
		itemTooltip("{b}: {c}%"),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "vertical",
			Left:   "left",
			Data:   normalize.SentimentLabels,
		}),
	)
	pie.AddSeries("情感", pieData(sentiment, consts.SentimentColors, nil)).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}%"}),
		)
	return pie, nil
}

// tagColors maps every known tag to its color
var tagColors = lo.SliceToMap(append(append([]consts.TagColor{}, consts.TopicTagColors...), consts.EmotionTagColors...),
	func(c consts.TagColor) (string, string) { return c.Tag, c.Color })

func tagColor(tag string) string {
	if c, ok := tagColors[tag]; ok {
		return c
	}
	return consts.DefaultTagColor
}

// tagAxis lists the known topic tags, then the known emotion tags, then any
// other tag found in the data.
func tagAxis(present []string) []string {
	known := lo.Map(append(append([]consts.TagColor{}, consts.TopicTagColors...), consts.EmotionTagColors...),
		func(c consts.TagColor, _ int) string { return c.Tag })
	return append(known, lo.Without(lo.Uniq(present), known...)...)
}

// buildTagTrendsChart plots one point per tag event. Each tag is its own
// series so the legend can toggle it and the point takes the tag color.
// Points are placed by time index, so repeated time labels stay apart.
func buildTagTrendsChart(p *normalize.Payload) (Chart, error) {
	trends, err := normalize.TagTimeline(p)
	if err != nil {
		return nil, err
	}
	groups := normalize.GroupTagEvents(trends.Events)
	tags := trends.Tags()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		initOpts(consts.ChartHeight),
		titleOpts("话题与情绪时间线"),
		itemTooltip("{b}"),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Type: "scroll",
			Top:  "30",
			Data: tags,
		}),
		categoryXAxis(45),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      tagAxis(tags),
			AxisLabel: &opts.AxisLabel{Color: consts.ChartTextColor, Interval: "0"},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 0, End: 100}, opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithToolboxOpts(opts.Toolbox{
			Right: "20",
			Feature: &opts.ToolBoxFeature{
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true), YAxisIndex: "none"},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
			},
		}),
		charts.WithGridOpts(opts.Grid{Left: "3%", Right: "4%", Top: "80", Bottom: "80", ContainLabel: opts.Bool(true)}),
	)
	scatter.SetXAxis(trends.Times)
	for _, tag := range tags {
		var data []opts.ScatterData
		plotted := make(map[int]bool)
		for _, ev := range trends.Events {
			// a tag that is both a topic and an emotion gets one point per time
			if ev.Tag != tag || plotted[ev.TimeIndex] {
				continue
			}
			plotted[ev.TimeIndex] = true
			data = append(data, opts.ScatterData{
				Name:       pointName(trends.Times[ev.TimeIndex], groups[ev.TimeIndex]),
				Value:      []any{ev.TimeIndex, tag},
				Symbol:     "circle",
				SymbolSize: 15,
			})
		}
		scatter.AddSeries(tag, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: tagColor(tag)}))
	}
	return scatter, nil
}

// pointName lists everything active at one time, topics before emotions.
func pointName(at string, events []normalize.TagEvent) string {
	var topics, emotions []string
	for _, ev := range events {
		if ev.Kind == normalize.EmotionTag {
			emotions = append(emotions, ev.Tag)
		} else {
			topics = append(topics, ev.Tag)
		}
	}
	name := at
	if len(topics) > 0 {
		name += fmt.Sprintf("<br/>话题: %s", strings.Join(topics, ", "))
	}
	if len(emotions) > 0 {
		name += fmt.Sprintf("<br/>情绪: %s", strings.Join(emotions, ", "))
	}
	return name
}
