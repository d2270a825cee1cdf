package charts

import (
	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/normalize"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Basic charts", func() {
	var p *normalize.Payload

	BeforeEach(func() {
		p = fixture()
	})

	It("builds the message type pie in payload order", func() {
		chart, err := buildMessageTypesChart(p)
		Expect(err).NotTo(HaveOccurred())
		data := seriesData(optionsOf(chart), 0)
		Expect(data).To(HaveLen(3))
		Expect(item(data, 0)["name"]).To(Equal("文本"))
		Expect(item(data, 2)["value"]).To(Equal(10.0))
	})

	It("labels all 24 hours", func() {
		chart, err := buildHourlyChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		labels := axis(options, "xAxis")["data"].([]any)
		Expect(labels).To(HaveLen(24))
		Expect(labels[0]).To(Equal("0时"))
		Expect(item(seriesData(options, 0), 21)["value"]).To(Equal(153.0))
		Expect(item(seriesData(options, 0), 0)["value"]).To(Equal(0.0))
	})

	It("stacks daily types over the union of dates", func() {
		chart, err := buildDailyChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		Expect(axis(options, "xAxis")["data"]).To(Equal([]any{"2023-12-31", "2024-01-02"}))
		Expect(series(options, 1)["name"]).To(Equal("图片"))
		Expect(series(options, 1)["stack"]).To(Equal("Total"))
		Expect(item(seriesData(options, 1), 0)["value"]).To(Equal(0.0))
	})

	It("shows weekdays with display names and colors", func() {
		chart, err := buildWeekdayChart(p)
		Expect(err).NotTo(HaveOccurred())
		data := seriesData(optionsOf(chart), 0)
		Expect(data).To(HaveLen(7))
		Expect(item(data, 0)["name"]).To(Equal("周一"))
		Expect(item(data, 4)["value"]).To(Equal(80.0))
		Expect(item(data, 6)["itemStyle"]).To(HaveKeyWithValue("color", consts.WeekdayColors[6]))
	})

	It("draws message lengths as three rings", func() {
		chart, err := buildMessageLengthChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		Expect(series(options, 0)["radius"]).To(Equal([]any{"65%", "80%"}))
		Expect(series(options, 1)["radius"]).To(Equal([]any{"40%", "55%"}))
		Expect(item(seriesData(options, 1), 1)["name"]).To(Equal("对方语音"))

		call := series(options, 2)
		Expect(call["radius"]).To(Equal([]any{"15%", "30%"}))
		Expect(call["label"]).To(HaveKeyWithValue("formatter", "12.6分"))
		Expect(item(seriesData(options, 2), 0)["name"]).To(Equal("平均通话"))
	})
})

var _ = Describe("Interactive charts", func() {
	var p *normalize.Payload

	BeforeEach(func() {
		p = fixture()
	})

	It("colors every conversation gap bucket", func() {
		chart, err := buildConversationGapsChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		Expect(axis(options, "xAxis")["data"]).To(HaveLen(len(normalize.ConversationGapBuckets)))
		data := seriesData(options, 0)
		Expect(item(data, 0)["value"]).To(Equal(40.0))
		Expect(item(data, 8)["value"]).To(Equal(2.0))
		Expect(item(data, 3)["itemStyle"]).To(HaveKeyWithValue("color", consts.ConversationGapColors[3]))
		Expect(series(options, 0)["label"]).To(HaveKeyWithValue("formatter", "{c}条"))
	})

	It("builds the response time ring", func() {
		chart, err := buildResponseTimeChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		Expect(series(options, 0)["radius"]).To(Equal([]any{"40%", "70%"}))
		Expect(seriesData(options, 0)).To(HaveLen(3))
	})

	It("compares who starts and ends conversations", func() {
		chart, err := buildInteractionChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		Expect(axis(options, "xAxis")["data"]).To(Equal([]any{"发起对话", "结束对话"}))
		Expect(series(options, 0)["name"]).To(Equal("我"))
		Expect(item(seriesData(options, 0), 0)["value"]).To(Equal(62.5))
		Expect(item(seriesData(options, 1), 1)["value"]).To(Equal(60.0))
	})

	Describe("HeatmapView", func() {
		var view HeatmapView

		BeforeEach(func() {
			var err error
			view, err = HeatmapViewOf(p)
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts on the latest year", func() {
			Expect(view.Partition.AvailableYears).To(Equal([]string{"2023", "2024"}))
			Expect(view.Partition.SelectedYear).To(Equal("2024"))

			options := optionsOf(view.Chart())
			Expect(options["title"]).To(HaveKeyWithValue("text", "聊天记录热力图 (2024年)"))
			Expect(axis(options, "calendar")["range"]).To(Equal([]any{"2024"}))
			Expect(seriesData(options, 0)).To(HaveLen(2))
			Expect(series(options, 0)["coordinateSystem"]).To(Equal("calendar"))
		})

		It("keeps zero bounds of the legend pieces", func() {
			options := optionsOf(view.Chart())
			vm := axis(options, "visualMap")
			Expect(vm["type"]).To(Equal("piecewise"))
			pieces := vm["pieces"].([]any)
			Expect(pieces).To(HaveLen(2))
			Expect(pieces[0]).To(Equal(map[string]any{
				"min": 0.0, "max": 0.0, "label": "无消息", "color": "#ebedf0",
			}))
			Expect(pieces[1]).NotTo(HaveKey("max"))
		})

		It("moves to another year without changing the old view", func() {
			next, err := view.Update(YearSelected{Year: "2023"})
			Expect(err).NotTo(HaveOccurred())
			Expect(next.Partition.SelectedYear).To(Equal("2023"))
			Expect(next.Partition.Cells).To(Equal([]normalize.HeatmapCell{{Date: "2023-12-31", Count: 60}}))
			Expect(view.Partition.SelectedYear).To(Equal("2024"))

			again, err := next.Update(YearSelected{Year: "2023"})
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(next))

			options := optionsOf(next.Chart())
			Expect(options["title"]).To(HaveKeyWithValue("text", "聊天记录热力图 (2023年)"))
		})

		It("rejects an unknown year and keeps the selection", func() {
			next, err := view.Update(YearSelected{Year: "1999"})
			Expect(err).To(MatchError(normalize.ErrUnknownYear))
			Expect(next).To(Equal(view))
		})

		It("falls back to a continuous scale without pieces", func() {
			v, err := NewHeatmapView(normalize.Heatmap{Cells: []normalize.HeatmapCell{{Date: "2024-03-01", Count: 7}}})
			Expect(err).NotTo(HaveOccurred())
			vm := axis(optionsOf(v.Chart()), "visualMap")
			Expect(vm["type"]).To(Equal("continuous"))
			Expect(vm["max"]).To(Equal(7.0))
		})

		It("refuses a heatmap without cells", func() {
			_, err := NewHeatmapView(normalize.Heatmap{})
			Expect(err).To(MatchError(normalize.ErrInvalidInput))
		})

		It("fails for a payload without heatmap data", func() {
			_, err := HeatmapViewOf(mustParse(`{"type_counts": {"文本": 1}}`))
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Semantic charts", func() {
	var p *normalize.Payload

	BeforeEach(func() {
		p = fixture()
	})

	It("scales keyword weights", func() {
		chart, err := buildKeywordCloudChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		data := seriesData(options, 0)
		Expect(item(data, 0)["name"]).To(Equal("加班"))
		Expect(item(data, 0)["value"]).To(BeNumerically("~", 4200, 1e-6))
		Expect(series(options, 0)["shape"]).To(Equal("circle"))
	})

	It("ranks topics", func() {
		chart, err := buildTopicsChart(p)
		Expect(err).NotTo(HaveOccurred())
		options := optionsOf(chart)
		Expect(axis(options, "xAxis")["data"]).To(Equal([]any{"加班", "周末", "火锅"}))
		Expect(item(seriesData(options, 0), 2)["value"]).To(Equal(84.0))
	})

	It("shows sentiment in a fixed order", func() {
		chart, err := buildSentimentChart(p)
		Expect(err).NotTo(HaveOccurred())
		data := seriesData(optionsOf(chart), 0)
		Expect(item(data, 0)["name"]).To(Equal("积极"))
		Expect(item(data, 2)["itemStyle"]).To(HaveKeyWithValue("color", consts.SentimentColors[2]))
	})

	Describe("tag trends", func() {
		It("plots one series per tag", func() {
			chart, err := buildTagTrendsChart(p)
			Expect(err).NotTo(HaveOccurred())
			options := optionsOf(chart)
			Expect(series(options, 0)["name"]).To(Equal("工作"))
			Expect(series(options, 0)["itemStyle"]).To(HaveKeyWithValue("color", "#5470c6"))
			Expect(seriesData(options, 1)).To(HaveLen(2))

			point := item(seriesData(options, 0), 0)
			Expect(point["value"]).To(Equal([]any{1.0, "工作"}))
			Expect(point["name"]).To(ContainSubstring("工作, 生活"))
			Expect(point["symbolSize"]).To(Equal(15.0))

			yAxis := axis(options, "yAxis")["data"].([]any)
			Expect(yAxis[0]).To(Equal(consts.TopicTagColors[0].Tag))
			Expect(yAxis).To(ContainElement("开心"))
		})

		It("appends unknown tags to the axis in a neutral color", func() {
			chart, err := buildTagTrendsChart(mustParse(`{"trends": {
				"times": ["t0"], "basicTopics": {"火锅": [1]}, "emotions": {}
			}}`))
			Expect(err).NotTo(HaveOccurred())
			options := optionsOf(chart)
			yAxis := axis(options, "yAxis")["data"].([]any)
			Expect(yAxis[len(yAxis)-1]).To(Equal("火锅"))
			Expect(series(options, 0)["itemStyle"]).To(HaveKeyWithValue("color", consts.DefaultTagColor))
		})

		It("plots a tag used as both topic and emotion once", func() {
			chart, err := buildTagTrendsChart(mustParse(`{"trends": {
				"times": ["t0", "t1"], "basicTopics": {"期待": [1, 0]}, "emotions": {"期待": [1, 0]}
			}}`))
			Expect(err).NotTo(HaveOccurred())
			options := optionsOf(chart)
			Expect(options["series"]).To(HaveLen(1))
			Expect(options["legend"]).To(HaveKeyWithValue("data", []any{"期待"}))
			data := seriesData(options, 0)
			Expect(data).To(HaveLen(1))
			Expect(item(data, 0)["value"]).To(Equal([]any{0.0, "期待"}))
			Expect(item(data, 0)["name"]).To(Equal("t0<br/>话题: 期待<br/>情绪: 期待"))
		})

		It("keeps points apart when time labels repeat", func() {
			chart, err := buildTagTrendsChart(mustParse(`{"trends": {
				"times": ["周一", "周一"], "basicTopics": {"工作": [1, 1]}, "emotions": {}
			}}`))
			Expect(err).NotTo(HaveOccurred())
			data := seriesData(optionsOf(chart), 0)
			Expect(item(data, 0)["value"]).To(Equal([]any{0.0, "工作"}))
			Expect(item(data, 1)["value"]).To(Equal([]any{1.0, "工作"}))
		})

		It("fails on misaligned trends", func() {
			_, err := buildTagTrendsChart(mustParse(`{"trends": {
				"times": ["t0", "t1"], "basicTopics": {"工作": [1]}, "emotions": {}
			}}`))
			Expect(err).To(MatchError(normalize.ErrMisalignedSeries))
		})
	})
})
