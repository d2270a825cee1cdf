package normalize

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func tagSeriesOf(doc string) *TagSeries {
	p := mustParse(`{"s": ` + doc + `}`)
	s, err := tagSeries(p, "s")
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("BuildTagTimeline", func() {
	times := []string{"t0", "t1", "t2"}

	It("emits one event per positive indicator", func() {
		events, err := BuildTagTimeline(times,
			tagSeriesOf(`{"工作": [0, 1, 0]}`),
			tagSeriesOf(`{"开心": [1, 0, 0]}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(Equal([]TagEvent{
			{TimeIndex: 0, Tag: "开心", Kind: EmotionTag},
			{TimeIndex: 1, Tag: "工作", Kind: TopicTag},
		}))
	})

	It("lists topics before emotions within a time index", func() {
		events, err := BuildTagTimeline(times,
			tagSeriesOf(`{"学习": [0, 0, 2], "工作": [0, 0, 1]}`),
			tagSeriesOf(`{"难过": [0, 0, 1], "开心": [0, 0, 3]}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(Equal([]TagEvent{
			{TimeIndex: 2, Tag: "学习", Kind: TopicTag},
			{TimeIndex: 2, Tag: "工作", Kind: TopicTag},
			{TimeIndex: 2, Tag: "难过", Kind: EmotionTag},
			{TimeIndex: 2, Tag: "开心", Kind: EmotionTag},
		}))
	})

	It("counts exactly the strictly positive cells", func() {
		events, err := BuildTagTimeline(times,
			tagSeriesOf(`{"工作": [0, 1, -1], "生活": [1, 1, 0.5]}`),
			tagSeriesOf(`{"开心": [0, 0, 0]}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(4))
		for _, ev := range events {
			Expect(ev.Tag).NotTo(Equal("开心"))
		}
	})

	It("returns no events for quiet timestamps", func() {
		events, err := BuildTagTimeline(times, tagSeriesOf(`{"工作": [0, 0, 0]}`), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(BeEmpty())
		Expect(GroupTagEvents(events)).To(BeEmpty())
	})

	It("fails when a series does not match the time axis", func() {
		_, err := BuildTagTimeline(times, tagSeriesOf(`{"工作": [0, 1]}`), nil)
		Expect(err).To(MatchError(ErrMisalignedSeries))

		_, err = BuildTagTimeline(times, nil, tagSeriesOf(`{"开心": [0, 1, 0, 0]}`))
		Expect(err).To(MatchError(ErrMisalignedSeries))
	})

	It("groups events by time index", func() {
		events, _ := BuildTagTimeline(times,
			tagSeriesOf(`{"工作": [1, 0, 1]}`),
			tagSeriesOf(`{"开心": [1, 0, 0]}`))
		groups := GroupTagEvents(events)
		Expect(groups).To(HaveLen(2))
		Expect(groups).NotTo(HaveKey(1))
		Expect(groups[0]).To(HaveLen(2))
		Expect(groups[0][0].Kind).To(Equal(TopicTag))
		Expect(groups[2]).To(ConsistOf(TagEvent{TimeIndex: 2, Tag: "工作", Kind: TopicTag}))
	})
})

var _ = Describe("YearPartition", func() {
	cells := []HeatmapCell{
		{Date: "2023-06-01", Count: 4},
		{Date: "2022-01-01", Count: 1},
		{Date: "2024-02-29", Count: 9},
		{Date: "2022-12-31", Count: 3},
		{Date: "2024-03-01", Count: 2},
	}

	It("lists the years and selects the latest", func() {
		p, err := NewYearPartition(cells)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.AvailableYears).To(Equal([]string{"2022", "2023", "2024"}))
		Expect(p.SelectedYear).To(Equal("2024"))
		Expect(p.Cells).To(Equal([]HeatmapCell{{"2024-02-29", 9}, {"2024-03-01", 2}}))
		Expect(p.MaxCount()).To(Equal(9))
	})

	It("filters cells of a selected year", func() {
		p, _ := NewYearPartition(cells)
		p2022, err := SelectYear(p, "2022")
		Expect(err).NotTo(HaveOccurred())
		Expect(p2022.SelectedYear).To(Equal("2022"))
		for _, c := range p2022.Cells {
			Expect(c.Date).To(HavePrefix("2022"))
		}
		Expect(p2022.Cells).To(HaveLen(2))
	})

	It("is idempotent and leaves the previous partition alone", func() {
		p, _ := NewYearPartition(cells)
		once, _ := p.Select("2023")
		twice, err := once.Select("2023")
		Expect(err).NotTo(HaveOccurred())
		Expect(twice).To(Equal(once))
		Expect(p.SelectedYear).To(Equal("2024"))
		Expect(p.Cells).To(HaveLen(2))
	})

	It("rejects years that are not available", func() {
		p, _ := NewYearPartition(cells)
		same, err := SelectYear(p, "2021")
		Expect(err).To(MatchError(ErrUnknownYear))
		Expect(same.SelectedYear).To(Equal("2024"))
	})

	It("has no years for an empty heatmap", func() {
		p, err := NewYearPartition(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.AvailableYears).To(BeEmpty())
		Expect(p.SelectedYear).To(BeEmpty())
		Expect(p.MaxCount()).To(BeZero())
	})

	It("rejects dates without a year", func() {
		_, err := NewYearPartition([]HeatmapCell{{Date: "24", Count: 1}})
		Expect(err).To(MatchError(ErrInvalidInput))
	})
})
