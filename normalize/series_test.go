package normalize

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseObject", func() {
	It("keeps keys in document order", func() {
		obj := mustObject(`{"b": 1, "a": {"z": 1, "y": 2}, "c": [1, "x"]}`)
		Expect(obj.Keys()).To(Equal([]string{"b", "a", "c"}))

		nested, ok := obj.Get("a")
		Expect(ok).To(BeTrue())
		Expect(nested.(*Object).Keys()).To(Equal([]string{"z", "y"}))
	})

	It("decodes scalars and objects inside arrays", func() {
		obj := mustObject(`{"s": "a\"b", "n": null, "f": true, "arr": [{"y": 1, "x": 2}, 3]}`)
		Expect(obj.Keys()).To(Equal([]string{"s", "n", "f", "arr"}))
		s, _ := obj.Get("s")
		Expect(s).To(Equal(`a"b`))
		n, ok := obj.Get("n")
		Expect(ok).To(BeTrue())
		Expect(n).To(BeNil())
		f, _ := obj.Get("f")
		Expect(f).To(Equal(true))
		arr, _ := obj.Get("arr")
		Expect(arr.([]any)[0].(*Object).Keys()).To(Equal([]string{"y", "x"}))
	})

	It("keeps the first position of a repeated key", func() {
		obj := mustObject(`{"a": 1, "b": 2, "a": 3}`)
		Expect(obj.Keys()).To(Equal([]string{"a", "b"}))
		v, _ := obj.Get("a")
		f, ok := toFloat(v)
		Expect(ok).To(BeTrue())
		Expect(f).To(Equal(3.0))
	})

	It("rejects documents that are not objects", func() {
		_, err := ParseObject([]byte(`[1, 2]`))
		Expect(err).To(MatchError(ErrInvalidInput))
	})

	It("rejects malformed JSON", func() {
		_, err := ParseObject([]byte(`{"a": `))
		Expect(err).To(MatchError(ErrInvalidInput))
	})

	It("rejects trailing data", func() {
		_, err := ParseObject([]byte(`{"a": 1} {"b": 2}`))
		Expect(err).To(MatchError(ErrInvalidInput))
	})
})

var _ = Describe("Fill", func() {
	It("fills every hour of the day", func() {
		series, err := Fill(HourDomain, mustObject(`{"3": 5, "14": 2}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(series).To(HaveLen(24))
		for i, v := range series {
			switch i {
			case 3:
				Expect(v).To(Equal(5.0))
			case 14:
				Expect(v).To(Equal(2.0))
			default:
				Expect(v).To(BeZero(), "hour %d", i)
			}
		}
	})

	It("ignores labels outside the domain", func() {
		series, err := Fill([]string{"a", "b"}, map[string]float64{"b": 1, "zz": 9})
		Expect(err).NotTo(HaveOccurred())
		Expect(series).To(Equal(IndexedSeries{0, 1}))
	})

	It("returns zeros for a nil mapping", func() {
		series, err := Fill(WeekdayDomain, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(series).To(Equal(IndexedSeries{0, 0, 0, 0, 0, 0, 0}))
	})

	It("returns zeros for typed nil mappings", func() {
		var counts *Counts
		series, err := Fill([]string{"a", "b"}, counts)
		Expect(err).NotTo(HaveOccurred())
		Expect(series).To(Equal(IndexedSeries{0, 0}))

		var obj *Object
		series, err = Fill([]string{"a"}, obj)
		Expect(err).NotTo(HaveOccurred())
		Expect(series).To(Equal(IndexedSeries{0}))
	})

	It("fails on an empty domain", func() {
		_, err := Fill(nil, map[string]float64{"a": 1})
		Expect(err).To(MatchError(ErrInvalidDomain))
	})

	It("fails on non-numeric values", func() {
		_, err := Fill(HourDomain, mustObject(`{"3": "five"}`))
		Expect(err).To(MatchError(ErrInvalidInput))
	})
})

var _ = Describe("Flatten", func() {
	It("follows an explicit order and substitutes zeros", func() {
		series, err := Flatten(mustObject(`{"Sunday": 4, "Monday": 10}`), WeekdayDomain...)
		Expect(err).NotTo(HaveOccurred())
		Expect(series.Labels()).To(Equal(WeekdayDomain))
		Expect(series.Values()).To(Equal([]float64{10, 0, 0, 0, 0, 0, 4}))
	})

	It("drops labels not named in the order", func() {
		series, err := Flatten(mustObject(`{"a": 1, "b": 2, "c": 3}`), "c", "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(series).To(Equal(CategorySeries{{"c", 3}, {"a", 1}}))
	})

	It("keeps labels unique when the order repeats one", func() {
		series, err := Flatten(mustObject(`{"a": 1}`), "a", "b", "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(series.Labels()).To(Equal([]string{"a", "b"}))
	})

	It("keeps the mapping order without an explicit order", func() {
		series, err := Flatten(mustObject(`{"语音": 1, "文本": 5, "图片": 2}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(series.Labels()).To(Equal([]string{"语音", "文本", "图片"}))
		Expect(series.Total()).To(Equal(8.0))
	})

	It("sorts the labels of a plain Go map", func() {
		series, err := Flatten(map[string]float64{"b": 2, "a": 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(series.Labels()).To(Equal([]string{"a", "b"}))
	})

	DescribeTable("rejects mappings that are not flat label→number",
		func(doc string) {
			m, _ := mustObject(doc).Get("m")
			_, err := Flatten(m)
			Expect(err).To(MatchError(ErrInvalidInput))
		},
		Entry("nested object", `{"m": {"a": {"b": 1}}}`),
		Entry("string value", `{"m": {"a": "1"}}`),
		Entry("array", `{"m": [1, 2]}`),
		Entry("null", `{"m": null}`),
	)
})

var _ = Describe("BuildStacked", func() {
	var daily map[string]*Counts

	BeforeEach(func() {
		text, _ := CountsFrom(mustObject(`{"2024-01-03": 5, "2024-01-01": 2}`))
		image, _ := CountsFrom(mustObject(`{"2024-01-02": 1}`))
		daily = map[string]*Counts{"文本": text, "图片": image}
	})

	It("aligns every category to the sorted union of dates", func() {
		stacked := BuildStacked([]string{"文本", "图片", "语音"}, daily)
		Expect(stacked.DateKeys).To(Equal([]string{"2024-01-01", "2024-01-02", "2024-01-03"}))
		Expect(stacked.Values).To(HaveLen(3))
		for _, row := range stacked.Values {
			Expect(row).To(HaveLen(3))
		}
		Expect(stacked.Row("文本")).To(Equal([]float64{2, 0, 5}))
		Expect(stacked.Row("图片")).To(Equal([]float64{0, 1, 0}))
		Expect(stacked.Row("语音")).To(Equal([]float64{0, 0, 0}))
		Expect(stacked.Row("视频")).To(BeNil())
	})

	It("returns an empty grid when there are no dates", func() {
		stacked := BuildStacked([]string{"文本"}, nil)
		Expect(stacked.DateKeys).To(BeEmpty())
		Expect(stacked.Row("文本")).To(BeEmpty())
	})
})
