package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Extractors read one chart's worth of data out of a payload. Each validates
// only the fields it uses.

func MessageTypes(p *Payload) (CategorySeries, error) {
	v, err := p.Lookup("type_counts")
	if err != nil {
		return nil, err
	}
	return Flatten(v)
}

func HourlyActivity(p *Payload) (IndexedSeries, error) {
	v, err := p.Lookup("hourly_counts")
	if err != nil {
		return nil, err
	}
	return Fill(HourDomain, v)
}

// WeekdayActivity returns the weekday counts in Monday..Sunday order. Day
// names are matched case-insensitively.
func WeekdayActivity(p *Payload) (CategorySeries, error) {
	counts, err := p.Counts("weekday_counts")
	if err != nil {
		return nil, err
	}
	caser := cases.Title(language.English)
	canonical := NewOrderedMap[float64]()
	for day, v := range counts.All() {
		name := caser.String(strings.TrimSpace(day))
		prev, _ := canonical.Get(name)
		canonical.Set(name, prev+v)
	}
	return Flatten(canonical, WeekdayDomain...)
}

// DailyMessageTypes stacks daily_types (type → date → count) over the sorted
// union of its dates. Types keep payload order.
func DailyMessageTypes(p *Payload) (StackedSeries, error) {
	obj, err := p.Object("daily_types")
	if err != nil {
		return StackedSeries{}, err
	}
	daily := make(map[string]*Counts, obj.Len())
	for msgType, v := range obj.All() {
		counts, err := CountsFrom(v)
		if err != nil {
			return StackedSeries{}, newError(InvalidInput, "daily_types.%s: %s", msgType, err.(*Error).Detail)
		}
		daily[msgType] = counts
	}
	return BuildStacked(obj.Keys(), daily), nil
}

// LengthStats is the average length of one message kind per side.
type LengthStats struct {
	SenderAverage   float64
	ReceiverAverage float64
	SenderCount     float64
	ReceiverCount   float64
}

type MessageLength struct {
	Text  LengthStats // characters
	Voice LengthStats // seconds
	// CallAverage is in seconds.
	CallAverage float64
	CallCount   float64
}

// CallAverageMinutes is the average call duration rounded to one decimal.
func (m MessageLength) CallAverageMinutes() float64 {
	return math.Round(m.CallAverage/60*10) / 10
}

func MessageLengths(p *Payload) (MessageLength, error) {
	var m MessageLength
	var err error
	if m.Text, err = lengthStats(p, "text_length"); err != nil {
		return m, err
	}
	if m.Voice, err = lengthStats(p, "voice_length"); err != nil {
		return m, err
	}
	if _, err = p.Object("call_duration"); err != nil {
		return m, err
	}
	if m.CallAverage, err = optionalNumber(p, "call_duration", "average"); err != nil {
		return m, err
	}
	if m.CallCount, err = optionalNumber(p, "call_duration", "count"); err != nil {
		return m, err
	}
	return m, nil
}

func lengthStats(p *Payload, field string) (LengthStats, error) {
	var s LengthStats
	if _, err := p.Object(field); err != nil {
		return s, err
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"sender_average", &s.SenderAverage},
		{"receiver_average", &s.ReceiverAverage},
		{"sender_count", &s.SenderCount},
		{"receiver_count", &s.ReceiverCount},
	} {
		v, err := optionalNumber(p, field, f.name)
		if err != nil {
			return s, err
		}
		*f.dst = v
	}
	return s, nil
}

// optionalNumber is Number, except that an absent or null field reads as 0.
func optionalNumber(p *Payload, path ...string) (float64, error) {
	v, err := p.Lookup(path...)
	if err != nil || v == nil {
		return 0, nil
	}
	return p.Number(path...)
}

func ConversationGaps(p *Payload) (CategorySeries, error) {
	v, err := p.Lookup("chat_pattern", "conversation_gaps", "distribution")
	if err != nil {
		return nil, err
	}
	return Flatten(v, ConversationGapBuckets...)
}

func ResponseTimes(p *Payload) (CategorySeries, error) {
	v, err := p.Lookup("response_time", "response_distribution")
	if err != nil {
		return nil, err
	}
	return Flatten(v)
}

// HeatmapPiece is one band of the heatmap legend. It is renderer-specific and
// carried through unchanged.
type HeatmapPiece struct {
	Min   *float64
	Max   *float64
	Label string
	Color string
}

type Heatmap struct {
	Cells  []HeatmapCell
	Pieces []HeatmapPiece
}

// HeatmapData reads heatmap.data, a list of [date, count] pairs, and the
// optional heatmap.pieces legend.
func HeatmapData(p *Payload) (Heatmap, error) {
	var h Heatmap
	rows, err := p.Array("heatmap", "data")
	if err != nil {
		return h, err
	}
	h.Cells = make([]HeatmapCell, 0, len(rows))
	for i, row := range rows {
		pair, ok := row.([]any)
		if !ok || len(pair) != 2 {
			return h, newError(InvalidInput, "heatmap.data[%d] is not a [date, count] pair", i)
		}
		date, ok := pair[0].(string)
		if !ok {
			return h, newError(InvalidInput, "heatmap.data[%d] date is %s", i, describe(pair[0]))
		}
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return h, newError(InvalidInput, "heatmap.data[%d] date %q is not YYYY-MM-DD", i, date)
		}
		count, ok := toFloat(pair[1])
		if !ok || count < 0 || count != math.Trunc(count) {
			return h, newError(InvalidInput, "heatmap.data[%d] count must be a non-negative integer", i)
		}
		h.Cells = append(h.Cells, HeatmapCell{Date: date, Count: int(count)})
	}

	v, err := p.Lookup("heatmap", "pieces")
	if err != nil || v == nil {
		return h, nil
	}
	pieces, ok := v.([]any)
	if !ok {
		return h, newError(InvalidInput, "heatmap.pieces is %s, not an array", describe(v))
	}
	for i, raw := range pieces {
		obj, ok := raw.(*Object)
		if !ok {
			return h, newError(InvalidInput, "heatmap.pieces[%d] is %s, not an object", i, describe(raw))
		}
		var piece HeatmapPiece
		if v, ok := obj.Get("min"); ok {
			if f, ok := toFloat(v); ok {
				piece.Min = &f
			}
		}
		if v, ok := obj.Get("max"); ok {
			if f, ok := toFloat(v); ok {
				piece.Max = &f
			}
		}
		piece.Label, _ = stringField(obj, "label")
		piece.Color, _ = stringField(obj, "color")
		h.Pieces = append(h.Pieces, piece)
	}
	return h, nil
}

func stringField(obj *Object, key string) (string, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Share is the percentage of days each side started or ended a conversation.
type Share struct {
	Sender   float64
	Receiver float64
}

type Interaction struct {
	Initiator Share
	Ender     Share
}

func Interactions(p *Payload) (Interaction, error) {
	var in Interaction
	for _, f := range []struct {
		name string
		dst  *Share
	}{{"initiator", &in.Initiator}, {"ender", &in.Ender}} {
		var err error
		if f.dst.Sender, err = p.Number("interaction", f.name, "sender_percent"); err != nil {
			return in, err
		}
		if f.dst.Receiver, err = p.Number("interaction", f.name, "receiver_percent"); err != nil {
			return in, err
		}
	}
	return in, nil
}

type WeightedWord struct {
	Word   string
	Weight float64
}

// Keywords reads tfidf, a list of [word, weight] pairs.
func Keywords(p *Payload) ([]WeightedWord, error) {
	rows, err := p.Array("tfidf")
	if err != nil {
		return nil, err
	}
	words := make([]WeightedWord, 0, len(rows))
	for i, row := range rows {
		pair, ok := row.([]any)
		if !ok || len(pair) != 2 {
			return nil, newError(InvalidInput, "tfidf[%d] is not a [word, weight] pair", i)
		}
		word, ok := pair[0].(string)
		if !ok {
			return nil, newError(InvalidInput, "tfidf[%d] word is %s", i, describe(pair[0]))
		}
		weight, ok := toFloat(pair[1])
		if !ok {
			return nil, newError(InvalidInput, "tfidf[%d] weight is %s", i, describe(pair[1]))
		}
		words = append(words, WeightedWord{Word: word, Weight: weight})
	}
	return words, nil
}

const topTopics = 10

// Topics pairs the first ten keywords with topic_frequencies. Without
// frequencies the values fall off linearly from 100.
func Topics(p *Payload) (CategorySeries, error) {
	rows, err := p.Array("keywords")
	if err != nil {
		return nil, err
	}
	if len(rows) > topTopics {
		rows = rows[:topTopics]
	}

	var freqs []any
	if v, err := p.Lookup("topic_frequencies"); err == nil && v != nil {
		if freqs, err = p.Array("topic_frequencies"); err != nil {
			return nil, err
		}
	}

	out := make(CategorySeries, 0, len(rows))
	for i, row := range rows {
		word, ok := row.(string)
		if !ok {
			return nil, newError(InvalidInput, "keywords[%d] is %s, not a string", i, describe(row))
		}
		var value float64
		switch {
		case freqs == nil:
			value = math.Round(100 * (1 - float64(i)*0.08))
		case i < len(freqs):
			if value, ok = toFloat(freqs[i]); !ok {
				return nil, newError(InvalidInput, "topic_frequencies[%d] is %s", i, describe(freqs[i]))
			}
		}
		out = append(out, Category{Label: word, Value: value})
	}
	return out, nil
}

var SentimentLabels = []string{"积极", "中性", "消极"}

func Sentiment(p *Payload) (CategorySeries, error) {
	out := make(CategorySeries, 0, len(SentimentLabels))
	for i, field := range []string{"positive", "neutral", "negative"} {
		v, err := p.Number(field)
		if err != nil {
			return nil, err
		}
		out = append(out, Category{Label: SentimentLabels[i], Value: v})
	}
	return out, nil
}

type TagTrends struct {
	Times    []string
	Topics   *TagSeries
	Emotions *TagSeries
	Events   []TagEvent
}

// Tags returns every tag name once, topics first. A name used as both a
// topic and an emotion keeps its topic position.
func (t TagTrends) Tags() []string {
	return lo.Uniq(append(t.Topics.Keys(), t.Emotions.Keys()...))
}

func TagTimeline(p *Payload) (TagTrends, error) {
	var t TagTrends
	rows, err := p.Array("trends", "times")
	if err != nil {
		return t, err
	}
	t.Times = make([]string, len(rows))
	for i, row := range rows {
		s, ok := row.(string)
		if !ok {
			return t, newError(InvalidInput, "trends.times[%d] is %s, not a string", i, describe(row))
		}
		t.Times[i] = s
	}
	if t.Topics, err = tagSeries(p, "trends", "basicTopics"); err != nil {
		return t, err
	}
	if t.Emotions, err = tagSeries(p, "trends", "emotions"); err != nil {
		return t, err
	}
	t.Events, err = BuildTagTimeline(t.Times, t.Topics, t.Emotions)
	return t, err
}

func tagSeries(p *Payload, path ...string) (*TagSeries, error) {
	obj, err := p.Object(path...)
	if err != nil {
		return nil, err
	}
	series := NewOrderedMap[IndexedSeries]()
	for name, v := range obj.All() {
		values, ok := v.([]any)
		if !ok {
			return nil, newError(InvalidInput, "%s.%s is %s, not an array", strings.Join(path, "."), name, describe(v))
		}
		s := make(IndexedSeries, len(values))
		for i, raw := range values {
			if raw == nil {
				continue
			}
			if s[i], ok = toFloat(raw); !ok {
				return nil, newError(InvalidInput, "%s.%s[%d] is %s", strings.Join(path, "."), name, i, describe(raw))
			}
		}
		series.Set(name, s)
	}
	return series, nil
}
