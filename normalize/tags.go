package normalize

// TagKind tells topic tags from emotion tags.
type TagKind int

const (
	TopicTag TagKind = iota
	EmotionTag
)

func (k TagKind) String() string {
	if k == EmotionTag {
		return "emotion"
	}
	return "topic"
}

// TagEvent marks that Tag was active at TimeIndex on the shared time axis.
type TagEvent struct {
	TimeIndex int
	Tag       string
	Kind      TagKind
}

// TagSeries maps tag names to indicator series aligned to a time axis.
type TagSeries = OrderedMap[IndexedSeries]

// BuildTagTimeline flattens per-tag indicator series into events. For every
// time index it emits the topic tags with a positive value, in topics order,
// then the emotion tags, in emotions order. Indices where nothing is positive
// produce no events at all.
func BuildTagTimeline(timeAxis []string, topics, emotions *TagSeries) ([]TagEvent, error) {
	for _, group := range []struct {
		kind   TagKind
		series *TagSeries
	}{{TopicTag, topics}, {EmotionTag, emotions}} {
		for name, s := range group.series.All() {
			if len(s) != len(timeAxis) {
				return nil, newError(MisalignedSeries, "%s %q has %d values for %d timestamps",
					group.kind, name, len(s), len(timeAxis))
			}
		}
	}

	var events []TagEvent
	for i := range timeAxis {
		for name, s := range topics.All() {
			if s[i] > 0 {
				events = append(events, TagEvent{TimeIndex: i, Tag: name, Kind: TopicTag})
			}
		}
		for name, s := range emotions.All() {
			if s[i] > 0 {
				events = append(events, TagEvent{TimeIndex: i, Tag: name, Kind: EmotionTag})
			}
		}
	}
	return events, nil
}

// GroupTagEvents returns the events of each time index that has any.
// Events keep their emission order within a group.
func GroupTagEvents(events []TagEvent) map[int][]TagEvent {
	groups := make(map[int][]TagEvent)
	for _, ev := range events {
		groups[ev.TimeIndex] = append(groups[ev.TimeIndex], ev)
	}
	return groups
}
