package planner

import (
	"fmt"
	"sort"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// markerSet finds literal markers in text. Matching is case-sensitive and
// substring based, like the markdown the prompt asks the model to produce.
type markerSet struct {
	markers []string
	matcher ahocorasick.AhoCorasick
}

func newMarkerSet(markers ...string) *markerSet {
	m := &markerSet{markers: markers}
	if len(markers) > 0 {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			MatchKind: ahocorasick.LeftMostLongestMatch,
		})
		m.matcher = builder.Build(markers)
	}
	return m
}

// first returns the end offset of the highest-priority marker present in text,
// scanning markers in declaration order rather than by position.
func (m *markerSet) first(text string) (end int, ok bool) {
	for _, marker := range m.markers {
		if i := strings.Index(text, marker); i >= 0 {
			return i + len(marker), true
		}
	}
	return 0, false
}

// earliest returns the start offset of the leftmost occurrence of any marker.
func (m *markerSet) earliest(text string) (start int, ok bool) {
	if len(m.markers) == 0 || text == "" {
		return 0, false
	}
	matches := m.matcher.FindAll(text)
	if len(matches) == 0 {
		return 0, false
	}
	leftmost := matches[0]
	return leftmost.Start(), true
}

const markersPerDay = 4

// dayIndex holds every occurrence of every day marker of a trip, found in a
// single overlapping scan of the text.
type dayIndex struct {
	markers []string
	// first[i] is the first start offset of markers[i], or -1.
	first []int
	// hits are all occurrences ordered by start offset.
	hits []dayHit
}

type dayHit struct {
	start int
	day   int
}

func newDayIndex(text string, duration int) *dayIndex {
	idx := &dayIndex{}
	for day := 1; day <= duration; day++ {
		idx.markers = append(idx.markers, dayMarkers(day)...)
	}
	idx.first = make([]int, len(idx.markers))
	for i := range idx.first {
		idx.first[i] = -1
	}
	if len(idx.markers) == 0 || text == "" {
		return idx
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchKind: ahocorasick.StandardMatch,
	})
	matcher := builder.Build(idx.markers)
	iter := matcher.IterOverlapping(text)
	for m := iter.Next(); m != nil; m = iter.Next() {
		start, pattern := m.Start(), m.Pattern()
		if idx.first[pattern] < 0 || start < idx.first[pattern] {
			idx.first[pattern] = start
		}
		idx.hits = append(idx.hits, dayHit{start: start, day: pattern/markersPerDay + 1})
	}
	sort.SliceStable(idx.hits, func(i, j int) bool { return idx.hits[i].start < idx.hits[j].start })
	return idx
}

// start returns the end offset of day's highest-priority marker, at its first
// occurrence.
func (idx *dayIndex) start(day int) (end int, ok bool) {
	base := (day - 1) * markersPerDay
	for i := base; i < base+markersPerDay && i < len(idx.markers); i++ {
		if at := idx.first[i]; at >= 0 {
			return at + len(idx.markers[i]), true
		}
	}
	return 0, false
}

// nextAfter returns the start offset of the leftmost marker of any day later
// than day that begins at or after from.
func (idx *dayIndex) nextAfter(day, from int) (start int, ok bool) {
	i := sort.Search(len(idx.hits), func(i int) bool { return idx.hits[i].start >= from })
	for ; i < len(idx.hits); i++ {
		if idx.hits[i].day > day {
			return idx.hits[i].start, true
		}
	}
	return 0, false
}

func dayMarkers(day int) []string {
	return []string{
		fmt.Sprintf("### Day %d", day),
		fmt.Sprintf("## Day %d", day),
		fmt.Sprintf("Day %d:", day),
		fmt.Sprintf("Day %d -", day),
	}
}

func sectionMarkers(name string) []string {
	return []string{
		name + ":",
		"**" + name + ":**",
		"#### " + name,
		"### " + name,
	}
}
