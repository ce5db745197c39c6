package planner

import (
	"strings"

	"nomadai/models"
)

// Section is a time-of-day segment of a plan day.
type Section int

const (
	Morning Section = iota
	Afternoon
	Evening
)

func (s Section) String() string {
	switch s {
	case Morning:
		return "Morning"
	case Afternoon:
		return "Afternoon"
	case Evening:
		return "Evening"
	}
	return "Unknown"
}

// segmentRule is one state of the segmentation machine: where a section
// starts, which later sections end it, and what to fall back to when none do.
type segmentRule struct {
	section     Section
	start       *markerSet
	terminators []*markerSet
	// lineFallback lets the segment end at a single line break when no blank
	// line follows; otherwise it runs to the end of the day.
	lineFallback bool
}

var (
	morningMarkers   = newMarkerSet(sectionMarkers("Morning")...)
	afternoonMarkers = newMarkerSet(sectionMarkers("Afternoon")...)
	eveningMarkers   = newMarkerSet(sectionMarkers("Evening")...)

	segmentRules = []segmentRule{
		{section: Morning, start: morningMarkers, terminators: []*markerSet{afternoonMarkers, eveningMarkers}, lineFallback: true},
		{section: Afternoon, start: afternoonMarkers, terminators: []*markerSet{eveningMarkers}, lineFallback: true},
		{section: Evening, start: eveningMarkers},
	}
)

// DayParser slices generated itinerary text into per-day activities.
type DayParser struct {
	rules []segmentRule
}

func NewDayParser() *DayParser {
	return &DayParser{rules: segmentRules}
}

// Parse returns one activity per day whose marker is found, in day order.
// Days without a marker are skipped. The result depends only on its inputs.
func (p *DayParser) Parse(text string, req models.TravelRequest, accommodation *string) []models.ItineraryDayActivity {
	var plan []models.ItineraryDayActivity
	days := newDayIndex(text, req.Duration)

	for day := 1; day <= req.Duration; day++ {
		content, ok := days.content(text, day)
		if !ok {
			continue
		}

		activity := models.ItineraryDayActivity{
			Day:         day,
			Date:        req.DepartDate.AddDays(day - 1),
			Description: strings.TrimSpace(content),
		}
		if accommodation != nil {
			name := *accommodation
			activity.Accommodation = &name
		}

		segments := p.segments(content)
		activity.Morning = segments[Morning]
		activity.Afternoon = segments[Afternoon]
		activity.Evening = segments[Evening]

		plan = append(plan, activity)
	}

	if plan == nil {
		plan = []models.ItineraryDayActivity{}
	}
	return plan
}

// content returns the text after day's marker up to the first marker of any
// later day in the trip.
func (idx *dayIndex) content(text string, day int) (string, bool) {
	startEnd, ok := idx.start(day)
	if !ok {
		return "", false
	}
	rest := text[startEnd:]
	if end, found := idx.nextAfter(day, startEnd); found {
		rest = text[startEnd:end]
	}

	if rest == "" {
		return "", false
	}
	return rest, true
}

func (p *DayParser) segments(content string) map[Section]*string {
	out := make(map[Section]*string, len(p.rules))
	for _, rule := range p.rules {
		out[rule.section] = rule.extract(content)
	}
	return out
}

func (r segmentRule) extract(content string) *string {
	startEnd, ok := r.start.first(content)
	if !ok {
		return nil
	}
	rest := strings.TrimPrefix(content[startEnd:], "**")

	for _, term := range r.terminators {
		if end, found := term.earliest(rest); found {
			return fragment(rest[:end])
		}
	}

	if before, _, found := strings.Cut(rest, "\n\n"); found {
		return fragment(before)
	}
	if r.lineFallback {
		before, _, _ := strings.Cut(rest, "\n")
		return fragment(before)
	}
	return fragment(rest)
}

// fragment trims whitespace and a dangling list bullet left in front of the
// next section's marker.
func fragment(s string) *string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		switch strings.TrimSpace(s[i+1:]) {
		case "-", "*", "•":
			s = strings.TrimSpace(s[:i])
		}
	} else if s == "-" || s == "*" || s == "•" {
		s = ""
	}
	return &s
}
