package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nomadai/metrics"
	"nomadai/models"
)

const amountPattern = `([\d,]+(?:\.\d+)?)`

// DefaultActivityCostCeiling separates activity-sized mentions from flight,
// hotel and grand-total mentions. It is a heuristic and currency-unaware.
const DefaultActivityCostCeiling = 500.0

// Reconciler derives one budget-bounded total from the computed base cost,
// an explicit total found in the text, and summed small cost mentions.
type Reconciler struct {
	totalPatterns   []*regexp.Regexp
	mentionPattern  *regexp.Regexp
	activityCeiling float64
}

func NewReconciler(currency string, activityCeiling float64) *Reconciler {
	if currency == "" {
		currency = "SGD"
	}
	if activityCeiling <= 0 {
		activityCeiling = DefaultActivityCostCeiling
	}
	cur := regexp.QuoteMeta(currency)

	totals := []string{
		`(?i)Total cost:\s*` + cur + `\s*` + amountPattern,
		`(?i)estimated total cost.*?` + cur + `\s*` + amountPattern,
		`(?i)total budget.*?` + cur + `\s*` + amountPattern,
		`(?i)estimated cost.*?` + cur + `\s*` + amountPattern,
	}
	r := &Reconciler{
		mentionPattern:  regexp.MustCompile(cur + `\s*` + amountPattern),
		activityCeiling: activityCeiling,
	}
	for _, p := range totals {
		r.totalPatterns = append(r.totalPatterns, regexp.MustCompile(p))
	}
	return r
}

// BaseCost is the flight fare plus the hotel rate for every billed night.
func BaseCost(flight *models.FlightOption, hotel *models.HotelOption, duration int) float64 {
	var cost float64
	if flight != nil {
		cost += flight.Price
	}
	if hotel != nil {
		cost += hotel.PricePerNight * float64(max(1, duration-1))
	}
	return cost
}

// Reconcile returns the trip total, always within [0, budget].
func (r *Reconciler) Reconcile(text string, budget float64, duration int, flight *models.FlightOption, hotel *models.HotelOption) float64 {
	total := BaseCost(flight, hotel, duration)

	if explicit, ok := r.explicitTotal(text); ok && explicit <= budget {
		total = explicit
	} else {
		total += min(r.activitySum(text), budget-total)
	}

	if total > budget {
		metrics.CostClamped.Inc()
		total = budget
	}
	return max(total, 0)
}

// explicitTotal returns the amount of the first total pattern that matches
// with a parsable number.
func (r *Reconciler) explicitTotal(text string) (float64, bool) {
	for _, p := range r.totalPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

func (r *Reconciler) activitySum(text string) float64 {
	var sum float64
	for _, m := range r.mentionPattern.FindAllStringSubmatch(text, -1) {
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		if v > 0 && v < r.activityCeiling {
			sum += v
		}
	}
	return sum
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

// Summary returns the first paragraph after the top heading, else the first
// paragraph, else the first 200 characters.
func Summary(text string) string {
	if _, afterHeading, found := strings.Cut(text, "# "); found {
		para, _, _ := strings.Cut(afterHeading, "\n\n")
		if s := strings.TrimSpace(para); s != "" {
			return s
		}
	}
	if para, _, found := strings.Cut(text, "\n\n"); found {
		if s := strings.TrimSpace(para); s != "" {
			return s
		}
	}
	runes := []rune(text)
	if len(runes) > 200 {
		runes = runes[:200]
	}
	return strings.TrimSpace(string(runes))
}
