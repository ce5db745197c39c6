package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"nomadai/models"
)

// ItineraryPDF renders a stored itinerary as an A4 document.
func ItineraryPDF(it *models.Itinerary) ([]byte, error) {
	if it == nil {
		return nil, fmt.Errorf("no itinerary to render")
	}
	req := it.TravelRequest
	currency := "SGD"
	if it.SelectedFlight != nil && it.SelectedFlight.Currency != "" {
		currency = it.SelectedFlight.Currency
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetLineWidth(0.3)
		pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 8,
			fmt.Sprintf("NomadAI itinerary %s - Not a booking confirmation - Page %d", it.RequestID, pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(16, 62, 74)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "NomadAI", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(236, 140, 52)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tr("Trip to "+req.Destination), "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	if it.Source == models.SourceFallback {
		pdf.SetFillColor(255, 248, 225)
		pdf.SetDrawColor(236, 140, 52)
		pdf.SetTextColor(130, 90, 20)
		pdf.SetFont("Helvetica", "I", 8)
		y := pdf.GetY()
		pdf.Rect(20, y, 170, 10, "FD")
		pdf.SetXY(23, y+2)
		pdf.MultiCell(164, 4, "Generated from a standard template because the AI planner was unavailable. Verify all prices before booking.", "", "C", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ln(6)
	}

	sectionHeader := func(title string) {
		pdf.SetFillColor(16, 62, 74)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(110, 116, 122)
		pdf.CellFormat(55, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(24, 30, 36)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, tr(value), "", 1, "L", false, 0, "")
	}

	// ── Trip Overview ─────────────────────────────────────────
	sectionHeader("Trip Overview")
	row("Route", fmt.Sprintf("%s -> %s -> %s", req.Origin, req.Destination, req.Origin))
	row("Departure", fmtDateReadable(req.DepartDate))
	row("Return", fmtDateReadable(req.ReturnDate))
	row("Duration", fmt.Sprintf("%d days / %d nights", req.Duration, req.Nights()))
	row("Budget", fmt.Sprintf("%s %.2f", currency, req.Budget))
	pdf.Ln(5)

	if f := it.SelectedFlight; f != nil {
		sectionHeader("Selected Flight")
		flight := f.Identifier()
		if f.AirlineName != "" && f.FlightNumber != "" {
			flight = fmt.Sprintf("%s (%s)", f.FlightNumber, f.AirlineName)
		}
		row("Flight", flight)
		row("Outbound", formatFlightLeg(f.DepartureTime, f.ArrivalTime, f.Duration))
		stops := "Direct"
		if f.Stops > 0 {
			stops = fmt.Sprintf("%d stop(s)", f.Stops)
		}
		row("Stops", stops)
		row("Price", fmt.Sprintf("%s %.2f (round-trip)", currency, f.Price))
		pdf.Ln(5)
	}

	if h := it.SelectedHotel; h != nil {
		nights := req.Nights()
		sectionHeader("Selected Hotel")
		row("Hotel", h.Name)
		row("Rating", fmt.Sprintf("%.1f / 5.0", h.Stars))
		row("Price", fmt.Sprintf("%s %.2f/night x %d nights = %s %.2f",
			currency, h.PricePerNight, nights, currency, h.PricePerNight*float64(nights)))
		pdf.Ln(5)
	}

	// ── Daily Plan ────────────────────────────────────────────
	if len(it.DailyPlan) > 0 {
		sectionHeader("Daily Plan")
		for _, day := range it.DailyPlan {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(16, 62, 74)
			pdf.CellFormat(170, 7, fmt.Sprintf("Day %d - %s", day.Day, fmtDateReadable(day.Date)), "", 1, "L", false, 0, "")
			for _, seg := range []struct {
				label string
				text  *string
			}{{"Morning", day.Morning}, {"Afternoon", day.Afternoon}, {"Evening", day.Evening}} {
				if seg.text == nil || *seg.text == "" {
					continue
				}
				pdf.SetFont("Helvetica", "B", 9)
				pdf.SetTextColor(110, 116, 122)
				pdf.CellFormat(25, 5, seg.label, "", 0, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 9)
				pdf.SetTextColor(34, 40, 46)
				pdf.MultiCell(145, 5, tr(*seg.text), "", "L", false)
			}
			pdf.Ln(2)
		}
		pdf.Ln(2)
	}

	// ── Cost Summary ──────────────────────────────────────────
	sectionHeader("Cost Estimate")
	pdf.SetFillColor(236, 140, 52)
	pdf.SetTextColor(16, 62, 74)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL ESTIMATE", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("%s %.2f", currency, it.TotalCost), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(5)

	if it.Summary != "" {
		sectionHeader("Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(34, 40, 46)
		pdf.MultiCell(170, 5, tr(it.Summary), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func fmtDateReadable(d models.Date) string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format("02 Jan 2006 (Mon)")
}

func formatFlightLeg(dep, arr, dur string) string {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}
	parse := func(s string) (time.Time, bool) {
		for _, l := range layouts {
			if t, err := time.Parse(l, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	depT, ok1 := parse(dep)
	arrT, ok2 := parse(arr)
	if !ok1 || !ok2 {
		if dep != "" && arr != "" {
			return dep + " -> " + arr
		}
		return "N/A"
	}
	result := fmt.Sprintf("%s -> %s", depT.Format("02 Jan 15:04"), arrT.Format("02 Jan 15:04"))
	if dur != "" {
		result += fmt.Sprintf(" (%s)", dur)
	}
	return result
}
