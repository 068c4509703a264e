// Package pdf renders week reports as A4 PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/chronicle-it/chronicle/internal/application/report"
	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 5.5
	chartH     = 40.0
)

var (
	headingColor = [3]int{29, 63, 114}
	newColor     = [3]int{70, 130, 180}
	closedColor  = [3]int{120, 180, 120}
)

// Renderer implements report.PDFRenderer with the core fonts. Text is
// converted to cp1252, which covers Danish letters.
type Renderer struct{}

var _ report.PDFRenderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderPDF(rep *report.WeekReport) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	w := rep.WeekLog
	title := report.Subject(rep)

	doc.SetTitle(title, true)
	doc.SetCreator("Chronicle", true)
	doc.SetCreationDate(rep.GeneratedAt)
	doc.SetMargins(18, 18, 18)
	doc.SetAutoPageBreak(true, 18)
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-14)
		doc.SetFont(fontFamily, "I", 8)
		doc.SetTextColor(120, 120, 120)
		footer := fmt.Sprintf("%s | Side %d/{nb}", title, doc.PageNo())
		doc.CellFormat(0, 8, tr(footer), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont(fontFamily, "B", 18)
	setColor(doc.SetTextColor, headingColor)
	doc.MultiCell(0, 9, tr(title), "", "L", false)
	doc.SetFont(fontFamily, "", 9)
	doc.SetTextColor(100, 100, 100)
	doc.CellFormat(0, 6, tr("Genereret "+biztime.FormatInBizTimezone(rep.GeneratedAt, "02/01/2006 15:04")), "", 1, "L", false, 0, "")
	doc.Ln(4)

	heading(doc, tr, "Helpdesk Statistik")
	helpdeskTable(doc, tr, w)
	if !w.HasHelpdeskData() {
		paragraph(doc, tr, "Ingen helpdesk tal registreret for ugen.")
	}
	if rep.Averages.Weeks > 0 {
		paragraph(doc, tr, fmt.Sprintf("Gennemsnit de seneste %d uger: %.1f nye og %.1f lukkede sager pr. uge.",
			rep.Averages.Weeks, rep.Averages.New, rep.Averages.Closed))
	}
	if len(rep.History) > 1 {
		historyChart(doc, tr, rep.History)
	}

	if w.Summary() != "" {
		heading(doc, tr, "Ugeoversigt")
		paragraph(doc, tr, w.Summary())
	}

	if w.MeetingSkipped() {
		heading(doc, tr, "Møde")
		paragraph(doc, tr, "Mødet blev aflyst. "+w.MeetingSkippedReason())
	} else if w.MeetingAttendees() != "" || w.MeetingMinutes() != "" {
		heading(doc, tr, "Møde")
		if w.MeetingAttendees() != "" {
			paragraph(doc, tr, "Deltagere: "+w.MeetingAttendees())
		}
		if w.MeetingMinutes() != "" {
			paragraph(doc, tr, w.MeetingMinutes())
		}
	}

	if items := w.PriorityItems(); len(items) > 0 {
		heading(doc, tr, "Prioriterede Opgaver")
		paragraph(doc, tr, fmt.Sprintf("%d af %d opgaver er aktive.", len(w.ActivePriorityItems()), len(items)))
		for _, item := range items {
			doc.SetFont(fontFamily, "B", 10)
			doc.MultiCell(0, lineHeight, tr(fmt.Sprintf("%s (%s, %s)", item.Title(), item.Priority().Label(), item.Status().Label())), "", "L", false)
			doc.SetFont(fontFamily, "", 10)
			if item.Description() != "" {
				doc.MultiCell(0, lineHeight, tr(item.Description()), "", "L", false)
			}
			if item.Notes() != "" {
				doc.MultiCell(0, lineHeight, tr("Noter: "+item.Notes()), "", "L", false)
			}
			doc.Ln(2)
		}
	}

	if absences := w.Absences(); len(absences) > 0 {
		heading(doc, tr, "Fravær")
		widths := []float64{55, 40, 79}
		tableRow(doc, tr, widths, []string{"Medarbejder", "Type", "Periode"}, true)
		for _, a := range absences {
			period := fmt.Sprintf("%s - %s (%s)", a.StartDate().Format("02/01"), a.EndDate().Format("02/01/2006"), a.WeekdayRange())
			tableRow(doc, tr, widths, []string{a.StaffName(), a.Type().Label(), period}, false)
		}
		doc.Ln(3)
	}

	if incidents := w.Incidents(); len(incidents) > 0 {
		heading(doc, tr, "Hændelser")
		for _, i := range incidents {
			status := "Uløst"
			if i.IsResolved() {
				status = "Løst"
			}
			doc.SetFont(fontFamily, "B", 10)
			doc.MultiCell(0, lineHeight, tr(fmt.Sprintf("%s (%s) - %s", i.Title(), i.Severity().Label(), status)), "", "L", false)
			doc.SetFont(fontFamily, "", 10)
			doc.MultiCell(0, lineHeight, tr(fmt.Sprintf("%s, %s", i.Type().Label(), biztime.FormatInBizTimezone(i.OccurredAt(), "02/01/2006 15:04"))), "", "L", false)
			doc.MultiCell(0, lineHeight, tr(i.Description()), "", "L", false)
			if i.Resolution() != "" {
				doc.MultiCell(0, lineHeight, tr("Løsning: "+i.Resolution()), "", "L", false)
			}
			doc.Ln(2)
		}
	}

	if rep.OnCall != nil {
		heading(doc, tr, "Rådighedsvagt")
		paragraph(doc, tr, rep.OnCall.StaffName())
		if rep.OnCall.Notes() != "" {
			paragraph(doc, tr, rep.OnCall.Notes())
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.Ln(2)
	doc.SetFont(fontFamily, "B", 13)
	setColor(doc.SetTextColor, headingColor)
	doc.CellFormat(0, 8, tr(text), "B", 1, "L", false, 0, "")
	doc.SetTextColor(34, 34, 34)
	doc.SetFont(fontFamily, "", 10)
	doc.Ln(1)
}

func paragraph(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.SetFont(fontFamily, "", 10)
	doc.MultiCell(0, lineHeight, tr(text), "", "L", false)
	doc.Ln(1)
}

func tableRow(doc *fpdf.Fpdf, tr func(string) string, widths []float64, cells []string, header bool) {
	style := ""
	if header {
		style = "B"
		doc.SetFillColor(240, 243, 247)
	}
	doc.SetFont(fontFamily, style, 10)
	for i, c := range cells {
		doc.CellFormat(widths[i], 7, tr(c), "1", 0, "L", header, 0, "")
	}
	doc.Ln(-1)
}

func helpdeskTable(doc *fpdf.Fpdf, tr func(string) string, w *weeklog.WeekLog) {
	widths := []float64{60, 30}
	delta := "-"
	if d, ok := w.HelpdeskDelta(); ok {
		delta = report.SignedDelta(d)
	}
	tableRow(doc, tr, widths, []string{"Metrik", "Antal"}, true)
	tableRow(doc, tr, widths, []string{"Nye sager", countText(w.HelpdeskNew())}, false)
	tableRow(doc, tr, widths, []string{"Lukkede sager", countText(w.HelpdeskClosed())}, false)
	tableRow(doc, tr, widths, []string{"Åbne sager", countText(w.HelpdeskOpen())}, false)
	tableRow(doc, tr, widths, []string{"Netto ændring", delta}, false)
	doc.Ln(3)
}

// historyChart draws paired bars of new and closed tickets per week.
func historyChart(doc *fpdf.Fpdf, tr func(string) string, points []report.HistoryPoint) {
	maxVal := 1
	for _, p := range points {
		maxVal = max(maxVal, p.New, p.Closed)
	}

	left, _, right, _ := doc.GetMargins()
	pageW, _ := doc.GetPageSize()
	width := pageW - left - right
	slot := width / float64(len(points))
	bar := slot * 0.35

	doc.Ln(2)
	top := doc.GetY()
	base := top + chartH

	for i, p := range points {
		x := left + float64(i)*slot + slot*0.15
		hNew := chartH * float64(p.New) / float64(maxVal)
		hClosed := chartH * float64(p.Closed) / float64(maxVal)

		setColor(doc.SetFillColor, newColor)
		doc.Rect(x, base-hNew, bar, hNew, "F")
		setColor(doc.SetFillColor, closedColor)
		doc.Rect(x+bar, base-hClosed, bar, hClosed, "F")

		doc.SetFont(fontFamily, "", 7)
		doc.SetTextColor(90, 90, 90)
		doc.Text(x, base+4, tr("U"+strconv.Itoa(p.Week.Week)))
	}

	doc.SetY(base + 6)
	doc.SetFont(fontFamily, "", 8)
	doc.CellFormat(0, 5, tr("Blå: nye sager, grøn: lukkede sager"), "", 1, "L", false, 0, "")
	doc.SetTextColor(34, 34, 34)
	doc.Ln(2)
}

func setColor(set func(r, g, b int), c [3]int) {
	set(c[0], c[1], c[2])
}

func countText(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
