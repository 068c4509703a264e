package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chronicle-it/chronicle/internal/domain/weeklog"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
)

// RenderMarkdown produces the Danish weekly report document.
func RenderMarkdown(r *WeekReport) string {
	w := r.WeekLog
	var b strings.Builder

	fmt.Fprintf(&b, "# %s - %s\n\n", r.Title, w.Label())
	fmt.Fprintf(&b, "*Genereret: %s*\n\n", biztime.FormatInBizTimezone(r.GeneratedAt, "02/01/2006 15:04"))

	writeHelpdesk(&b, r)

	if w.Summary() != "" {
		b.WriteString("## Ugeoversigt\n\n")
		b.WriteString(strings.TrimSpace(w.Summary()))
		b.WriteString("\n\n")
	}

	writeMeeting(&b, w)
	writePriorityItems(&b, w)
	writeAbsences(&b, w)
	writeIncidents(&b, w)

	if r.OnCall != nil {
		b.WriteString("## Rådighedsvagt\n\n")
		fmt.Fprintf(&b, "**Vagt:** %s\n\n", r.OnCall.StaffName())
		if r.OnCall.Notes() != "" {
			b.WriteString(r.OnCall.Notes())
			b.WriteString("\n\n")
		}
	}

	b.WriteString("---\n\n")
	footer := "IT Chronicle"
	if r.Organization != "" {
		footer = r.Organization + " " + footer
	}
	fmt.Fprintf(&b, "*%s*\n", footer)

	return b.String()
}

func writeHelpdesk(b *strings.Builder, r *WeekReport) {
	w := r.WeekLog
	b.WriteString("## Helpdesk Statistik\n\n")
	b.WriteString("| Metrik | Antal |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Nye sager | %s |\n", countCell(w.HelpdeskNew()))
	fmt.Fprintf(b, "| Lukkede sager | %s |\n", countCell(w.HelpdeskClosed()))
	fmt.Fprintf(b, "| Åbne sager | %s |\n", countCell(w.HelpdeskOpen()))
	if delta, ok := w.HelpdeskDelta(); ok {
		fmt.Fprintf(b, "| Netto ændring | %s |\n", SignedDelta(delta))
	} else {
		b.WriteString("| Netto ændring | - |\n")
	}
	b.WriteString("\n")
	if !w.HasHelpdeskData() {
		b.WriteString("*Ingen helpdesk tal registreret for ugen.*\n\n")
	}

	if r.Averages.Weeks > 0 {
		fmt.Fprintf(b, "Gennemsnit de seneste %d uger: %s nye og %s lukkede sager pr. uge.\n\n",
			r.Averages.Weeks, formatAverage(r.Averages.New), formatAverage(r.Averages.Closed))
	}
	if synced := w.LastSyncedAt(); synced != nil {
		fmt.Fprintf(b, "*Synkroniseret fra ServiceDesk %s*\n\n", biztime.FormatInBizTimezone(*synced, "02/01/2006 15:04"))
	}
}

func writeMeeting(b *strings.Builder, w *weeklog.WeekLog) {
	switch {
	case w.MeetingSkipped():
		b.WriteString("## Møde\n\n")
		if w.MeetingSkippedReason() != "" {
			fmt.Fprintf(b, "Mødet blev aflyst: %s\n\n", w.MeetingSkippedReason())
		} else {
			b.WriteString("Mødet blev aflyst.\n\n")
		}
	case w.MeetingAttendees() != "" || w.MeetingMinutes() != "":
		b.WriteString("## Møde\n\n")
		if w.MeetingAttendees() != "" {
			fmt.Fprintf(b, "**Deltagere:** %s\n\n", w.MeetingAttendees())
		}
		if w.MeetingMinutes() != "" {
			b.WriteString(strings.TrimSpace(w.MeetingMinutes()))
			b.WriteString("\n\n")
		}
	}
}

func writePriorityItems(b *strings.Builder, w *weeklog.WeekLog) {
	items := w.PriorityItems()
	if len(items) == 0 {
		return
	}
	b.WriteString("## Prioriterede Opgaver\n\n")
	fmt.Fprintf(b, "%d af %d opgaver er aktive.\n\n", len(w.ActivePriorityItems()), len(items))
	for _, item := range items {
		fmt.Fprintf(b, "### %s\n\n", item.Title())
		fmt.Fprintf(b, "**Prioritet:** %s | **Status:** %s\n\n", item.Priority().Label(), item.Status().Label())
		if item.Description() != "" {
			b.WriteString(item.Description())
			b.WriteString("\n\n")
		}
		if item.Notes() != "" {
			fmt.Fprintf(b, "**Noter:** %s\n\n", item.Notes())
		}
	}
}

func writeAbsences(b *strings.Builder, w *weeklog.WeekLog) {
	absences := w.Absences()
	if len(absences) == 0 {
		return
	}
	b.WriteString("## Fravær\n\n")
	b.WriteString("| Medarbejder | Type | Periode |\n")
	b.WriteString("|-------------|------|---------|\n")
	for _, a := range absences {
		period := fmt.Sprintf("%s - %s", a.StartDate().Format("02/01"), a.EndDate().Format("02/01/2006"))
		fmt.Fprintf(b, "| %s | %s | %s (%s) |\n", escapeCell(a.StaffName()), a.Type().Label(), period, a.WeekdayRange())
	}
	b.WriteString("\n")
}

func writeIncidents(b *strings.Builder, w *weeklog.WeekLog) {
	incidents := w.Incidents()
	if len(incidents) == 0 {
		return
	}
	b.WriteString("## Hændelser\n\n")
	for _, i := range incidents {
		status := "Uløst"
		if i.IsResolved() {
			status = "Løst"
		}
		fmt.Fprintf(b, "### %s (%s) - %s\n\n", i.Title(), i.Severity().Label(), status)
		fmt.Fprintf(b, "**Type:** %s | **Tidspunkt:** %s\n\n",
			i.Type().Label(), biztime.FormatInBizTimezone(i.OccurredAt(), "02/01/2006 15:04"))
		b.WriteString(i.Description())
		b.WriteString("\n\n")
		if i.Resolution() != "" {
			fmt.Fprintf(b, "**Løsning:** %s\n\n", i.Resolution())
		}
	}
}

// SignedDelta renders a net change with an explicit plus sign for growth.
func SignedDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

func countCell(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatAverage(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
