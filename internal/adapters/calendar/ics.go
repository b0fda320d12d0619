// Package calendar renders events as iCalendar documents.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"riconnect/internal/domain"
)

const productID = "-//RiConnect//Events//EN"

type icsExporter struct {
	uidDomain string
	now       func() time.Time
}

// NewICSExporter returns a CalendarExporter. Event UIDs are "<event id>@uidDomain".
func NewICSExporter(uidDomain string) domain.CalendarExporter {
	if uidDomain == "" {
		uidDomain = "riconnect.app"
	}
	return &icsExporter{uidDomain: uidDomain, now: time.Now}
}

// Export writes one VEVENT per event. Events whose dates do not parse are skipped.
func (e *icsExporter) Export(name string, events []domain.EnrichedEvent) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for _, ev := range events {
		start, err := domain.ParseTimestamp(ev.StartingAt)
		if err != nil {
			continue
		}
		end, err := domain.ParseTimestamp(ev.EndingAt)
		if err != nil {
			continue
		}

		vevent := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, e.uidDomain))
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(start)
		vevent.SetEndAt(end)
		vevent.SetSummary(ev.Title)
		if desc := description(ev); desc != "" {
			vevent.SetDescription(desc)
		}
		if ev.Address != nil && *ev.Address != "" {
			vevent.SetLocation(*ev.Address)
		}
	}
	return []byte(cal.Serialize()), nil
}

func description(ev domain.EnrichedEvent) string {
	var parts []string
	if ev.Description != "" {
		parts = append(parts, ev.Description)
	}
	var tags []string
	for _, t := range []string{ev.Genre, ev.Type, ev.Theme} {
		if t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " / "))
	}
	return strings.Join(parts, "\n\n")
}
