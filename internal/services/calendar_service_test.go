package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/models/trip_models"
)

func newFixedCalendar() *CalendarService {
	s := NewCalendarService()
	s.now = func() time.Time { return time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestExportTripCalendar(t *testing.T) {
	plan := sampleTrip("a", "Okinawa")
	plan.Points[0].Phone = "098-000-0000"
	plan.Metadata.Accommodations = append(plan.Metadata.Accommodations,
		trip_models.Accommodation{Name: "Day Room", StartDate: "2026-02-03", EndDate: "2026-02-03"})

	out, err := newFixedCalendar().ExportTrip(plan)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Equal(t, len(plan.Points)+3, strings.Count(out, "BEGIN:VEVENT"))

	assert.Contains(t, out, "SUMMARY:P1")
	assert.Contains(t, out, "SUMMARY:Stay: Hotel Collective")
	assert.Contains(t, out, "UID:a-a-1@tripplanner")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260201")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260203", "day 3 point")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20260204", "same-day stay blocks one day")
	assert.Contains(t, out, "Phone: 098-000-0000")
}

func TestExportTripRejectsBadDates(t *testing.T) {
	plan := sampleTrip("a", "Okinawa")
	plan.Metadata.StartDate = "soon"
	_, err := newFixedCalendar().ExportTrip(plan)
	assert.Error(t, err)

	plan = sampleTrip("a", "Okinawa")
	plan.Metadata.Accommodations[0].EndDate = "later"
	_, err = newFixedCalendar().ExportTrip(plan)
	assert.Error(t, err)
}
