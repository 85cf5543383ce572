package services

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"

	"tripplanner/internal/models/trip_models"
	"tripplanner/pkg/utils"
)

type CalendarServiceInterface interface {
	ExportTrip(plan trip_models.TripPlan) (string, error)
}

type CalendarService struct {
	now func() time.Time
}

func NewCalendarService() *CalendarService {
	return &CalendarService{now: time.Now}
}

// ExportTrip renders one all-day event per point on its trip day and one event
// per accommodation spanning check-in to check-out.
func (s *CalendarService) ExportTrip(plan trip_models.TripPlan) (string, error) {
	if _, err := utils.ParseTripDate(plan.Metadata.StartDate); err != nil {
		return "", fmt.Errorf("export calendar: %w", err)
	}

	stamp := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tripplanner//itinerary//EN")
	cal.SetXWRCalName(plan.Metadata.Title)

	for _, p := range plan.Points {
		day, err := utils.DayDate(plan.Metadata.StartDate, max(p.Day, 1))
		if err != nil {
			return "", fmt.Errorf("export calendar: %w", err)
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%s@tripplanner", plan.ID, p.ID))
		event.SetDtStampTime(stamp)
		event.SetSummary(p.Name)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		if loc := pointLocation(p); loc != "" {
			event.SetLocation(loc)
		}
		if desc := pointDescription(p); desc != "" {
			event.SetDescription(desc)
		}
	}

	for i, acc := range plan.Metadata.Accommodations {
		start, err := utils.ParseTripDate(acc.StartDate)
		if err != nil {
			return "", fmt.Errorf("export calendar: accommodation %q: %w", acc.Name, err)
		}
		end, err := utils.ParseTripDate(acc.EndDate)
		if err != nil {
			return "", fmt.Errorf("export calendar: accommodation %q: %w", acc.Name, err)
		}
		// All-day end dates are exclusive; a same-day stay still blocks one day.
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}

		event := cal.AddEvent(fmt.Sprintf("%s-stay-%d@tripplanner", plan.ID, i))
		event.SetDtStampTime(stamp)
		event.SetSummary("Stay: " + acc.Name)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(end)
		if acc.Area != "" {
			event.SetLocation(acc.Area)
		}
	}

	return cal.Serialize(), nil
}

func pointLocation(p trip_models.LocationPoint) string {
	if !p.Coordinates.Valid() {
		return ""
	}
	return fmt.Sprintf("%.6f,%.6f", p.Coordinates.Lat, p.Coordinates.Lng)
}

func pointDescription(p trip_models.LocationPoint) string {
	lines := lo.Compact([]string{p.Description, strings.Join(p.Tips, "\n")})
	if p.Phone != "" {
		lines = append(lines, "Phone: "+p.Phone)
	}
	if p.Mapcode != "" {
		lines = append(lines, "Mapcode: "+p.Mapcode)
	}
	return strings.Join(lines, "\n")
}
