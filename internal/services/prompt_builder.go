package services

import (
	"fmt"
	"strings"

	"tripplanner/internal/models/trip_models"
	"tripplanner/pkg/utils"
)

var companionLabels = map[trip_models.Companion]string{
	trip_models.CompanionAlone:   "a solo traveler",
	trip_models.CompanionCouple:  "a couple",
	trip_models.CompanionFriends: "a group of friends",
	trip_models.CompanionFamily:  "a family with children",
}

func companionLabel(c trip_models.Companion) string {
	if label, ok := companionLabels[c]; ok {
		return label
	}
	return "travelers"
}

func buildAttractionPrompt(destination string, companion trip_models.Companion) string {
	var prompt strings.Builder

	fmt.Fprintf(&prompt, "Recommend 15 to 20 places worth visiting in %s for %s.\n", destination, companionLabel(companion))
	prompt.WriteString("Mix sightseeing spots, food and local experiences. Use real places with accurate coordinates.\n\n")
	prompt.WriteString("Return ONLY a JSON array, no prose, no markdown. Each element:\n")
	prompt.WriteString(`{"id":"short-slug","name":"Place name","category":"sightseeing|food|stay|logistics",` +
		`"desc":"one sentence","longDesc":"two or three sentences","rating":4.5,"reviewCount":1200,` +
		`"priceLevel":"$|$$|$$$","attractions":["highlight"],"tips":["practical tip"],` +
		`"coordinates":{"lat":0.0,"lng":0.0},"link":"https://..."}`)
	prompt.WriteString("\n")

	return prompt.String()
}

func buildHotelPrompt(destination string, companion trip_models.Companion) string {
	var prompt strings.Builder

	fmt.Fprintf(&prompt, "Suggest 5 to 8 places to stay in %s for %s.\n", destination, companionLabel(companion))
	prompt.WriteString("Spread them over convenient areas for sightseeing.\n\n")
	prompt.WriteString("Return ONLY a JSON array, no prose, no markdown. Each element:\n")
	prompt.WriteString(`{"id":"short-slug","name":"Hotel name","area":"neighbourhood","desc":"one sentence",` +
		`"rating":4.2,"priceLevel":"$|$$|$$$","tips":["practical tip"],` +
		`"coordinates":{"lat":0.0,"lng":0.0},"link":"https://..."}`)
	prompt.WriteString("\n")

	return prompt.String()
}

// buildItineraryPrompt lays out the full planning context for route synthesis.
func buildItineraryPrompt(params trip_models.ItineraryParams) string {
	data := params.Data
	minStops, maxStops := data.Pace.StopsPerDay()
	dates := utils.TripDates(data.StartDate, data.EndDate)

	var prompt strings.Builder

	fmt.Fprintf(&prompt, "Create a %d-day travel itinerary for %s in %s.\n\n", len(dates), companionLabel(data.Companion), data.Destination)

	if note := strings.TrimSpace(params.UserNote); note != "" {
		prompt.WriteString("HIGHEST PRIORITY traveler request (overrides everything below when they conflict):\n")
		fmt.Fprintf(&prompt, "%s\n\n", note)
	}

	prompt.WriteString("Trip facts:\n")
	fmt.Fprintf(&prompt, "- Dates: %s to %s\n", data.StartDate, data.EndDate)
	for i, d := range dates {
		fmt.Fprintf(&prompt, "  - Day %d = %s\n", i+1, d)
	}
	if data.TravelMode != "" {
		fmt.Fprintf(&prompt, "- Arrival: by %s from %s", data.TravelMode, data.DeparturePoint)
		if data.EntryPoint != "" {
			fmt.Fprintf(&prompt, ", entering at %s", data.EntryPoint)
		}
		prompt.WriteString("\n")
	}
	if data.LocalTransport != "" {
		fmt.Fprintf(&prompt, "- Getting around: %s\n", data.LocalTransport)
	}
	fmt.Fprintf(&prompt, "- Pace: %s (%d-%d stops per day)\n", orDefault(string(data.Pace), string(trip_models.PaceStandard)), minStops, maxStops)

	if len(data.Accommodations) > 0 {
		prompt.WriteString("- Already booked stays:\n")
		for _, acc := range data.Accommodations {
			fmt.Fprintf(&prompt, "  - %s (%s to %s)\n", acc.Name, acc.StartDate, acc.EndDate)
		}
	}

	prompt.WriteString("\nPlaces the traveler selected:\n")
	for _, a := range params.Selected {
		fmt.Fprintf(&prompt, "- ID:%s | Name:%s | Category:%s", a.ID, a.Name, a.Category)
		if a.Coordinates.Valid() {
			fmt.Fprintf(&prompt, " | Lat:%.5f Lng:%.5f", a.Coordinates.Lat, a.Coordinates.Lng)
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("\nRules:\n")
	fmt.Fprintf(&prompt, "1. Cover EVERY day from 1 to %d. If the selected places run out, add well-known nearby places so no day is empty.\n", len(dates))
	prompt.WriteString("2. Group geographically close places on the same day; it is fine to leave out a selected place that would force long detours.\n")
	fmt.Fprintf(&prompt, "3. Plan %d to %d stops per day, including meals.\n", minStops, maxStops)
	prompt.WriteString("4. Keep the ID of a selected place when you use it.\n")
	prompt.WriteString("5. Return ONLY a JSON object, no prose, no markdown.\n\n")

	prompt.WriteString("JSON format:\n")
	prompt.WriteString(`{"title":"short trip title","period":"human readable period","primaryColor":"#2563eb",` +
		`"days":[{"day":1,"points":[{"id":"selected-id-or-empty","name":"Place","category":"sightseeing|food|stay|logistics",` +
		`"coordinates":{"lat":0.0,"lng":0.0},"tips":["tip"],"phone":"","mapcode":"","description":"what to do"}]}]}`)
	prompt.WriteString("\n")

	return prompt.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
