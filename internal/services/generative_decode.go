package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"tripplanner/internal/models/trip_models"
	"tripplanner/pkg/utils"
)

// Everything the model returns is untrusted. The decoders below are the only
// place raw model JSON is touched: each field is read with an explicit default
// so callers only ever see fully populated typed values.

// listRoot returns the array to iterate, accepting either a bare array or an
// object wrapping one under any of keys.
func listRoot(fragment string, keys ...string) (gjson.Result, error) {
	root := gjson.Parse(fragment)
	if root.IsArray() {
		return root, nil
	}
	if root.IsObject() {
		for _, k := range keys {
			if v := root.Get(k); v.IsArray() {
				return v, nil
			}
		}
	}
	return gjson.Result{}, fmt.Errorf("%w: expected a json array", utils.ErrParseFailure)
}

func decodeAttractions(fragment string) ([]trip_models.AttractionCandidate, error) {
	root, err := listRoot(fragment, "attractions", "places", "items", "results")
	if err != nil {
		return nil, err
	}

	out := make([]trip_models.AttractionCandidate, 0, len(root.Array()))
	for _, item := range root.Array() {
		name := str(item, "name")
		if name == "" {
			continue
		}
		out = append(out, trip_models.AttractionCandidate{
			ID:          idOrNew(item),
			Name:        name,
			Category:    trip_models.ParseCategory(str(item, "category")),
			Desc:        str(item, "desc", "description"),
			LongDesc:    str(item, "longDesc", "long_desc"),
			Rating:      item.Get("rating").Float(),
			ReviewCount: int(item.Get("reviewCount").Int()),
			PriceLevel:  str(item, "priceLevel", "price_level"),
			Attractions: strs(item, "attractions", "highlights"),
			Tips:        strs(item, "tips"),
			Coordinates: coordsOrUnresolved(item),
			Link:        str(item, "link", "url"),
		})
	}
	return out, nil
}

func decodeHotels(fragment string) ([]trip_models.HotelCandidate, error) {
	root, err := listRoot(fragment, "hotels", "accommodations", "items", "results")
	if err != nil {
		return nil, err
	}

	out := make([]trip_models.HotelCandidate, 0, len(root.Array()))
	for _, item := range root.Array() {
		name := str(item, "name")
		if name == "" {
			continue
		}
		out = append(out, trip_models.HotelCandidate{
			ID:          idOrNew(item),
			Name:        name,
			Area:        str(item, "area", "location"),
			Desc:        str(item, "desc", "description"),
			Rating:      item.Get("rating").Float(),
			PriceLevel:  str(item, "priceLevel", "price_level"),
			Tips:        strs(item, "tips"),
			Coordinates: coordsOrUnresolved(item),
			Link:        str(item, "link", "url"),
		})
	}
	return out, nil
}

func decodeItinerary(fragment string) (*trip_models.RawItineraryResponse, error) {
	root := gjson.Parse(fragment)

	var days gjson.Result
	switch {
	case root.IsArray():
		days = root
	case root.IsObject():
		days = firstArray(root, "days", "itinerary", "schedule")
	}
	if !days.IsArray() {
		return nil, fmt.Errorf("%w: itinerary has no days", utils.ErrParseFailure)
	}

	resp := &trip_models.RawItineraryResponse{
		Title:        str(root, "title"),
		Period:       str(root, "period"),
		PrimaryColor: str(root, "primaryColor", "color"),
		Destination:  str(root, "destination"),
		Days:         make([]trip_models.RawDay, 0, len(days.Array())),
	}

	for i, d := range days.Array() {
		day := int(d.Get("day").Int())
		if day == 0 {
			day = i + 1
		}
		rawDay := trip_models.RawDay{Day: day, Points: []trip_models.RawPoint{}}
		for _, p := range firstArray(d, "points", "places", "activities").Array() {
			rawDay.Points = append(rawDay.Points, trip_models.RawPoint{
				ID:          str(p, "id"),
				Name:        str(p, "name"),
				Category:    str(p, "category"),
				Coordinates: coordsOrNil(p),
				Tips:        strs(p, "tips"),
				Phone:       str(p, "phone"),
				Mapcode:     str(p, "mapcode"),
				Description: str(p, "description", "desc"),
			})
		}
		resp.Days = append(resp.Days, rawDay)
	}
	return resp, nil
}

func firstArray(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); v.IsArray() {
			return v
		}
	}
	return gjson.Result{}
}

// str returns the first non-empty string found under keys, trimmed.
func str(obj gjson.Result, keys ...string) string {
	for _, k := range keys {
		v := obj.Get(k)
		if v.Exists() && v.Type != gjson.Null && !v.IsObject() && !v.IsArray() {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// strs accepts either an array of strings or a single string.
func strs(obj gjson.Result, keys ...string) []string {
	out := []string{}
	for _, k := range keys {
		v := obj.Get(k)
		switch {
		case v.IsArray():
			for _, e := range v.Array() {
				if s := strings.TrimSpace(e.String()); s != "" && !e.IsObject() {
					out = append(out, s)
				}
			}
		case v.Type == gjson.String:
			if s := strings.TrimSpace(v.String()); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return out
}

func idOrNew(obj gjson.Result) string {
	if id := str(obj, "id"); id != "" {
		return id
	}
	return uuid.New().String()
}

// coordsOrNil reads {coordinates:{lat,lng}} or top-level lat/lng; invalid or
// missing positions yield nil.
func coordsOrNil(obj gjson.Result) *trip_models.Coordinates {
	for _, base := range []string{"coordinates", "location", ""} {
		node := obj
		if base != "" {
			node = obj.Get(base)
			if !node.IsObject() {
				continue
			}
		}
		lat, lng := node.Get("lat"), node.Get("lng")
		if !lng.Exists() {
			lng = node.Get("lon")
		}
		if !lat.Exists() || !lng.Exists() {
			continue
		}
		c := trip_models.Coordinates{Lat: lat.Float(), Lng: lng.Float()}
		if c.Valid() {
			return &c
		}
		return nil
	}
	return nil
}

func coordsOrUnresolved(obj gjson.Result) trip_models.Coordinates {
	if c := coordsOrNil(obj); c != nil {
		return *c
	}
	return trip_models.Unresolved
}
