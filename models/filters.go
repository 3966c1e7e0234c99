package models

import (
	"net/url"
	"strconv"
	"strings"
)

// FilterParam is a closed enumeration of the recognized query keys. The
// navigable address is the single source of truth for the view: LogFilters
// must always round-trip through it without loss.
type FilterParam string

const (
	FilterSearch    FilterParam = "search"
	FilterStartDate FilterParam = "start_date"
	FilterEndDate   FilterParam = "end_date"
	FilterCar       FilterParam = "car"
	FilterEventType FilterParam = "event_type"
	FilterDriver    FilterParam = "driver"
	FilterLocation  FilterParam = "location"
	FilterChannel   FilterParam = "channel"
	FilterTag       FilterParam = "tag"
	FilterPage      FilterParam = "page"
)

// KnownFilterParams lists every recognized key in encode order.
var KnownFilterParams = []FilterParam{
	FilterSearch, FilterStartDate, FilterEndDate, FilterCar, FilterEventType,
	FilterDriver, FilterLocation, FilterChannel, FilterTag, FilterPage,
}

// LogFilters is the current view criteria. Dates are inclusive calendar
// dates in the backend's local convention (YYYY-MM-DD), never converted.
// Page is 1-based; the zero value means page 1.
type LogFilters struct {
	Search    string
	StartDate string
	EndDate   string
	Car       string
	EventType string
	Driver    string
	Location  string
	Channel   string
	Tag       string
	Page      int
}

// DecodeLogFilters reads the recognized keys from a navigable address.
// Unknown keys are ignored, values are trimmed, a missing or malformed page
// decodes to 1.
func DecodeLogFilters(values url.Values) LogFilters {
	f := LogFilters{
		Search:    strings.TrimSpace(values.Get(string(FilterSearch))),
		StartDate: strings.TrimSpace(values.Get(string(FilterStartDate))),
		EndDate:   strings.TrimSpace(values.Get(string(FilterEndDate))),
		Car:       strings.TrimSpace(values.Get(string(FilterCar))),
		EventType: strings.TrimSpace(values.Get(string(FilterEventType))),
		Driver:    strings.TrimSpace(values.Get(string(FilterDriver))),
		Location:  strings.TrimSpace(values.Get(string(FilterLocation))),
		Channel:   strings.TrimSpace(values.Get(string(FilterChannel))),
		Tag:       strings.TrimSpace(values.Get(string(FilterTag))),
		Page:      1,
	}
	if page, err := strconv.Atoi(values.Get(string(FilterPage))); err == nil && page > 1 {
		f.Page = page
	}
	return f
}

// Values encodes the filters back to query parameters. Only non-empty,
// non-"all" values are written, and page is omitted when it is 1, so that
// clearing every filter yields the bare address.
func (f LogFilters) Values() url.Values {
	values := url.Values{}
	for _, param := range KnownFilterParams {
		if param == FilterPage {
			if f.Page > 1 {
				values.Set(string(FilterPage), strconv.Itoa(f.Page))
			}
			continue
		}
		if v := f.get(param); v != "" && v != "all" {
			values.Set(string(param), v)
		}
	}
	return values
}

// Encode renders the filters as a query string.
func (f LogFilters) Encode() string {
	return f.Values().Encode()
}

// WithParam returns a copy with one non-page filter changed. Any filter
// change resets the view to page 1. A value of "" or "all" clears the key.
func (f LogFilters) WithParam(param FilterParam, value string) LogFilters {
	value = strings.TrimSpace(value)
	if value == "all" {
		value = ""
	}
	next := f
	switch param {
	case FilterSearch:
		next.Search = value
	case FilterStartDate:
		next.StartDate = value
	case FilterEndDate:
		next.EndDate = value
	case FilterCar:
		next.Car = value
	case FilterEventType:
		next.EventType = value
	case FilterDriver:
		next.Driver = value
	case FilterLocation:
		next.Location = value
	case FilterChannel:
		next.Channel = value
	case FilterTag:
		next.Tag = value
	case FilterPage:
		// Page is not a filter, use WithPage.
		return f
	}
	next.Page = 1
	return next
}

// WithPage returns a copy on the given page, leaving filters untouched.
// Pages below 1 clamp to 1.
func (f LogFilters) WithPage(page int) LogFilters {
	next := f
	next.Page = max(1, page)
	return next
}

// HasFilters reports whether any non-page criterion is set.
func (f LogFilters) HasFilters() bool {
	for _, param := range KnownFilterParams {
		if param != FilterPage && f.get(param) != "" {
			return true
		}
	}
	return false
}

func (f LogFilters) get(param FilterParam) string {
	switch param {
	case FilterSearch:
		return f.Search
	case FilterStartDate:
		return f.StartDate
	case FilterEndDate:
		return f.EndDate
	case FilterCar:
		return f.Car
	case FilterEventType:
		return f.EventType
	case FilterDriver:
		return f.Driver
	case FilterLocation:
		return f.Location
	case FilterChannel:
		return f.Channel
	case FilterTag:
		return f.Tag
	default:
		return ""
	}
}
