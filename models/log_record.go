package models

import (
	"strings"
	"time"

	"github.com/guregu/null/v5"
)

// LogRecord is one uploaded telemetry capture and its derived metadata. The
// id is server-assigned and immutable; the two processing statuses are owned
// by the backend pipeline and change asynchronously after upload.
type LogRecord struct {
	Id             int64
	FileName       string
	RecoveryStatus string
	ParseStatus    string

	CapturedAt      null.Time
	DurationSeconds null.Float
	ChannelCount    int
	Channels        []string
	ChannelsSummary []string
	FileSize        null.Int

	Cars       []string
	Drivers    []string
	EventTypes []string
	Locations  []string
	Tags       []string
	Notes      string

	MapPreviewUri    string
	MapDataAvailable bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminalStatus reports whether a processing status string will never
// change again: "completed", "success", or anything starting with "error",
// compared case-insensitively. Everything else is still pending.
func IsTerminalStatus(status string) bool {
	s := strings.ToLower(status)
	return s == "completed" || s == "success" || strings.HasPrefix(s, "error")
}

// ProcessingComplete reports whether both pipeline stages have reached a
// terminal status.
func (r LogRecord) ProcessingComplete() bool {
	return IsTerminalStatus(r.RecoveryStatus) && IsTerminalStatus(r.ParseStatus)
}

// LogRecordDelta is a partial view of a LogRecord as returned by a poll
// fetch. Nil fields were absent from the response and must not overwrite
// the displayed value.
type LogRecordDelta struct {
	Id             int64
	RecoveryStatus *string
	ParseStatus    *string

	CapturedAt      *null.Time
	DurationSeconds *null.Float
	ChannelCount    *int
	Channels        []string
	ChannelsSummary []string

	Cars       []string
	Drivers    []string
	EventTypes []string
	Locations  []string
	Tags       []string
	Notes      *string

	MapPreviewUri    *string
	MapDataAvailable *bool

	UpdatedAt *time.Time
}

// ApplyDelta merges the fields present in the delta into the record. This is
// a shallow merge: concurrent client-side edits of untouched fields survive.
func (r *LogRecord) ApplyDelta(d LogRecordDelta) {
	if d.RecoveryStatus != nil {
		r.RecoveryStatus = *d.RecoveryStatus
	}
	if d.ParseStatus != nil {
		r.ParseStatus = *d.ParseStatus
	}
	if d.CapturedAt != nil {
		r.CapturedAt = *d.CapturedAt
	}
	if d.DurationSeconds != nil {
		r.DurationSeconds = *d.DurationSeconds
	}
	if d.ChannelCount != nil {
		r.ChannelCount = *d.ChannelCount
	}
	if d.Channels != nil {
		r.Channels = d.Channels
	}
	if d.ChannelsSummary != nil {
		r.ChannelsSummary = d.ChannelsSummary
	}
	if d.Cars != nil {
		r.Cars = d.Cars
	}
	if d.Drivers != nil {
		r.Drivers = d.Drivers
	}
	if d.EventTypes != nil {
		r.EventTypes = d.EventTypes
	}
	if d.Locations != nil {
		r.Locations = d.Locations
	}
	if d.Tags != nil {
		r.Tags = d.Tags
	}
	if d.Notes != nil {
		r.Notes = *d.Notes
	}
	if d.MapPreviewUri != nil {
		r.MapPreviewUri = *d.MapPreviewUri
	}
	if d.MapDataAvailable != nil {
		r.MapDataAvailable = *d.MapDataAvailable
	}
	if d.UpdatedAt != nil {
		r.UpdatedAt = *d.UpdatedAt
	}
}

// ProcessingComplete on a delta only looks at statuses present in the fetch.
// An absent status counts as pending: we cannot assume a stage finished from
// a response that did not mention it.
func (d LogRecordDelta) ProcessingComplete() bool {
	if d.RecoveryStatus == nil || d.ParseStatus == nil {
		return false
	}
	return IsTerminalStatus(*d.RecoveryStatus) && IsTerminalStatus(*d.ParseStatus)
}

// UpdateLogRecordAttributes is the user-editable subset of a record: the
// five metadata lists plus free-text notes. Everything else is server-owned.
type UpdateLogRecordAttributes struct {
	Cars       []string
	Drivers    []string
	EventTypes []string
	Locations  []string
	Tags       []string
	Notes      string
}

// Lookups are the distinct prior values of each metadata field, offered as
// filter and autocomplete choices.
type Lookups struct {
	Cars       []string
	Drivers    []string
	EventTypes []string
	Locations  []string
	Tags       []string
	Channels   []string
}
