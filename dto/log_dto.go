package dto

import (
	"strings"
	"time"

	"github.com/guregu/null/v5"

	"github.com/pitwall/logdeck/models"
)

// LogRecordDto is the wire shape of one record. Every field is a pointer or
// nullable so that absence can be told apart from a zero value: the status
// poller merges only the fields the server actually sent.
type LogRecordDto struct {
	Id             int64   `json:"id"`
	FileName       *string `json:"file_name,omitempty"`
	RecoveryStatus *string `json:"recovery_status,omitempty"`
	ParseStatus    *string `json:"parse_status,omitempty"`

	CapturedAt      *null.Time  `json:"captured_at,omitempty"`
	DurationSeconds *null.Float `json:"duration_seconds,omitempty"`
	ChannelCount    *int        `json:"channel_count,omitempty"`
	Channels        []string    `json:"channels,omitempty"`
	ChannelsSummary []string    `json:"channels_summary,omitempty"`
	FileSize        *null.Int   `json:"file_size,omitempty"`

	Cars       []string `json:"cars,omitempty"`
	Drivers    []string `json:"drivers,omitempty"`
	EventTypes []string `json:"event_types,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Notes      *string  `json:"notes,omitempty"`

	MapPreviewUri    *string `json:"map_preview_uri,omitempty"`
	MapDataAvailable *bool   `json:"map_data_available,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// AdaptLogRecord builds the full model from a record response. Relative map
// preview URIs are resolved against the API base so they stay fetchable
// from outside the backend's proxy.
func AdaptLogRecord(d LogRecordDto, apiBase string) models.LogRecord {
	record := models.LogRecord{Id: d.Id}
	record.ApplyDelta(AdaptLogRecordDelta(d, apiBase))
	if d.FileName != nil {
		record.FileName = *d.FileName
	}
	if d.FileSize != nil {
		record.FileSize = *d.FileSize
	}
	if d.CreatedAt != nil {
		record.CreatedAt = *d.CreatedAt
	}
	return record
}

// AdaptLogRecordDelta keeps the field-presence information for merging.
func AdaptLogRecordDelta(d LogRecordDto, apiBase string) models.LogRecordDelta {
	delta := models.LogRecordDelta{
		Id:              d.Id,
		RecoveryStatus:  d.RecoveryStatus,
		ParseStatus:     d.ParseStatus,
		CapturedAt:      d.CapturedAt,
		DurationSeconds: d.DurationSeconds,
		ChannelCount:    d.ChannelCount,
		Channels:        d.Channels,
		ChannelsSummary: d.ChannelsSummary,
		Cars:            d.Cars,
		Drivers:         d.Drivers,
		EventTypes:      d.EventTypes,
		Locations:       d.Locations,
		Tags:            d.Tags,
		Notes:           d.Notes,
		MapDataAvailable: d.MapDataAvailable,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.MapPreviewUri != nil {
		resolved := ResolveAgainstApiBase(*d.MapPreviewUri, apiBase)
		delta.MapPreviewUri = &resolved
	}
	return delta
}

// ResolveAgainstApiBase prefixes relative URIs with the API base URL and
// leaves absolute URIs alone.
func ResolveAgainstApiBase(uri, apiBase string) string {
	if uri == "" || strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	base := strings.TrimRight(apiBase, "/")
	if strings.HasPrefix(uri, "/") {
		return base + uri
	}
	return base + "/" + uri
}

// PaginatedLogsDto is the envelope shape of the list endpoint.
type PaginatedLogsDto struct {
	Count   int            `json:"count"`
	Results []LogRecordDto `json:"results"`
}

// UpdateLogBodyDto is the PATCH body: the five metadata lists plus notes,
// and nothing else, so server-owned fields can never be clobbered.
type UpdateLogBodyDto struct {
	Cars       []string `json:"cars"`
	Drivers    []string `json:"drivers"`
	EventTypes []string `json:"event_types"`
	Locations  []string `json:"locations"`
	Tags       []string `json:"tags"`
	Notes      string   `json:"notes"`
}

func AdaptUpdateLogBodyDto(attrs models.UpdateLogRecordAttributes) UpdateLogBodyDto {
	return UpdateLogBodyDto{
		Cars:       emptyIfNil(attrs.Cars),
		Drivers:    emptyIfNil(attrs.Drivers),
		EventTypes: emptyIfNil(attrs.EventTypes),
		Locations:  emptyIfNil(attrs.Locations),
		Tags:       emptyIfNil(attrs.Tags),
		Notes:      attrs.Notes,
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// BatchUploadResultDto is the response of a batch upload; ids of records
// created before processing starts.
type BatchUploadResultDto struct {
	Results []struct {
		Id *int64 `json:"id"`
	} `json:"results"`
}

func (d BatchUploadResultDto) Ids() []int64 {
	ids := make([]int64, 0, len(d.Results))
	for _, result := range d.Results {
		if result.Id != nil {
			ids = append(ids, *result.Id)
		}
	}
	return ids
}

// BulkExportBodyDto is the bulk download request. ResampleHz is only
// serialized when the chosen format resamples.
type BulkExportBodyDto struct {
	Ids        []int64 `json:"ids"`
	Format     string  `json:"format"`
	ResampleHz *int64  `json:"resample_hz,omitempty"`
}

func AdaptBulkExportBodyDto(req models.ExportRequest) BulkExportBodyDto {
	body := BulkExportBodyDto{
		Ids:    req.Ids,
		Format: string(req.Format),
	}
	if req.ResampleHz.Valid {
		body.ResampleHz = &req.ResampleHz.Int64
	}
	return body
}
