package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/pitwall/logdeck/dto"
	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/pure_utils"
	"github.com/pitwall/logdeck/utils"
)

// LogGatewayRepository is the typed boundary to the telemetry log backend.
// All calls are plain request/response; callers own retry and polling
// policy. The base URL points at the API root, e.g. "https://host/api".
type LogGatewayRepository struct {
	baseUrl string
	client  *http.Client
}

func NewLogGatewayRepository(baseUrl string, client *http.Client) *LogGatewayRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &LogGatewayRepository{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		client:  client,
	}
}

func (repo *LogGatewayRepository) logsUrl(segments ...string) string {
	u := repo.baseUrl + "/mcap-logs/"
	if len(segments) > 0 {
		u += strings.Join(segments, "/") + "/"
	}
	return u
}

// ListLogs fetches the page of records matching the filters, together with
// the total match count. The backend answers with a paginated envelope
// ({count, results}) or, behind older deployments, a bare array; both are
// accepted.
func (repo *LogGatewayRepository) ListLogs(ctx context.Context, filters models.LogFilters) ([]models.LogRecord, int, error) {
	params := filters.Values()
	// The list endpoint always receives an explicit page, even page 1.
	params.Set(string(models.FilterPage), strconv.Itoa(max(1, filters.Page)))

	body, err := repo.get(ctx, repo.logsUrl()+"?"+params.Encode())
	if err != nil {
		return nil, 0, errors.Wrap(err, "can't list logs")
	}

	if gjson.ParseBytes(body).IsArray() {
		var records []dto.LogRecordDto
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, 0, errors.Wrap(models.TransportError, "malformed list response")
		}
		adapted := adaptRecords(records, repo.baseUrl)
		return adapted, len(adapted), nil
	}

	var paginated dto.PaginatedLogsDto
	if err := json.Unmarshal(body, &paginated); err != nil {
		return nil, 0, errors.Wrap(models.TransportError, "malformed list response")
	}
	return adaptRecords(paginated.Results, repo.baseUrl), paginated.Count, nil
}

func adaptRecords(records []dto.LogRecordDto, apiBase string) []models.LogRecord {
	out := make([]models.LogRecord, len(records))
	for i, record := range records {
		out[i] = dto.AdaptLogRecord(record, apiBase)
	}
	return out
}

// GetLog fetches one record in full.
func (repo *LogGatewayRepository) GetLog(ctx context.Context, id int64) (models.LogRecord, error) {
	record, err := repo.fetchLogDto(ctx, id)
	if err != nil {
		return models.LogRecord{}, err
	}
	return dto.AdaptLogRecord(record, repo.baseUrl), nil
}

// PollLog fetches one record for a status poll. The delta keeps
// field-presence information so the poller merges only what the server sent.
func (repo *LogGatewayRepository) PollLog(ctx context.Context, id int64) (models.LogRecordDelta, error) {
	record, err := repo.fetchLogDto(ctx, id)
	if err != nil {
		return models.LogRecordDelta{}, err
	}
	return dto.AdaptLogRecordDelta(record, repo.baseUrl), nil
}

func (repo *LogGatewayRepository) fetchLogDto(ctx context.Context, id int64) (dto.LogRecordDto, error) {
	body, err := repo.get(ctx, repo.logsUrl(strconv.FormatInt(id, 10)))
	if err != nil {
		return dto.LogRecordDto{}, errors.Wrapf(err, "can't fetch log %d", id)
	}
	var record dto.LogRecordDto
	if err := json.Unmarshal(body, &record); err != nil {
		return dto.LogRecordDto{}, errors.Wrapf(models.TransportError, "malformed log %d response", id)
	}
	return record, nil
}

// UpdateLog sends the user-editable metadata and returns the updated record.
func (repo *LogGatewayRepository) UpdateLog(ctx context.Context, id int64,
	attrs models.UpdateLogRecordAttributes,
) (models.LogRecord, error) {
	payload, err := json.Marshal(dto.AdaptUpdateLogBodyDto(attrs))
	if err != nil {
		return models.LogRecord{}, errors.Wrap(err, "can't encode log update")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		repo.logsUrl(strconv.FormatInt(id, 10)), bytes.NewReader(payload))
	if err != nil {
		return models.LogRecord{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := repo.do(req)
	if err != nil {
		return models.LogRecord{}, errors.Wrapf(err, "can't update log %d", id)
	}

	var record dto.LogRecordDto
	if err := json.Unmarshal(body, &record); err != nil {
		return models.LogRecord{}, errors.Wrapf(models.TransportError, "malformed log %d response", id)
	}
	return dto.AdaptLogRecord(record, repo.baseUrl), nil
}

// DeleteLog deletes one record.
func (repo *LogGatewayRepository) DeleteLog(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		repo.logsUrl(strconv.FormatInt(id, 10)), nil)
	if err != nil {
		return err
	}
	if _, err := repo.do(req); err != nil {
		return errors.Wrapf(err, "can't delete log %d", id)
	}
	return nil
}

// DeleteLogs deletes every id concurrently. It succeeds only if every
// deletion succeeds; otherwise it reports how many failed. Which ids failed
// is not reported, so callers should re-list to resync.
func (repo *LogGatewayRepository) DeleteLogs(ctx context.Context, ids []int64) error {
	var failed atomic.Int64

	group, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		group.Go(func() error {
			if err := repo.DeleteLog(ctx, id); err != nil {
				utils.LoggerFromContext(ctx).DebugContext(ctx, "bulk delete: one deletion failed",
					"log_id", id, "error", err.Error())
				failed.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	if n := failed.Load(); n > 0 {
		return models.PartialDeleteError{Failed: int(n)}
	}
	return nil
}

// UploadFile is one file of a batch upload.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// UploadLogs submits capture files and returns the server-assigned ids of
// the created records. Processing has not finished (or started) when this
// returns; callers poll the ids until both statuses are terminal. Files
// without the .mcap extension are never submitted.
func (repo *LogGatewayRepository) UploadLogs(ctx context.Context, files []UploadFile) ([]int64, error) {
	accepted := make([]UploadFile, 0, len(files))
	for _, file := range files {
		if strings.HasSuffix(strings.ToLower(file.Name), ".mcap") {
			accepted = append(accepted, file)
		}
	}
	if len(accepted) == 0 {
		return nil, errors.Wrap(models.ErrUploadRejected, "no .mcap files to upload")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range accepted {
		part, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return nil, errors.Wrap(err, "can't build upload body")
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, errors.Wrapf(err, "can't read %s", file.Name)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "can't build upload body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		repo.logsUrl("batch-upload"), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	body, err := repo.do(req)
	if err != nil {
		return nil, errors.Wrap(err, "can't upload logs")
	}

	var result dto.BatchUploadResultDto
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(models.TransportError, "malformed upload response")
	}
	return result.Ids(), nil
}

// ExportLogs requests the server-side conversion of the given records into
// one ZIP archive. The call blocks for the duration of the conversion.
func (repo *LogGatewayRepository) ExportLogs(ctx context.Context, exportReq models.ExportRequest) (models.ExportResult, error) {
	payload, err := json.Marshal(dto.AdaptBulkExportBodyDto(exportReq))
	if err != nil {
		return models.ExportResult{}, errors.Wrap(err, "can't encode export request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		repo.logsUrl("download"), bytes.NewReader(payload))
	if err != nil {
		return models.ExportResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := repo.do(req)
	if err != nil {
		return models.ExportResult{}, errors.Wrap(err, "can't export logs")
	}
	return models.ExportResult{
		FileName: exportReq.ArchiveName(),
		Content:  body,
	}, nil
}

// DownloadLog fetches one record's capture file. The file name comes from
// the Content-Disposition header when the server provides one.
func (repo *LogGatewayRepository) DownloadLog(ctx context.Context, id int64) (models.ExportResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		repo.baseUrl+fmt.Sprintf("/mcap-logs/%d/download", id), nil)
	if err != nil {
		return models.ExportResult{}, err
	}

	resp, err := repo.client.Do(req)
	if err != nil {
		return models.ExportResult{}, errors.Wrapf(models.TransportError, "can't download log %d: %v", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ExportResult{}, errors.Wrapf(models.TransportError, "can't download log %d: %v", id, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.ExportResult{}, errors.Wrapf(responseError(resp.StatusCode, resp.Status, body),
			"can't download log %d", id)
	}

	return models.ExportResult{
		FileName: downloadFileName(resp.Header.Get("Content-Disposition"), id),
		Content:  body,
	}, nil
}

func downloadFileName(contentDisposition string, id int64) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("mcap-log-%d.mcap", id)
}

// GetGeoJson fetches the lap-path geometry of one record. The payload is
// probed loosely: a response that is not a well-formed feature collection
// yields whatever features could be salvaged rather than an error, because
// partially recovered logs produce partial geometry.
func (repo *LogGatewayRepository) GetGeoJson(ctx context.Context, id int64) (models.GeoFeatureCollection, error) {
	body, err := repo.get(ctx, repo.baseUrl+fmt.Sprintf("/mcap-logs/%d/geojson", id))
	if err != nil {
		return models.GeoFeatureCollection{}, errors.Wrapf(err, "can't fetch geojson for log %d", id)
	}

	if !gjson.ValidBytes(body) {
		return models.GeoFeatureCollection{Type: "FeatureCollection"}, nil
	}

	parsed := gjson.ParseBytes(body)
	collection := models.GeoFeatureCollection{
		Type: parsed.Get("type").String(),
	}
	if collection.Type == "" {
		collection.Type = "FeatureCollection"
	}

	for _, feature := range parsed.Get("features").Array() {
		if !feature.IsObject() {
			continue
		}
		adapted := models.GeoFeature{
			Type: feature.Get("type").String(),
		}
		if geometry := feature.Get("geometry"); geometry.IsObject() {
			adapted.Geometry = &models.GeoGeometry{
				Type:        geometry.Get("type").String(),
				Coordinates: json.RawMessage(geometry.Get("coordinates").Raw),
			}
		}
		if properties := feature.Get("properties"); properties.IsObject() {
			adapted.Properties = properties.Value().(map[string]any)
		}
		collection.Features = append(collection.Features, adapted)
	}
	return collection, nil
}

// lookupRoutes maps each lookup list to its endpoint segment.
var lookupRoutes = []struct {
	segment string
	assign  func(*models.Lookups, []string)
}{
	{"car-names", func(l *models.Lookups, v []string) { l.Cars = v }},
	{"driver-names", func(l *models.Lookups, v []string) { l.Drivers = v }},
	{"event-type-names", func(l *models.Lookups, v []string) { l.EventTypes = v }},
	{"location-names", func(l *models.Lookups, v []string) { l.Locations = v }},
	{"tag-names", func(l *models.Lookups, v []string) { l.Tags = v }},
	{"channel-names", func(l *models.Lookups, v []string) { l.Channels = v }},
}

// ListLookups enumerates the distinct prior values of each metadata field.
// The six sub-requests run concurrently; a failing one degrades its list to
// empty instead of failing the whole call, so the filter bar always renders.
func (repo *LogGatewayRepository) ListLookups(ctx context.Context) models.Lookups {
	results := make([][]string, len(lookupRoutes))

	group, ctx := errgroup.WithContext(ctx)
	for i, route := range lookupRoutes {
		i, route := i, route
		group.Go(func() error {
			values, err := repo.fetchLookupValues(ctx, route.segment)
			if err != nil {
				utils.LoggerFromContext(ctx).DebugContext(ctx, "lookup list degraded to empty",
					"lookup", route.segment, "error", err.Error())
				values = []string{}
			}
			results[i] = values
			return nil
		})
	}
	_ = group.Wait()

	var lookups models.Lookups
	for i, route := range lookupRoutes {
		route.assign(&lookups, results[i])
	}
	return lookups
}

func (repo *LogGatewayRepository) fetchLookupValues(ctx context.Context, segment string) ([]string, error) {
	body, err := repo.get(ctx, repo.logsUrl(segment))
	if err != nil {
		return nil, err
	}
	var values []string
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, errors.Wrapf(models.TransportError, "malformed %s response", segment)
	}
	return pure_utils.DedupCaseInsensitive(values), nil
}

// Probe reports whether the backend answers the list endpoint. Any failure
// means "not reachable"; it never returns an error.
func (repo *LogGatewayRepository) Probe(ctx context.Context) bool {
	_, err := repo.get(ctx, repo.logsUrl()+"?page=1")
	return err == nil
}

func (repo *LogGatewayRepository) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return repo.do(req)
}

func (repo *LogGatewayRepository) do(req *http.Request) ([]byte, error) {
	resp, err := repo.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(models.TransportError, "request error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(models.TransportError, "can't read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, resp.Status, body)
	}
	return body, nil
}

// responseError maps a non-2xx response to the error taxonomy: 404 becomes
// NotFoundError, a structured payload becomes ValidationError carrying the
// server's message, anything else is a bare TransportError.
func responseError(statusCode int, status string, body []byte) error {
	if statusCode == http.StatusNotFound {
		return errors.Wrap(models.NotFoundError, status)
	}
	if msg := dto.ServerMessage(body); msg != "" {
		return errors.Wrapf(models.ValidationError, "%s", msg)
	}
	return errors.Wrapf(models.TransportError, "unexpected status %s", status)
}
