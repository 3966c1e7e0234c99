package models

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"
)

// DownloadFormat is the closed set of bulk export outputs the backend can
// produce from a set of records.
type DownloadFormat string

const (
	// FormatMcap downloads the original capture files, unconverted.
	FormatMcap    DownloadFormat = "mcap"
	FormatCsvOmni DownloadFormat = "csv_omni"
	FormatCsvTvn  DownloadFormat = "csv_tvn"
	// FormatLd is the i2 Pro format. Accepted by the enumeration but the
	// backend converter does not produce it yet.
	FormatLd DownloadFormat = "ld"
)

var ValidDownloadFormats = []DownloadFormat{FormatMcap, FormatCsvOmni, FormatCsvTvn, FormatLd}

func ParseDownloadFormat(s string) (DownloadFormat, error) {
	format := DownloadFormat(s)
	if !slices.Contains(ValidDownloadFormats, format) {
		return "", errors.Wrapf(ValidationError, "unknown download format %q", s)
	}
	return format, nil
}

// Resamples reports whether the conversion resamples channel data. The
// original capture is passed through untouched, so a resample rate is only
// meaningful for the other formats.
func (f DownloadFormat) Resamples() bool {
	return f != FormatMcap
}

// ResampleRates are the selectable conversion sample rates, in Hz.
var ResampleRates = []int64{10, 20, 50, 100}

const DefaultResampleRate int64 = 20

func ValidateResampleRate(hz int64) error {
	if !slices.Contains(ResampleRates, hz) {
		return errors.Wrapf(ValidationError, "unsupported resample rate %d Hz", hz)
	}
	return nil
}

// ExportRequest describes one bulk export. ResampleHz is only set (and only
// sent on the wire) when the format resamples.
type ExportRequest struct {
	Ids        []int64
	Format     DownloadFormat
	ResampleHz null.Int
}

func NewExportRequest(ids []int64, format DownloadFormat, resampleHz int64) (ExportRequest, error) {
	if len(ids) == 0 {
		return ExportRequest{}, errors.Wrap(ValidationError, "no records selected for export")
	}
	if _, err := ParseDownloadFormat(string(format)); err != nil {
		return ExportRequest{}, err
	}
	req := ExportRequest{Ids: ids, Format: format}
	if format.Resamples() {
		if err := ValidateResampleRate(resampleHz); err != nil {
			return ExportRequest{}, err
		}
		req.ResampleHz = null.IntFrom(resampleHz)
	}
	return req, nil
}

// ArchiveName is the default file name for the returned ZIP.
func (r ExportRequest) ArchiveName() string {
	return fmt.Sprintf("mcap_logs_%s.zip", r.Format)
}

// ExportResult is the packaged archive returned by a bulk export.
type ExportResult struct {
	FileName string
	Content  []byte
}
