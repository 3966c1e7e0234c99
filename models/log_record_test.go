package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminalStatus(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{"completed", true},
		{"Completed", true},
		{"success", true},
		{"SUCCESS", true},
		{"error", true},
		{"error: channel table truncated", true},
		{"ERROR_TIMEOUT", true},
		{"pending", false},
		{"running", false},
		{"queued", false},
		{"", false},
		{"succeeded", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.terminal, IsTerminalStatus(tt.status))
		})
	}
}

func TestProcessingComplete(t *testing.T) {
	assert.True(t, LogRecord{RecoveryStatus: "completed", ParseStatus: "success"}.ProcessingComplete())
	assert.False(t, LogRecord{RecoveryStatus: "completed", ParseStatus: "pending"}.ProcessingComplete())
	assert.False(t, LogRecord{RecoveryStatus: "running", ParseStatus: "success"}.ProcessingComplete())
}

func TestApplyDelta(t *testing.T) {
	record := LogRecord{
		Id:             101,
		RecoveryStatus: "pending",
		ParseStatus:    "pending",
		Cars:           []string{"gt3"},
		Notes:          "locally edited notes",
	}

	recovery := "completed"
	record.ApplyDelta(LogRecordDelta{Id: 101, RecoveryStatus: &recovery})

	assert.Equal(t, "completed", record.RecoveryStatus)
	// Fields absent from the delta keep their displayed value.
	assert.Equal(t, "pending", record.ParseStatus)
	assert.Equal(t, []string{"gt3"}, record.Cars)
	assert.Equal(t, "locally edited notes", record.Notes)
}

func TestDeltaProcessingComplete(t *testing.T) {
	completed := "completed"
	success := "success"
	pending := "pending"

	assert.True(t, LogRecordDelta{RecoveryStatus: &completed, ParseStatus: &success}.ProcessingComplete())
	assert.False(t, LogRecordDelta{RecoveryStatus: &completed, ParseStatus: &pending}.ProcessingComplete())
	// A stage missing from the response counts as pending.
	assert.False(t, LogRecordDelta{RecoveryStatus: &completed}.ProcessingComplete())
	assert.False(t, LogRecordDelta{}.ProcessingComplete())
}
