package dto

import "encoding/json"

// ApiErrorDto covers the error payload shapes the backend produces: DRF
// uses "detail", the export endpoint uses "error", ad-hoc handlers use
// "message".
type ApiErrorDto struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ServerMessage extracts a human-readable message from an error body, or ""
// when the body has no recognizable structure.
func ServerMessage(body []byte) string {
	var dest ApiErrorDto
	if err := json.Unmarshal(body, &dest); err != nil {
		return ""
	}
	for _, msg := range []string{dest.Detail, dest.Message, dest.Error} {
		if msg != "" {
			return msg
		}
	}
	return ""
}
