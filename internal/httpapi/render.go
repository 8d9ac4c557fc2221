package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"gatelog/internal/gatelog/store"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

// logEntryJSON is the dashboard wire shape of one log row.
type logEntryJSON struct {
	ID         int64  `json:"id"`
	UID        string `json:"uid"`
	Direction  string `json:"direction"`
	DeviceName string `json:"device_name"`
	DeviceTime string `json:"device_time"`
	ServerTime string `json:"server_time"`
	Authorized bool   `json:"authorized"`
	Username   string `json:"username"`
}

func logEntryFromStore(e store.LogEntry) logEntryJSON {
	return logEntryJSON{
		ID:         e.ID,
		UID:        e.UID,
		Direction:  string(e.Direction),
		DeviceName: e.DeviceName,
		DeviceTime: e.DeviceTime,
		ServerTime: e.ServerTime.UTC().Format(time.RFC3339),
		Authorized: e.Authorized,
		Username:   e.Username,
	}
}
