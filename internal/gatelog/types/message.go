package types

// LogRecord is the observer-facing view of one persisted scan.  Field
// names match the dashboard wire format.
type LogRecord struct {
	UID        string `json:"uid"`
	Direction  string `json:"direction"`
	DeviceName string `json:"device_name"`
	DeviceTime string `json:"device_time"`
	Authorized bool   `json:"authorized"`
	Username   string `json:"username"`
}

// LogMessage is the envelope broadcast to connected observers whenever a
// scan is persisted.
type LogMessage struct {
	Type string    `json:"type"`
	Data LogRecord `json:"data"`
}

// NewLogMessage wraps a record in the "new_log" envelope.
func NewLogMessage(rec LogRecord) LogMessage {
	return LogMessage{Type: "new_log", Data: rec}
}
