package types

import "time"

// Direction of a badge scan. IN and OUT are the complete set; readers
// reporting anything else are rejected at ingestion.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ValidDirection reports whether d is one of the two known directions.
func ValidDirection(d Direction) bool {
	return d == DirectionIn || d == DirectionOut
}

// ScanRequest is one badge scan as reported by a reader device.
// DeviceTime is the device's own clock reading, kept verbatim; server
// time is assigned at ingestion and is authoritative for ordering.
type ScanRequest struct {
	UID        string
	Direction  Direction
	DeviceName string
	DeviceTime string
}

// ScanResponse is the ingestion outcome for an accepted scan.  A rejected
// scan never produces a ScanResponse; it surfaces as an error instead.
type ScanResponse struct {
	Authorized bool
	Owner      string
	EventID    int64
	ServerTime time.Time
}
