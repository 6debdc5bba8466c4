package contract

import "time"

const SchemaVersion = "v1"

type ErrorCode string

const (
	ErrGeneric         ErrorCode = "GENERIC_FAILURE"
	ErrInvalidUsage    ErrorCode = "INVALID_USAGE"
	ErrPayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrStorage         ErrorCode = "STORAGE_FAILURE"
)

type ErrorEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Error         ErrorBody      `json:"error"`
	Meta          map[string]any `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}

type SuccessEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Command       string         `json:"command"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Data          any            `json:"data"`
	Meta          map[string]any `json:"meta"`
	Warnings      []string       `json:"warnings"`
}

// Payload is one encoder result as reported to CLI and HTTP callers.
type Payload struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
	Bytes   int    `json:"bytes"`
	Size    string `json:"size"`
}

type HistoryEntry struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Type    string    `json:"type"`
	Payload string    `json:"payload"`
	Bytes   int       `json:"bytes"`
}

type DataTypeInfo struct {
	Type        string `json:"type"`
	Format      string `json:"format"`
	Description string `json:"description"`
}
