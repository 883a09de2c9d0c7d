package logging

import "log/slog"

// Common field names for consistent logging.
const (
	FieldService  = "service"
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldError    = "error"
	FieldEventID  = "event_id"
	FieldCapacity = "capacity"
	FieldEvicted  = "evicted"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// EventID returns a slog attribute for a stored event ID.
func EventID(id int64) slog.Attr {
	return slog.Int64(FieldEventID, id)
}

// Capacity returns a slog attribute for the retention capacity.
func Capacity(n int) slog.Attr {
	return slog.Int(FieldCapacity, n)
}

// Evicted returns a slog attribute for the number of evicted rows.
func Evicted(n int64) slog.Attr {
	return slog.Int64(FieldEvicted, n)
}
