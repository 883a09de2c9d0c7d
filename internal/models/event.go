package models

import "time"

// WebhookEvent is one durably stored inbound callback. Records are immutable
// once written: they are only ever created by ingestion or evicted by the
// retention trim.
type WebhookEvent struct {
	ID          int64             `json:"id"`
	ReceivedAt  time.Time         `json:"received_at"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	ContentType *string           `json:"content_type,omitempty"`
	Headers     map[string]string `json:"headers"`
	Body        *string           `json:"body,omitempty"`
}

// ReceiveResponse is the acknowledgment returned to webhook senders.
type ReceiveResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// EventDetail is the query-boundary view of a single event, including the
// optional display-only pretty-printed JSON body.
type EventDetail struct {
	WebhookEvent
	PrettyJSON *string `json:"pretty_json,omitempty"`
}

// EventList is the query-boundary view of the inbox listing.
type EventList struct {
	Events []*WebhookEvent `json:"events"`
	Count  int             `json:"count"`
}
