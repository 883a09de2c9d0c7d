package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookinbox/hookinbox/internal/models"
)

func sampleEvent(id int64) *models.WebhookEvent {
	ct := "application/json"
	body := `{"a":1}`
	return &models.WebhookEvent{
		ID:          id,
		ReceivedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Method:      "POST",
		Path:        "/webhook",
		ContentType: &ct,
		Headers:     map[string]string{"Content-Type": "application/json"},
		Body:        &body,
	}
}

func TestViewerHandler_InboxRendersListing(t *testing.T) {
	inbox := &mockInbox{
		listRecentFunc: func(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
			return []*models.WebhookEvent{sampleEvent(2), sampleEvent(1)}, nil
		},
	}
	h := NewViewerHandler(inbox, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Inbox(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "/event/2")
	assert.Contains(t, rr.Body.String(), "/event/1")
}

func TestViewerHandler_InboxEmpty(t *testing.T) {
	h := NewViewerHandler(&mockInbox{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Inbox(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No webhooks captured yet")
}

func TestViewerHandler_DetailRendersEvent(t *testing.T) {
	pretty := "{\n  \"a\": 1\n}"
	inbox := &mockInbox{
		getEventFunc: func(ctx context.Context, id int64) (*models.EventDetail, error) {
			return &models.EventDetail{WebhookEvent: *sampleEvent(id), PrettyJSON: &pretty}, nil
		},
	}
	h := NewViewerHandler(inbox, nil)

	req := httptest.NewRequest(http.MethodGet, "/event/5", nil)
	req.SetPathValue("id", "5")
	rr := httptest.NewRecorder()
	h.Detail(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Event 5")
	assert.Contains(t, rr.Body.String(), "Body (JSON)")
}

func TestViewerHandler_DetailNotFound(t *testing.T) {
	h := NewViewerHandler(&mockInbox{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/event/99", nil)
	req.SetPathValue("id", "99")
	rr := httptest.NewRecorder()
	h.Detail(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestViewerHandler_DetailRejectsNonNumericID(t *testing.T) {
	h := NewViewerHandler(&mockInbox{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/event/abc", nil)
	req.SetPathValue("id", "abc")
	rr := httptest.NewRecorder()
	h.Detail(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestViewerHandler_ListEventsJSON(t *testing.T) {
	var gotLimit int
	inbox := &mockInbox{
		listRecentFunc: func(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
			gotLimit = limit
			return []*models.WebhookEvent{sampleEvent(1)}, nil
		},
	}
	h := NewViewerHandler(inbox, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?limit=25", nil)
	rr := httptest.NewRecorder()
	h.ListEvents(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 25, gotLimit)

	var list models.EventList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	require.Len(t, list.Events, 1)
	assert.Equal(t, int64(1), list.Events[0].ID)
}

func TestViewerHandler_ListEventsInvalidLimit(t *testing.T) {
	h := NewViewerHandler(&mockInbox{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?limit=abc", nil)
	rr := httptest.NewRecorder()
	h.ListEvents(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestViewerHandler_GetEventJSON(t *testing.T) {
	pretty := "{\n  \"a\": 1\n}"
	inbox := &mockInbox{
		getEventFunc: func(ctx context.Context, id int64) (*models.EventDetail, error) {
			return &models.EventDetail{WebhookEvent: *sampleEvent(id), PrettyJSON: &pretty}, nil
		},
	}
	h := NewViewerHandler(inbox, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/7", nil)
	req.SetPathValue("id", "7")
	rr := httptest.NewRecorder()
	h.GetEvent(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var detail models.EventDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, int64(7), detail.ID)
	require.NotNil(t, detail.PrettyJSON)
	assert.Equal(t, pretty, *detail.PrettyJSON)
}

func TestViewerHandler_GetEventJSONNotFound(t *testing.T) {
	h := NewViewerHandler(&mockInbox{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/404", nil)
	req.SetPathValue("id", "404")
	rr := httptest.NewRecorder()
	h.GetEvent(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "event not found")
}
