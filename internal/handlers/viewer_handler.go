package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/hookinbox/hookinbox/internal/httputil"
	"github.com/hookinbox/hookinbox/internal/logging"
	"github.com/hookinbox/hookinbox/internal/models"
	"github.com/hookinbox/hookinbox/internal/repository"
	"github.com/hookinbox/hookinbox/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewerHandler serves the operator-facing inbox: server-rendered HTML pages
// plus JSON twins of the same reads for programmatic rendering layers.
type ViewerHandler struct {
	inbox  Inbox
	tmpl   *template.Template
	logger *logging.Logger
}

func NewViewerHandler(inbox Inbox, logger *logging.Logger) *ViewerHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ViewerHandler{
		inbox:  inbox,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger: logger,
	}
}

// Inbox renders the listing page: up to 200 events, newest first.
func (h *ViewerHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	events, err := h.inbox.ListRecent(r.Context(), service.ListCap)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list events", logging.Error(err))
		http.Error(w, "failed to load inbox", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "inbox.html", map[string]interface{}{
		"Events": events,
	})
}

// Detail renders a single event: headers table, raw body, and the pretty
// JSON form when the body parses as JSON.
func (h *ViewerHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	detail, err := h.inbox.GetEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load event",
			logging.Error(err), logging.EventID(id))
		http.Error(w, "failed to load event", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "event.html", map[string]interface{}{
		"Event": detail,
	})
}

// ListEvents is the JSON twin of Inbox. An optional limit query parameter
// narrows the listing; it is still capped at 200.
func (h *ViewerHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, err := h.inbox.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list events", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.EventList{Events: events, Count: len(events)})
}

// GetEvent is the JSON twin of Detail.
func (h *ViewerHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "event not found")
		return
	}

	detail, err := h.inbox.GetEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load event",
			logging.Error(err), logging.EventID(id))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load event")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, detail)
}

func (h *ViewerHandler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render template",
			logging.Error(err), logging.Path(r.URL.Path))
	}
}
