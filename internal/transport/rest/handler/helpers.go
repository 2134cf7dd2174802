package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"formdesk/internal/model"
	"formdesk/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Validation failures carry every violation so the caller can fix the whole
// request at once.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "validation failed",
			"violations": verr.Violations,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrResponseNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEditNotAllowed),
		errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrReadOnlyUser),
		errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writePage emits the {data, pagination} list envelope
func writePage(w http.ResponseWriter, data interface{}, total int64, q model.PageQuery) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       data,
		"pagination": model.NewPagination(total, q),
	})
}

func parsePageQuery(r *http.Request) model.PageQuery {
	q := model.PageQuery{Search: r.URL.Query().Get("search")}
	if page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil {
		q.Page = page
	}
	if limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil {
		q.Limit = limit
	}
	return q.Normalize()
}
