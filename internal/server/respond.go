package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mluna/hogarledger/internal/errs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error's kind to an HTTP status. Unclassified errors are
// logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)

	var status int
	switch kind {
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindInvalidInput:
		status = http.StatusBadRequest
	case errs.KindInvalidState, errs.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{
		"error": msg,
		"kind":  kind.String(),
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.InvalidInput("invalid request body: %v", err)
	}
	return nil
}

// requestUser reads the identity resolved by the deployment in front of this
// service.
func requestUser(r *http.Request) (string, error) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return "", errs.InvalidInput("missing X-User-ID header")
	}
	return userID, nil
}

// periodQuery reads the month and year query parameters.
func periodQuery(r *http.Request) (int, int, error) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, errs.InvalidInput("invalid month: %q", r.URL.Query().Get("month"))
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, errs.InvalidInput("invalid year: %q", r.URL.Query().Get("year"))
	}
	return month, year, nil
}
