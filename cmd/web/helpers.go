package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/programsmith/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as the JSON response body with the given status.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(body); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "failed to write response", errors.SlogError(err))
	}
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "client error", errors.SlogError(err))
	app.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: http.StatusText(http.StatusNotFound)})
}
