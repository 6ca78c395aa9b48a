package main

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/myrjola/programsmith/internal/errors"
	"github.com/myrjola/programsmith/internal/logging"
	"github.com/myrjola/programsmith/internal/program"
)

const maxProfileBytes = 64 << 10

type programResponse struct {
	Program    program.GeneratedProgram `json:"program"`
	Deviations []program.Deviation      `json:"deviations,omitempty"`
}

// programsPOST generates a program for the training profile in the request body.
func (app *application) programsPOST(w http.ResponseWriter, r *http.Request) {
	var profile program.TrainingProfile
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBytes))
	if err := decoder.Decode(&profile); err != nil {
		app.clientError(w, r, http.StatusBadRequest, errors.Wrap(err, "decode training profile"))
		return
	}

	result, err := app.programService.Generate(r.Context(), profile)
	switch {
	case errors.Is(err, program.ErrInvalidProfile):
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	case errors.Is(err, program.ErrConfiguration):
		app.logger.LogAttrs(r.Context(), slog.LevelError, "generation not configured", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, context.Canceled):
		app.logger.LogAttrs(r.Context(), slog.LevelInfo, "client went away", errors.SlogError(err))
		return
	case err != nil:
		app.serverError(w, r, err)
		return
	}

	ctx := logging.WithAttrs(r.Context(), slog.String("program_id", result.Program.ID))
	app.logger.LogAttrs(ctx, slog.LevelInfo, "program generated",
		slog.String("provenance", string(result.Program.Provenance)),
		slog.String("fallback_reason", string(result.FallbackReason)))
	if result.FallbackReason == program.FallbackGenerationTimeout && app.flightRecorder != nil {
		app.flightRecorder.Capture(ctx, string(result.FallbackReason))
	}
	app.writeJSON(w, r, http.StatusOK, programResponse{Program: result.Program, Deviations: result.Deviations})
}

// programGET returns a stored program.
func (app *application) programGET(w http.ResponseWriter, r *http.Request) {
	stored, ok := app.lookupProgram(w, r)
	if !ok {
		return
	}
	app.writeJSON(w, r, http.StatusOK, programResponse{Program: stored.Program, Deviations: nil})
}

var summaryTemplate = template.Must(template.New("summary").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Name }}</title>
</head>
<body>
{{ .Body }}
</body>
</html>
`))

// programSummaryGET renders a stored program as a human-readable HTML page.
func (app *application) programSummaryGET(w http.ResponseWriter, r *http.Request) {
	stored, ok := app.lookupProgram(w, r)
	if !ok {
		return
	}
	body, err := program.RenderSummaryHTML(stored.Program)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// Nothing is written before the template has executed.
	var buf bytes.Buffer
	data := struct {
		Name string
		Body template.HTML
	}{
		Name: stored.Program.Name,
		Body: template.HTML(body), //nolint:gosec // goldmark output with raw HTML disabled.
	}
	if err = summaryTemplate.Execute(&buf, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute summary template"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (app *application) lookupProgram(w http.ResponseWriter, r *http.Request) (program.StoredProgram, bool) {
	stored, err := app.programService.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, program.ErrNotFound) {
		app.notFound(w, r)
		return program.StoredProgram{}, false
	}
	if err != nil {
		app.serverError(w, r, err)
		return program.StoredProgram{}, false
	}
	return stored, true
}
