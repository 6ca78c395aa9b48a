package main

import (
	"net/http"

	"github.com/myrjola/programsmith/internal/catalogue"
)

type catalogueResponse struct {
	Version string                 `json:"version"`
	Groups  []catalogue.GroupedIDs `json:"groups"`
}

// catalogueGET lists the exercise identifiers programs may use, grouped by body region.
func (app *application) catalogueGET(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	app.writeJSON(w, r, http.StatusOK, catalogueResponse{
		Version: catalogue.Version,
		Groups:  catalogue.Grouped(),
	})
}
