package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.timeout(next))))
		}
		uncached = func(next http.Handler) http.Handler {
			return shared(noCache(next))
		}
	)

	mux.Handle("POST /api/programs", uncached(http.HandlerFunc(app.programsPOST)))
	mux.Handle("GET /api/programs/{id}", shared(http.HandlerFunc(app.programGET)))
	mux.Handle("GET /api/programs/{id}/summary", shared(http.HandlerFunc(app.programSummaryGET)))
	mux.Handle("GET /api/catalogue", shared(http.HandlerFunc(app.catalogueGET)))
	mux.Handle("GET /api/healthy", uncached(http.HandlerFunc(app.healthy)))

	mux.Handle("/", shared(http.HandlerFunc(app.notFound)))

	return mux
}
