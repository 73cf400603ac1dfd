package httpapi

import "net/http"

func registerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /matches", handler.ListMatches)
	mux.HandleFunc("GET /matches/{$}", handler.ListMatches)

	// Everything else, including other methods on /matches.
	mux.HandleFunc("/", handler.NotFound)
}
