package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the HTTP surface of the API. Requests to /movies go to the
// collection handler and requests to /movies/{id} go to the item handler.
// Any other path is answered with a JSON 404.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(a.withRequestLogger)
	r.Use(recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, http.StatusNotFound, requestLogger(r), "not found")
	})

	r.HandleFunc("/movies", a.collection)
	r.HandleFunc("/movies/", a.item)
	r.HandleFunc("/movies/{id}", a.item)

	return r
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log := requestLogger(r)
				log.Printf("panic: %v", rec)
				httpError(w, http.StatusInternalServerError, log, "internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
