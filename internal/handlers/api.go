package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dannyrandall/moviehub/internal/movies"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// API serves the movies collection and item endpoints.
type API struct {
	Movies *movies.Store

	// Now reports the current time. The valid year range is derived from it
	// on every request. Defaults to time.Now.
	Now func() time.Time

	// TraceID returns the trace id of the request for log correlation, or ""
	// when the request is not traced.
	TraceID func(r *http.Request) string

	// LogOutput receives request logs. Defaults to os.Stderr.
	LogOutput io.Writer
}

func (a *API) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *API) collection(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	log.Printf("Handling request: %s %s", r.Method, r.URL.String())

	switch r.Method {
	case http.MethodGet:
		a.listMovies(log, w, r)
	case http.MethodPost:
		a.createMovie(log, w, r)
	default:
		httpError(w, http.StatusMethodNotAllowed, log, "method not allowed")
	}
}

func (a *API) item(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	log.Printf("Handling request: %s %s", r.Method, r.URL.String())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, http.StatusBadRequest, log, "invalid id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getMovie(log, w, id)
	case http.MethodDelete:
		a.deleteMovie(log, w, id)
	default:
		httpError(w, http.StatusMethodNotAllowed, log, "method not allowed")
	}
}

func (a *API) listMovies(log *log.Logger, w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(r.URL.RawQuery) == "" {
		writeJSON(w, http.StatusOK, log, a.Movies.All())
		return
	}

	year, ok := parseYearQuery(r.URL.RawQuery)
	if !ok {
		httpError(w, http.StatusBadRequest, log, "invalid query parameter — 'year'")
		return
	}

	found := a.Movies.ByYear(year)
	log.Printf("Found %d movies from %d", len(found), year)
	writeJSON(w, http.StatusOK, log, found)
}

// parseYearQuery accepts a query consisting of exactly one year parameter.
func parseYearQuery(rawQuery string) (int, bool) {
	params := strings.Split(strings.TrimRight(rawQuery, "&"), "&")
	if len(params) != 1 || !strings.HasPrefix(params[0], "year=") {
		return 0, false
	}

	value, err := url.QueryUnescape(strings.TrimPrefix(params[0], "year="))
	if err != nil {
		return 0, false
	}

	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return year, true
}

func (a *API) createMovie(log *log.Logger, w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		httpError(w, http.StatusUnsupportedMediaType, log, "unsupported content type")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("read body: %s", err)
		httpError(w, http.StatusBadRequest, log, "invalid JSON")
		return
	}

	var req *movies.CreateRequest
	if err := json.Unmarshal(body, &req); err != nil || req == nil {
		httpError(w, http.StatusBadRequest, log, "invalid JSON")
		return
	}

	if errs := req.Validate(a.now()); len(errs) > 0 {
		validationError(w, log, errs)
		return
	}

	movie := a.Movies.Add(strings.TrimSpace(*req.Title), *req.Year)
	log.Printf("Created movie %+v", movie)

	writeJSON(w, http.StatusCreated, log, movie)
}

func (a *API) getMovie(log *log.Logger, w http.ResponseWriter, id int) {
	movie, ok := a.Movies.Get(id)
	if !ok {
		httpError(w, http.StatusNotFound, log, "movie not found")
		return
	}

	log.Printf("Got movie %+v", movie)
	writeJSON(w, http.StatusOK, log, movie)
}

func (a *API) deleteMovie(log *log.Logger, w http.ResponseWriter, id int) {
	if !a.Movies.Delete(id) {
		httpError(w, http.StatusNotFound, log, "movie not found")
		return
	}

	log.Printf("Deleted movie %d", id)
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusNoContent)
}
