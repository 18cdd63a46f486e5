package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/ropeworks/internal/core"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s %q must be a positive integer", errInvalidRequest, name, raw)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter; absent is 0.
func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s %q must be a positive integer", errInvalidRequest, name, raw)
	}
	return id, nil
}

// parsePage reads page and per_page. Bad or missing values are left at zero
// and the service applies its defaults.
func parsePage(r *http.Request) core.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return core.PageRequest{Page: page, PerPage: perPage}
}

// decodeJSON reads a single JSON document into dst. Unknown fields are
// rejected so typos in field names surface as errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: body must hold a single JSON object", errInvalidRequest)
	}
	return nil
}

// listFilter reads the search + status filter shared by reference lists.
func listFilter(r *http.Request) core.ListFilter {
	q := r.URL.Query()
	return core.ListFilter{
		Search:      strings.TrimSpace(q.Get("search")),
		Status:      q.Get("status"),
		PageRequest: parsePage(r),
	}
}
