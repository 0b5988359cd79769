package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeDetail writes an error body in the {"detail": "..."} shape clients
// of this API expect
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeJSON(r *http.Request, value any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(value)
}

// pageParams reads skip and limit, applying the API's defaults and bounds
func pageParams(r *http.Request) (skip, limit int, ok bool) {
	return pageParamsWith(r, defaultPageLimit, maxPageLimit)
}

// pageParamsWith is pageParams for resources with their own limits
func pageParamsWith(r *http.Request, defaultLimit, maxLimit int) (skip, limit int, ok bool) {
	skip, limit = 0, defaultLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		skip = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			return 0, 0, false
		}
		limit = n
	}
	return skip, limit, true
}

// boolQuery reads an optional boolean query parameter
func boolQuery(r *http.Request, name string) (*bool, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, false
	}
	return &b, true
}

// writeMessage writes the {"message": "..."} acknowledgement
func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
