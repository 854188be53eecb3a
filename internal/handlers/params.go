package handlers

import (
	"fmt"
	"net/http"
	"strconv"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}
	if val := r.URL.Query().Get(name); val != "" {
		return val
	}
	return r.PathValue(name)
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := getParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
